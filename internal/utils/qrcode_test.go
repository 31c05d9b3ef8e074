package utils

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRTokenFormat(t *testing.T) {
	before := time.Now().UnixMilli()
	token := NewQRToken(1234)
	after := time.Now().UnixMilli()

	require.Regexp(t, regexp.MustCompile(`^QR_\d+_1234$`), token)

	parts := strings.Split(token, "_")
	require.Len(t, parts, 3)
	millis, err := strconv.ParseInt(parts[1], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, millis, before)
	assert.LessOrEqual(t, millis, after)
}

func TestRenderQRPNG(t *testing.T) {
	png, err := RenderQRPNG("QR_1700000000000_7", 256)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderQRPNGDefaultSize(t *testing.T) {
	png, err := RenderQRPNG("QR_1700000000000_7", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
