package utils

import (
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// NewQRToken builds the opaque token stored on a reservation. The format
// "QR_<unix millis>_<user id>" is what existing flightReservation rows carry,
// so it is kept as-is.
func NewQRToken(userID uint64) string {
	return fmt.Sprintf("QR_%d_%d", time.Now().UnixMilli(), userID)
}

// RenderQRPNG encodes a reservation's QR token as a PNG image of the given
// edge size in pixels.
func RenderQRPNG(token string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(token, qrcode.Medium, size)
}
