package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn("app", "s3cret", "db.local", "3306", "flights")
	assert.Equal(t,
		"app:s3cret@tcp(db.local:3306)/flights?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}

func TestDSNWithoutPassword(t *testing.T) {
	got := dsn("root", "", "127.0.0.1", "3306", "flights")
	assert.Equal(t,
		"root@tcp(127.0.0.1:3306)/flights?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}

// Repositories treat RowsAffected() == 0 on UPDATE as "row does not exist".
// That reading is only correct with clientFoundRows=true: without it the
// driver reports rows changed, so resubmitting an identical update against
// an existing row would be misread as not-found.
func TestDSNReportsMatchedRows(t *testing.T) {
	assert.Contains(t, dsn("u", "p", "h", "3306", "d"), "clientFoundRows=true")
}
