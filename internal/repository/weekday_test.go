package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayName(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2025-06-02", "MONDAY"},
		{"2025-06-03", "TUESDAY"},
		{"2025-06-04", "WEDNESDAY"},
		{"2025-06-05", "THURSDAY"},
		{"2025-06-06", "FRIDAY"},
		{"2025-06-07", "SATURDAY"},
		{"2025-06-08", "SUNDAY"},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, WeekdayName(d), "date %s", tc.date)
	}
}

func TestValidWeekday(t *testing.T) {
	assert.True(t, ValidWeekday("MONDAY"))
	assert.True(t, ValidWeekday("sunday"))
	assert.False(t, ValidWeekday("FUNDAY"))
	assert.False(t, ValidWeekday(""))
}

func TestValidSeatClass(t *testing.T) {
	assert.True(t, ValidSeatClass(SeatClassEconomy))
	assert.True(t, ValidSeatClass(SeatClassBusiness))
	assert.True(t, ValidSeatClass(SeatClassFirstClass))
	assert.False(t, ValidSeatClass("economy"))
	assert.False(t, ValidSeatClass("Premium"))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodCreditCard))
	assert.True(t, ValidPaymentMethod(PaymentMethodPayPal))
	assert.False(t, ValidPaymentMethod("Cash"))
}
