// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// ReservationConfirmedEvent is published when a booking is successfully
// confirmed. It carries enough detail for downstream consumers to log or
// notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	UserID        uint64   `json:"user_id"`
	FlightID      uint64   `json:"flight_id"`
	FromCode      string   `json:"from"`
	ToCode        string   `json:"to"`
	DepartureTime string   `json:"departure_time"`
	DayOfWeek     string   `json:"day_of_week"`
	SeatNumbers   []string `json:"seats"`
	TotalAmount   float64  `json:"total_amount"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
