// Package booking holds the in-memory state of an in-progress reservation:
// the passengers being booked, which seat each one has picked, and the fare
// quote. Nothing here touches the database; a session only becomes durable
// when the confirmation handler commits it.
package booking

import (
	"errors"
	"sync"
	"time"

	"github.com/skybook/flight-reservation-api/internal/repository"
)

const (
	baseFare = 250.0
	taxRate  = 0.10
)

var (
	ErrSeatTaken        = errors.New("seat already assigned to another passenger")
	ErrSeatUnavailable  = errors.New("seat not available on this flight")
	ErrPassengerIndex   = errors.New("passenger index out of range")
	ErrNothingAssigned  = errors.New("passenger has no seat assigned")
	ErrSeatsOutstanding = errors.New("not all passengers have seats")
)

// Passenger is one traveler in a session. Passengers are addressed by their
// 1-based position in the list, matching how they were submitted.
type Passenger struct {
	Name     string
	Passport string
}

// Session is one user's in-progress booking on one flight. All access goes
// through methods holding mu; sessions are shared between request
// goroutines via the Store.
type Session struct {
	mu sync.Mutex

	ID         string
	UserID     uint64
	FlightID   uint64
	AircraftID uint64
	CreatedAt  time.Time

	passengers []Passenger
	// available is the set of seats selectable in this session: the
	// aircraft's seats minus those already reserved when the session opened.
	available map[uint64]repository.Seat
	// assigned maps 1-based passenger index to the chosen seat.
	assigned map[int]repository.Seat
}

// NewSession builds a session for the given passengers over the selectable
// seats. Seats already taken on the flight must be filtered out by the
// caller before constructing the session.
func NewSession(id string, userID, flightID, aircraftID uint64, passengers []Passenger, available []repository.Seat) *Session {
	avail := make(map[uint64]repository.Seat, len(available))
	for _, s := range available {
		avail[s.ID] = s
	}
	return &Session{
		ID:         id,
		UserID:     userID,
		FlightID:   flightID,
		AircraftID: aircraftID,
		CreatedAt:  time.Now(),
		passengers: passengers,
		available:  avail,
		assigned:   make(map[int]repository.Seat, len(passengers)),
	}
}

// Passengers returns a copy of the passenger list.
func (s *Session) Passengers() []Passenger {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Passenger, len(s.passengers))
	copy(out, s.passengers)
	return out
}

// AvailableSeats returns the selectable seats not currently assigned to any
// passenger of this session.
func (s *Session) AvailableSeats() []repository.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	held := make(map[uint64]struct{}, len(s.assigned))
	for _, seat := range s.assigned {
		held[seat.ID] = struct{}{}
	}
	var out []repository.Seat
	for _, seat := range s.available {
		if _, ok := held[seat.ID]; !ok {
			out = append(out, seat)
		}
	}
	return out
}

// SelectSeat assigns a seat to the passenger at idx (1-based). Picking a
// seat already held by another passenger of the session fails and leaves
// every assignment untouched; repeating a passenger's own current pick is a
// no-op. Re-picking a different seat releases the passenger's previous one.
func (s *Session) SelectSeat(idx int, seatID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx > len(s.passengers) {
		return ErrPassengerIndex
	}
	seat, ok := s.available[seatID]
	if !ok {
		return ErrSeatUnavailable
	}
	for other, held := range s.assigned {
		if held.ID == seatID {
			if other == idx {
				return nil
			}
			return ErrSeatTaken
		}
	}
	s.assigned[idx] = seat
	return nil
}

// DeselectSeat releases the seat of the passenger at idx.
func (s *Session) DeselectSeat(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 1 || idx > len(s.passengers) {
		return ErrPassengerIndex
	}
	if _, ok := s.assigned[idx]; !ok {
		return ErrNothingAssigned
	}
	delete(s.assigned, idx)
	return nil
}

// AssignedSeat returns the seat currently held by the passenger at idx.
func (s *Session) AssignedSeat(idx int) (repository.Seat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.assigned[idx]
	return seat, ok
}

// Unassigned returns the 1-based indexes of passengers still without a
// seat, in passenger order.
func (s *Session) Unassigned() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for i := 1; i <= len(s.passengers); i++ {
		if _, ok := s.assigned[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}

// Assignment pairs a passenger with the seat they hold.
type Assignment struct {
	Passenger Passenger
	Seat      repository.Seat
}

// Assignments returns the complete passenger/seat pairing in passenger
// order, or ErrSeatsOutstanding if anyone is still unseated.
func (s *Session) Assignments() ([]Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.assigned) != len(s.passengers) {
		return nil, ErrSeatsOutstanding
	}
	out := make([]Assignment, 0, len(s.passengers))
	for i := 1; i <= len(s.passengers); i++ {
		out = append(out, Assignment{Passenger: s.passengers[i-1], Seat: s.assigned[i]})
	}
	return out, nil
}

// PriceQuote is the fare breakdown shown before payment.
type PriceQuote struct {
	Subtotal float64 `json:"subtotal"`
	Taxes    float64 `json:"taxes"`
	Total    float64 `json:"total"`
}

// classMultiplier returns the fare multiplier for a seat class.
func classMultiplier(class string) float64 {
	switch class {
	case repository.SeatClassBusiness:
		return 2.0
	case repository.SeatClassFirstClass:
		return 3.0
	default:
		return 1.0
	}
}

// Quote prices the booking: base fare times the class multiplier of the
// first passenger's seat, times the passenger count, plus tax. The first
// seat sets the rate for the whole party even when classes are mixed.
func (s *Session) Quote() (PriceQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.assigned) != len(s.passengers) {
		return PriceQuote{}, ErrSeatsOutstanding
	}
	first := s.assigned[1]
	subtotal := baseFare * classMultiplier(first.SeatClass) * float64(len(s.passengers))
	taxes := subtotal * taxRate
	return PriceQuote{Subtotal: subtotal, Taxes: taxes, Total: subtotal + taxes}, nil
}
