package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybook/flight-reservation-api/internal/repository"
)

func testSeats() []repository.Seat {
	return []repository.Seat{
		{ID: 1, AircraftID: 9, SeatNumber: "A1", SeatClass: repository.SeatClassFirstClass},
		{ID: 2, AircraftID: 9, SeatNumber: "B1", SeatClass: repository.SeatClassBusiness},
		{ID: 3, AircraftID: 9, SeatNumber: "C1", SeatClass: repository.SeatClassEconomy},
		{ID: 4, AircraftID: 9, SeatNumber: "C2", SeatClass: repository.SeatClassEconomy},
	}
}

func newTestSession(passengers int) *Session {
	p := make([]Passenger, passengers)
	for i := range p {
		p[i] = Passenger{Name: "P", Passport: "X123456"}
	}
	return NewSession("s", 7, 100, 9, p, testSeats())
}

func TestSelectSeatInjection(t *testing.T) {
	s := newTestSession(3)

	require.NoError(t, s.SelectSeat(1, 3))
	require.NoError(t, s.SelectSeat(2, 4))
	require.NoError(t, s.SelectSeat(3, 2))

	// No seat may appear twice across passengers.
	seen := map[uint64]bool{}
	for i := 1; i <= 3; i++ {
		seat, ok := s.AssignedSeat(i)
		require.True(t, ok)
		assert.False(t, seen[seat.ID], "seat %d assigned twice", seat.ID)
		seen[seat.ID] = true
	}
	assert.Empty(t, s.Unassigned())
}

func TestSelectSeatTakenIsNoOp(t *testing.T) {
	s := newTestSession(2)
	require.NoError(t, s.SelectSeat(1, 3))

	// Second passenger grabbing the same seat is rejected and ownership
	// does not move.
	err := s.SelectSeat(2, 3)
	assert.ErrorIs(t, err, ErrSeatTaken)

	seat, ok := s.AssignedSeat(1)
	require.True(t, ok)
	assert.Equal(t, uint64(3), seat.ID)
	_, ok = s.AssignedSeat(2)
	assert.False(t, ok)
}

func TestSelectSeatOwnSeatIdempotent(t *testing.T) {
	s := newTestSession(1)
	require.NoError(t, s.SelectSeat(1, 3))
	require.NoError(t, s.SelectSeat(1, 3))

	seat, ok := s.AssignedSeat(1)
	require.True(t, ok)
	assert.Equal(t, uint64(3), seat.ID)
}

func TestReassignFreesPreviousSeat(t *testing.T) {
	s := newTestSession(2)
	require.NoError(t, s.SelectSeat(1, 3))
	require.NoError(t, s.SelectSeat(1, 4))

	// Seat 3 is free again and selectable by passenger 2.
	require.NoError(t, s.SelectSeat(2, 3))

	seat1, _ := s.AssignedSeat(1)
	seat2, _ := s.AssignedSeat(2)
	assert.Equal(t, uint64(4), seat1.ID)
	assert.Equal(t, uint64(3), seat2.ID)
}

func TestDeselectSeat(t *testing.T) {
	s := newTestSession(1)
	require.NoError(t, s.SelectSeat(1, 2))
	require.NoError(t, s.DeselectSeat(1))

	_, ok := s.AssignedSeat(1)
	assert.False(t, ok)
	assert.Equal(t, []int{1}, s.Unassigned())

	assert.ErrorIs(t, s.DeselectSeat(1), ErrNothingAssigned)
}

func TestSelectSeatErrors(t *testing.T) {
	s := newTestSession(1)
	assert.ErrorIs(t, s.SelectSeat(0, 1), ErrPassengerIndex)
	assert.ErrorIs(t, s.SelectSeat(2, 1), ErrPassengerIndex)
	assert.ErrorIs(t, s.SelectSeat(1, 999), ErrSeatUnavailable)
}

func TestUnassignedGatesCompletion(t *testing.T) {
	s := newTestSession(3)
	require.NoError(t, s.SelectSeat(2, 3))

	assert.Equal(t, []int{1, 3}, s.Unassigned())

	_, err := s.Assignments()
	assert.ErrorIs(t, err, ErrSeatsOutstanding)
	_, err = s.Quote()
	assert.ErrorIs(t, err, ErrSeatsOutstanding)
}

func TestAssignmentsInPassengerOrder(t *testing.T) {
	s := newTestSession(2)
	require.NoError(t, s.SelectSeat(2, 4))
	require.NoError(t, s.SelectSeat(1, 3))

	all, err := s.Assignments()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint64(3), all[0].Seat.ID)
	assert.Equal(t, uint64(4), all[1].Seat.ID)
}

func TestQuoteTwoEconomy(t *testing.T) {
	s := newTestSession(2)
	require.NoError(t, s.SelectSeat(1, 3))
	require.NoError(t, s.SelectSeat(2, 4))

	q, err := s.Quote()
	require.NoError(t, err)
	// 250 x 1 x 2 = 500, +10% tax = 550.
	assert.InDelta(t, 500.00, q.Subtotal, 1e-9)
	assert.InDelta(t, 50.00, q.Taxes, 1e-9)
	assert.InDelta(t, 550.00, q.Total, 1e-9)
}

func TestQuoteOneBusiness(t *testing.T) {
	s := newTestSession(1)
	require.NoError(t, s.SelectSeat(1, 2))

	q, err := s.Quote()
	require.NoError(t, err)
	// 250 x 2 x 1 = 500, +10% tax = 550.
	assert.InDelta(t, 550.00, q.Total, 1e-9)
}

func TestQuoteMixedClassUsesFirstPassenger(t *testing.T) {
	s := newTestSession(2)
	require.NoError(t, s.SelectSeat(1, 1)) // FirstClass
	require.NoError(t, s.SelectSeat(2, 3)) // Economy

	q, err := s.Quote()
	require.NoError(t, err)
	// The whole party is priced at the first passenger's class:
	// 250 x 3 x 2 = 1500, +10% = 1650.
	assert.InDelta(t, 1650.00, q.Total, 1e-9)

	// Swapped order prices at economy instead.
	s2 := newTestSession(2)
	require.NoError(t, s2.SelectSeat(1, 3)) // Economy
	require.NoError(t, s2.SelectSeat(2, 1)) // FirstClass
	q2, err := s2.Quote()
	require.NoError(t, err)
	assert.InDelta(t, 550.00, q2.Total, 1e-9)
}

func TestAvailableSeatsExcludeAssigned(t *testing.T) {
	s := newTestSession(1)
	require.NoError(t, s.SelectSeat(1, 2))

	for _, seat := range s.AvailableSeats() {
		assert.NotEqual(t, uint64(2), seat.ID)
	}
	assert.Len(t, s.AvailableSeats(), 3)
}
