package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybook/flight-reservation-api/internal/booking"
	"github.com/skybook/flight-reservation-api/internal/repository"
	"github.com/skybook/flight-reservation-api/internal/validator"
)

const testUserID = uint64(7)

// fakeReservationTx records the writes of one confirmation transaction and
// serves a canned taken-seat set, standing in for the MySQL transaction.
type fakeReservationTx struct {
	taken      map[uint64]struct{}
	writes     []string
	committed  bool
	rolledBack bool
}

func (t *fakeReservationTx) TakenSeatIDs(_ context.Context, _ uint64) (map[uint64]struct{}, error) {
	return t.taken, nil
}

func (t *fakeReservationTx) CreateReservation(_ context.Context, rec *repository.ReservationRecord) error {
	rec.ID = 501
	t.writes = append(t.writes, "reservation")
	return nil
}

func (t *fakeReservationTx) CreatePassenger(_ context.Context, p *repository.PassengerRecord) error {
	p.ID = uint64(600 + len(t.writes))
	t.writes = append(t.writes, "passenger")
	return nil
}

func (t *fakeReservationTx) CreatePassengerSeats(_ context.Context, _ []repository.PassengerSeatRecord) error {
	t.writes = append(t.writes, "passenger_seat")
	return nil
}

func (t *fakeReservationTx) CreatePayment(_ context.Context, pay *repository.Payment) error {
	pay.ID = 701
	t.writes = append(t.writes, "payment")
	return nil
}

func (t *fakeReservationTx) LinkFlightPayment(_ context.Context, _, _ uint64) error {
	t.writes = append(t.writes, "flight_payment")
	return nil
}

func (t *fakeReservationTx) Commit() error   { t.committed = true; return nil }
func (t *fakeReservationTx) Rollback() error { t.rolledBack = true; return nil }

type fakeConfirmStore struct{ tx *fakeReservationTx }

func (s fakeConfirmStore) Begin(_ context.Context) (ReservationTx, error) { return s.tx, nil }

// newBookingTestServer wires the session endpoints over an in-memory store
// and the given ConfirmStore; Start needs a database and stays out of scope
// here.
func newBookingTestServer(store *booking.Store, cs ConfirmStore) *echo.Echo {
	h := &BookingHandler{Sessions: store, Tx: cs}
	e := echo.New()
	e.Validator = validator.New()
	asUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", testUserID)
			return next(c)
		}
	}
	g := e.Group("/v1", asUser)
	g.GET("/bookings/:sid", h.State)
	g.PUT("/bookings/:sid/seats", h.SelectSeat)
	g.DELETE("/bookings/:sid/seats/:passenger", h.DeselectSeat)
	g.GET("/bookings/:sid/quote", h.Quote)
	g.POST("/bookings/:sid/confirm", h.Confirm)
	g.DELETE("/bookings/:sid", h.Abandon)
	return e
}

func seedSession(store *booking.Store, passengers int) string {
	p := make([]booking.Passenger, passengers)
	for i := range p {
		p[i] = booking.Passenger{Name: "P", Passport: "X1"}
	}
	seats := []repository.Seat{
		{ID: 1, SeatNumber: "A1", SeatClass: repository.SeatClassEconomy},
		{ID: 2, SeatNumber: "A2", SeatClass: repository.SeatClassEconomy},
		{ID: 3, SeatNumber: "B1", SeatClass: repository.SeatClassBusiness},
	}
	return store.Put(booking.NewSession("", testUserID, 100, 9, p, seats))
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBookingSelectSeatFlow(t *testing.T) {
	store := booking.NewStore(time.Minute)
	e := newBookingTestServer(store, nil)
	sid := seedSession(store, 2)

	rec := doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":1,"seat_id":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unassigned":[2]`)

	// Second passenger taking the same seat is a conflict.
	rec = doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":2,"seat_id":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":2,"seat_id":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quote"`)
}

func TestBookingQuoteRequiresFullAssignment(t *testing.T) {
	store := booking.NewStore(time.Minute)
	e := newBookingTestServer(store, nil)
	sid := seedSession(store, 2)

	rec := doJSON(e, http.MethodGet, "/v1/bookings/"+sid+"/quote", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":1,"seat_id":1}`)
	doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":2,"seat_id":2}`)

	rec = doJSON(e, http.MethodGet, "/v1/bookings/"+sid+"/quote", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":550`)
}

func TestBookingDeselectSeat(t *testing.T) {
	store := booking.NewStore(time.Minute)
	e := newBookingTestServer(store, nil)
	sid := seedSession(store, 1)

	doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":1,"seat_id":3}`)
	rec := doJSON(e, http.MethodDelete, "/v1/bookings/"+sid+"/seats/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unassigned":[1]`)

	// Deselecting again conflicts.
	rec = doJSON(e, http.MethodDelete, "/v1/bookings/"+sid+"/seats/1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookingSessionNotFound(t *testing.T) {
	store := booking.NewStore(time.Minute)
	e := newBookingTestServer(store, nil)

	rec := doJSON(e, http.MethodGet, "/v1/bookings/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingAbandon(t *testing.T) {
	store := booking.NewStore(time.Minute)
	e := newBookingTestServer(store, nil)
	sid := seedSession(store, 1)

	rec := doJSON(e, http.MethodDelete, "/v1/bookings/"+sid, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/bookings/"+sid, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingConfirmPersistsEverything(t *testing.T) {
	store := booking.NewStore(time.Minute)
	tx := &fakeReservationTx{taken: map[uint64]struct{}{}}
	e := newBookingTestServer(store, fakeConfirmStore{tx: tx})
	sid := seedSession(store, 1)

	doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":1,"seat_id":3}`)
	rec := doJSON(e, http.MethodPost, "/v1/bookings/"+sid+"/confirm", `{"payment_method":"CreditCard"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Contains(t, rec.Body.String(), `"reservation_id":501`)
	assert.Contains(t, rec.Body.String(), `"qr_code":"QR_`)
	assert.Contains(t, rec.Body.String(), `"amount":550`) // 250 x 2 (Business) + 10% tax
	assert.True(t, tx.committed)
	assert.Equal(t,
		[]string{"reservation", "passenger", "passenger_seat", "payment", "flight_payment"},
		tx.writes)

	// The session is discarded after a successful confirm.
	rec = doJSON(e, http.MethodGet, "/v1/bookings/"+sid, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// A seat grabbed by a concurrent booking between session start and commit
// fails the whole reservation: the commit-time re-check answers with 409 and
// the transaction rolls back with nothing written.
func TestBookingConfirmSeatTakenConcurrently(t *testing.T) {
	store := booking.NewStore(time.Minute)
	tx := &fakeReservationTx{taken: map[uint64]struct{}{1: {}}}
	e := newBookingTestServer(store, fakeConfirmStore{tx: tx})
	sid := seedSession(store, 2)

	doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":1,"seat_id":1}`)
	doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":2,"seat_id":2}`)

	rec := doJSON(e, http.MethodPost, "/v1/bookings/"+sid+"/confirm", `{"payment_method":"PayPal"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "seat already reserved")
	assert.Contains(t, rec.Body.String(), `"seat":"A1"`)

	assert.Empty(t, tx.writes)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)

	// The session survives so the passenger can be reseated.
	rec = doJSON(e, http.MethodGet, "/v1/bookings/"+sid, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingConfirmRejectsUnknownPaymentMethod(t *testing.T) {
	store := booking.NewStore(time.Minute)
	e := newBookingTestServer(store, nil)
	sid := seedSession(store, 1)

	doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":1,"seat_id":1}`)
	rec := doJSON(e, http.MethodPost, "/v1/bookings/"+sid+"/confirm", `{"payment_method":"Cash"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingConfirmRequiresFullAssignment(t *testing.T) {
	store := booking.NewStore(time.Minute)
	tx := &fakeReservationTx{taken: map[uint64]struct{}{}}
	e := newBookingTestServer(store, fakeConfirmStore{tx: tx})
	sid := seedSession(store, 2)

	doJSON(e, http.MethodPut, "/v1/bookings/"+sid+"/seats", `{"passenger":1,"seat_id":1}`)
	rec := doJSON(e, http.MethodPost, "/v1/bookings/"+sid+"/confirm", `{"payment_method":"CreditCard"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unassigned":[2]`)
	assert.Empty(t, tx.writes)
}
