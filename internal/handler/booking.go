package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-reservation-api/internal/booking"
	"github.com/skybook/flight-reservation-api/internal/queue"
	"github.com/skybook/flight-reservation-api/internal/repository"
	"github.com/skybook/flight-reservation-api/internal/service"
	"github.com/skybook/flight-reservation-api/internal/utils"
)

// ReservationTx is one confirmation transaction: the taken-seat re-check
// plus every insert the booking produces, committed or rolled back as a
// unit.
type ReservationTx interface {
	TakenSeatIDs(ctx context.Context, flightID uint64) (map[uint64]struct{}, error)
	CreateReservation(ctx context.Context, rec *repository.ReservationRecord) error
	CreatePassenger(ctx context.Context, p *repository.PassengerRecord) error
	CreatePassengerSeats(ctx context.Context, links []repository.PassengerSeatRecord) error
	CreatePayment(ctx context.Context, pay *repository.Payment) error
	LinkFlightPayment(ctx context.Context, paymentID, flightID uint64) error
	Commit() error
	Rollback() error
}

// ConfirmStore opens confirmation transactions.
type ConfirmStore interface {
	Begin(ctx context.Context) (ReservationTx, error)
}

// BookingHandler drives the interactive booking flow: open a session, pick
// seats per passenger, quote the fare and confirm. Session state lives in
// memory; the database is only touched when the booking is confirmed.
// Publish runs after a successful confirm and is skipped when nil.
type BookingHandler struct {
	Sessions *booking.Store
	Flights  *repository.FlightRepo
	Seats    *repository.SeatRepo
	Tx       ConfirmStore
	Publish  func(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

func NewBookingHandler(st *booking.Store, f *repository.FlightRepo, s *repository.SeatRepo, r *repository.ReservationRepo, p *repository.PaymentRepo) *BookingHandler {
	return &BookingHandler{
		Sessions: st,
		Flights:  f,
		Seats:    s,
		Tx:       sqlConfirmStore{seats: s, reservations: r, payments: p},
		Publish:  service.PublishReservationConfirmed,
	}
}

// sqlConfirmStore is the production ConfirmStore: one *sql.Tx shared by the
// seat, reservation and payment repositories.
type sqlConfirmStore struct {
	seats        *repository.SeatRepo
	reservations *repository.ReservationRepo
	payments     *repository.PaymentRepo
}

func (s sqlConfirmStore) Begin(ctx context.Context) (ReservationTx, error) {
	tx, err := s.reservations.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlReservationTx{tx: tx, store: s}, nil
}

type sqlReservationTx struct {
	tx    *sql.Tx
	store sqlConfirmStore
}

func (t *sqlReservationTx) TakenSeatIDs(ctx context.Context, flightID uint64) (map[uint64]struct{}, error) {
	return t.store.seats.TakenSeatIDsTx(ctx, t.tx, flightID)
}

func (t *sqlReservationTx) CreateReservation(ctx context.Context, rec *repository.ReservationRecord) error {
	return t.store.reservations.CreateTx(ctx, t.tx, rec)
}

func (t *sqlReservationTx) CreatePassenger(ctx context.Context, p *repository.PassengerRecord) error {
	return t.store.reservations.CreatePassengerTx(ctx, t.tx, p)
}

func (t *sqlReservationTx) CreatePassengerSeats(ctx context.Context, links []repository.PassengerSeatRecord) error {
	return t.store.reservations.CreatePassengerSeatsTx(ctx, t.tx, links)
}

func (t *sqlReservationTx) CreatePayment(ctx context.Context, pay *repository.Payment) error {
	return t.store.payments.CreateTx(ctx, t.tx, pay)
}

func (t *sqlReservationTx) LinkFlightPayment(ctx context.Context, paymentID, flightID uint64) error {
	return t.store.payments.LinkFlightTx(ctx, t.tx, paymentID, flightID)
}

func (t *sqlReservationTx) Commit() error   { return t.tx.Commit() }
func (t *sqlReservationTx) Rollback() error { return t.tx.Rollback() }

// ----- DTOs -----

type passengerReq struct {
	Name     string `json:"name" validate:"required,min=1,max=128"`
	Passport string `json:"passport" validate:"required,min=3,max=32"`
}

type startBookingReq struct {
	FlightID   uint64         `json:"flight_id" validate:"required"`
	Passengers []passengerReq `json:"passengers" validate:"required,min=1,max=9,dive"`
}

type selectSeatReq struct {
	Passenger int    `json:"passenger" validate:"required,min=1"`
	SeatID    uint64 `json:"seat_id" validate:"required"`
}

type confirmReq struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type sessionSeat struct {
	ID         uint64 `json:"id"`
	SeatNumber string `json:"seat_number"`
	SeatClass  string `json:"seat_class"`
}

type sessionAssignment struct {
	Passenger int          `json:"passenger"`
	Name      string       `json:"name"`
	Seat      *sessionSeat `json:"seat"`
}

// Start opens a booking session for a flight. The selectable seat set is
// snapshotted here: the aircraft's seats minus those already reserved.
func (h *BookingHandler) Start(c echo.Context) error {
	var req startBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	flight, err := h.Flights.GetByID(ctx, req.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flight failed"})
	}

	seats, err := h.Seats.ListByAircraft(ctx, flight.AircraftID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	taken, err := h.Seats.TakenSeatIDs(ctx, flight.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	available := seats[:0:0]
	for _, s := range seats {
		if _, held := taken[s.ID]; !held {
			available = append(available, s)
		}
	}
	if len(available) < len(req.Passengers) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough seats left on this flight"})
	}

	passengers := make([]booking.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		passengers[i] = booking.Passenger{Name: p.Name, Passport: p.Passport}
	}
	sess := booking.NewSession("", currentUserID(c), flight.ID, flight.AircraftID, passengers, available)
	id := h.Sessions.Put(sess)

	return c.JSON(http.StatusCreated, echo.Map{
		"session_id":      id,
		"flight_id":       flight.ID,
		"passengers":      len(passengers),
		"available_seats": toSessionSeats(available),
	})
}

// State reports the session: who has which seat, what is still free and who
// remains unseated. The quote appears once everyone is seated.
func (h *BookingHandler) State(c echo.Context) error {
	sess, err := h.Sessions.Get(c.Param("sid"), currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking session not found"})
	}

	resp := echo.Map{
		"session_id":      sess.ID,
		"flight_id":       sess.FlightID,
		"assignments":     sessionAssignments(sess),
		"available_seats": toSessionSeats(sess.AvailableSeats()),
		"unassigned":      sess.Unassigned(),
	}
	if quote, err := sess.Quote(); err == nil {
		resp["quote"] = quote
	}
	return c.JSON(http.StatusOK, resp)
}

// SelectSeat assigns a seat to one passenger of the session.
func (h *BookingHandler) SelectSeat(c echo.Context) error {
	var req selectSeatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sess, err := h.Sessions.Get(c.Param("sid"), currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking session not found"})
	}

	switch err := sess.SelectSeat(req.Passenger, req.SeatID); {
	case errors.Is(err, booking.ErrPassengerIndex):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger index out of range"})
	case errors.Is(err, booking.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat not available"})
	case errors.Is(err, booking.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already assigned to another passenger"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "select seat failed"})
	}
	return h.State(c)
}

// DeselectSeat releases the seat held by one passenger.
func (h *BookingHandler) DeselectSeat(c echo.Context) error {
	idx, err := pathID(c, "passenger")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid passenger index"})
	}
	sess, err := h.Sessions.Get(c.Param("sid"), currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking session not found"})
	}

	switch err := sess.DeselectSeat(int(idx)); {
	case errors.Is(err, booking.ErrPassengerIndex):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger index out of range"})
	case errors.Is(err, booking.ErrNothingAssigned):
		return c.JSON(http.StatusConflict, echo.Map{"error": "passenger has no seat assigned"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deselect seat failed"})
	}
	return h.State(c)
}

// Quote returns the fare breakdown. Only available once every passenger has
// a seat.
func (h *BookingHandler) Quote(c echo.Context) error {
	sess, err := h.Sessions.Get(c.Param("sid"), currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking session not found"})
	}
	quote, err := sess.Quote()
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not all passengers have seats", "unassigned": sess.Unassigned()})
	}
	return c.JSON(http.StatusOK, quote)
}

// Abandon drops the session without booking anything.
func (h *BookingHandler) Abandon(c echo.Context) error {
	sess, err := h.Sessions.Get(c.Param("sid"), currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking session not found"})
	}
	h.Sessions.Delete(sess.ID)
	return c.NoContent(http.StatusNoContent)
}

// Confirm turns the session into durable rows: reservation, passengers,
// seat links, payment and its flight link, all in one transaction. The
// taken-seat set is re-read under FOR UPDATE inside the transaction, so a
// seat grabbed by a concurrent booking since the session opened surfaces as
// a 409 here instead of a double booking.
func (h *BookingHandler) Confirm(c echo.Context) error {
	var req confirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !repository.ValidPaymentMethod(req.PaymentMethod) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown payment method"})
	}

	userID := currentUserID(c)
	sess, err := h.Sessions.Get(c.Param("sid"), userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking session not found"})
	}
	assignments, err := sess.Assignments()
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not all passengers have seats", "unassigned": sess.Unassigned()})
	}
	quote, err := sess.Quote()
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not all passengers have seats"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tx, err := h.Tx.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	taken, err := tx.TakenSeatIDs(ctx, sess.FlightID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat check failed"})
	}
	for _, a := range assignments {
		if _, held := taken[a.Seat.ID]; held {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": repository.ErrSeatConflict.Error(),
				"seat":  a.Seat.SeatNumber,
			})
		}
	}

	rec := &repository.ReservationRecord{
		FlightID:    sess.FlightID,
		UserID:      userID,
		BookingDate: time.Now().UTC(),
		QRCode:      utils.NewQRToken(userID),
		Status:      repository.ReservationConfirmed,
	}
	if err := tx.CreateReservation(ctx, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	links := make([]repository.PassengerSeatRecord, 0, len(assignments))
	seatNumbers := make([]string, 0, len(assignments))
	for _, a := range assignments {
		p := &repository.PassengerRecord{Name: a.Passenger.Name, Passport: a.Passenger.Passport, ReservationID: rec.ID}
		if err := tx.CreatePassenger(ctx, p); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create passenger failed"})
		}
		links = append(links, repository.PassengerSeatRecord{ReservationID: rec.ID, PassengerID: p.ID, SeatID: a.Seat.ID})
		seatNumbers = append(seatNumbers, a.Seat.SeatNumber)
	}
	if err := tx.CreatePassengerSeats(ctx, links); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign seats failed"})
	}

	payment := &repository.Payment{
		Amount: quote.Total,
		Method: req.PaymentMethod,
		Date:   time.Now().UTC(),
		UserID: userID,
		Status: repository.PaymentCompleted,
	}
	if err := tx.CreatePayment(ctx, payment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record payment failed"})
	}
	if err := tx.LinkFlightPayment(ctx, payment.ID, sess.FlightID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record payment failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	h.Sessions.Delete(sess.ID)

	h.publishConfirmed(rec, userID, sess.FlightID, seatNumbers, quote.Total)

	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id": rec.ID,
		"status":         rec.Status,
		"qr_code":        rec.QRCode,
		"amount":         payment.Amount,
		"payment_status": payment.Status,
	})
}

// publishConfirmed emits the reservation.confirmed event on a best-effort
// basis; a broker outage never fails the booking.
func (h *BookingHandler) publishConfirmed(rec *repository.ReservationRecord, userID, flightID uint64, seatNumbers []string, total float64) {
	if h.Publish == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	ev := queue.ReservationConfirmedEvent{
		ReservationID: rec.ID,
		UserID:        userID,
		FlightID:      flightID,
		SeatNumbers:   seatNumbers,
		TotalAmount:   total,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if detail, err := h.Flights.Detail(ctx, flightID); err == nil {
		ev.FromCode = detail.FromCode
		ev.ToCode = detail.ToCode
		ev.DepartureTime = detail.DepartureTime
		ev.DayOfWeek = detail.DayOfWeek
	}
	_ = h.Publish(ctx, ev)
}

func toSessionSeats(seats []repository.Seat) []sessionSeat {
	out := make([]sessionSeat, 0, len(seats))
	for _, s := range seats {
		out = append(out, sessionSeat{ID: s.ID, SeatNumber: s.SeatNumber, SeatClass: s.SeatClass})
	}
	return out
}

func sessionAssignments(sess *booking.Session) []sessionAssignment {
	passengers := sess.Passengers()
	out := make([]sessionAssignment, 0, len(passengers))
	for i, p := range passengers {
		idx := i + 1
		a := sessionAssignment{Passenger: idx, Name: p.Name}
		if seat, ok := sess.AssignedSeat(idx); ok {
			a.Seat = &sessionSeat{ID: seat.ID, SeatNumber: seat.SeatNumber, SeatClass: seat.SeatClass}
		}
		out = append(out, a)
	}
	return out
}
