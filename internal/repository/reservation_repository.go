package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Reservation statuses as stored in flightReservation.status. A canceled
// reservation keeps its passenger and seat rows for history but no longer
// blocks those seats.
const (
	ReservationConfirmed = "CONFIRMED"
	ReservationCanceled  = "CANCELED"
)

// ReservationRecord is a row of the flightReservation table.
type ReservationRecord struct {
	ID          uint64
	FlightID    uint64
	UserID      uint64
	BookingDate time.Time
	QRCode      string
	Status      string
}

// PassengerRecord is a row of the passenger table. Passengers are owned by
// a reservation; they are not user accounts.
type PassengerRecord struct {
	ID            uint64
	Name          string
	Passport      string
	ReservationID uint64
}

// PassengerSeatRecord links one passenger of a reservation to one seat.
type PassengerSeatRecord struct {
	ReservationID uint64
	PassengerID   uint64
	SeatID        uint64
}

// ReservationDetail is the denormalized projection returned to users:
// the reservation plus its flight route and per-passenger seats.
type ReservationDetail struct {
	ReservationRecord
	FromCode      string
	ToCode        string
	Gate          string
	DepartureTime string
	DayOfWeek     string
	Passengers    []ReservationPassenger
}

// ReservationPassenger is one passenger of a reservation with the seat
// they hold.
type ReservationPassenger struct {
	Name       string
	Passport   string
	SeatNumber string
	SeatClass  string
}

var ErrReservationNotFound = errors.New("reservation not found")

type ReservationRepo struct {
	db *sql.DB
}

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// BeginTx opens the transaction that a booking confirmation runs in.
func (r *ReservationRepo) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// CreateTx inserts the reservation row inside the confirmation transaction.
// On success the record's ID is populated.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *ReservationRecord) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO flightReservation (flight_id, user_id, booking_date, qr_code, status)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.FlightID, rec.UserID, rec.BookingDate, rec.QRCode, rec.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// CreatePassengerTx inserts one passenger row. Rows go in one at a time
// because each passenger's generated id is needed for its seat link.
func (r *ReservationRepo) CreatePassengerTx(ctx context.Context, tx *sql.Tx, p *PassengerRecord) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO passenger (name, passport, flightReservation_id) VALUES (?, ?, ?)`,
		p.Name, p.Passport, p.ReservationID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// CreatePassengerSeatsTx bulk-inserts the passenger/seat links of a
// reservation in one statement.
func (r *ReservationRepo) CreatePassengerSeatsTx(ctx context.Context, tx *sql.Tx, links []PassengerSeatRecord) error {
	if len(links) == 0 {
		return nil
	}
	query := `INSERT INTO passenger_seat (flightReservation_id, passenger_id, seat_id) VALUES `
	args := make([]interface{}, 0, len(links)*3)
	for i, l := range links {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, l.ReservationID, l.PassengerID, l.SeatID)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByIDForUser loads one reservation with its route and passengers,
// enforcing ownership. A reservation belonging to someone else reads the
// same as one that does not exist.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*ReservationDetail, error) {
	const q = `SELECT fr.id, fr.flight_id, fr.user_id, fr.booking_date, fr.qr_code, fr.status,
	                  dep.code, arr.code, f.gate, ws.departure_time, ws.dayOfWeek
	           FROM flightReservation fr
	           JOIN flight f ON f.id = fr.flight_id
	           JOIN airport dep ON dep.id = f.departure_airport_id
	           JOIN airport arr ON arr.id = f.arrival_airport_id
	           JOIN weeklySchedule ws ON ws.id = f.flight_schedule_id
	           WHERE fr.id = ? AND fr.user_id = ?`
	var d ReservationDetail
	err := r.db.QueryRowContext(ctx, q, id, userID).Scan(
		&d.ID, &d.FlightID, &d.UserID, &d.BookingDate, &d.QRCode, &d.Status,
		&d.FromCode, &d.ToCode, &d.Gate, &d.DepartureTime, &d.DayOfWeek)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if err := r.loadPassengers(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser returns all of a user's reservations, newest first, each with
// its passengers loaded.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT fr.id, fr.flight_id, fr.user_id, fr.booking_date, fr.qr_code, fr.status,
	                  dep.code, arr.code, f.gate, ws.departure_time, ws.dayOfWeek
	           FROM flightReservation fr
	           JOIN flight f ON f.id = fr.flight_id
	           JOIN airport dep ON dep.id = f.departure_airport_id
	           JOIN airport arr ON arr.id = f.arrival_airport_id
	           JOIN weeklySchedule ws ON ws.id = f.flight_schedule_id
	           WHERE fr.user_id = ?
	           ORDER BY fr.booking_date DESC, fr.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ReservationDetail
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(
			&d.ID, &d.FlightID, &d.UserID, &d.BookingDate, &d.QRCode, &d.Status,
			&d.FromCode, &d.ToCode, &d.Gate, &d.DepartureTime, &d.DayOfWeek); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.loadPassengers(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *ReservationRepo) loadPassengers(ctx context.Context, d *ReservationDetail) error {
	const q = `SELECT p.name, p.passport, s.seat_number, s.seat_class
	           FROM passenger p
	           JOIN passenger_seat ps ON ps.passenger_id = p.id
	           JOIN seat s ON s.id = ps.seat_id
	           WHERE p.flightReservation_id = ?
	           ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, q, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ReservationPassenger
		if err := rows.Scan(&p.Name, &p.Passport, &p.SeatNumber, &p.SeatClass); err != nil {
			return err
		}
		d.Passengers = append(d.Passengers, p)
	}
	return rows.Err()
}

// Cancel flips a confirmed reservation of the given user to CANCELED,
// releasing its seats. The status guard lives in the UPDATE itself, so two
// concurrent cancels cannot both pass: exactly one matches, the other falls
// through to the status probe and reports the conflict.
func (r *ReservationRepo) Cancel(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE flightReservation SET status = ? WHERE id = ? AND user_id = ? AND status = ?`,
		ReservationCanceled, id, userID, ReservationConfirmed)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var status string
	err = r.db.QueryRowContext(ctx,
		`SELECT status FROM flightReservation WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	return ErrConflict
}

// GetQRCode returns the boarding token of a user's reservation.
func (r *ReservationRepo) GetQRCode(ctx context.Context, id, userID uint64) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx,
		`SELECT qr_code FROM flightReservation WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrReservationNotFound
		}
		return "", err
	}
	return token, nil
}
