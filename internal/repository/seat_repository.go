package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Seat classes as stored in seat.seat_class. The class drives the fare
// multiplier at booking time.
const (
	SeatClassEconomy    = "Economy"
	SeatClassBusiness   = "Business"
	SeatClassFirstClass = "FirstClass"
)

// Seat is a row of the seat table. A seat belongs to exactly one aircraft
// and its number (e.g. "A1") is unique within that aircraft.
type Seat struct {
	ID         uint64
	AircraftID uint64
	SeatNumber string
	SeatClass  string
}

var ErrSeatNotFound = errors.New("seat not found")

// ValidSeatClass reports whether s is one of the allowed class values.
func ValidSeatClass(s string) bool {
	switch s {
	case SeatClassEconomy, SeatClassBusiness, SeatClassFirstClass:
		return true
	}
	return false
}

type SeatRepo struct {
	db *sql.DB
}

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// Create inserts a single seat. On success the seat's ID is populated.
func (r *SeatRepo) Create(ctx context.Context, s *Seat) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO seat (aircraft_id, seat_number, seat_class) VALUES (?, ?, ?)`,
		s.AircraftID, s.SeatNumber, s.SeatClass)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// CreateBulk inserts multiple seats in one statement. Used by the admin
// seat-generation endpoint when laying out a new aircraft.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seat (aircraft_id, seat_number, seat_class) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.AircraftID, s.SeatNumber, s.SeatClass)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*Seat, error) {
	var s Seat
	err := r.db.QueryRowContext(ctx,
		`SELECT id, aircraft_id, seat_number, seat_class FROM seat WHERE id = ?`, id).
		Scan(&s.ID, &s.AircraftID, &s.SeatNumber, &s.SeatClass)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByAircraft returns every seat of an aircraft ordered by seat number.
func (r *SeatRepo) ListByAircraft(ctx context.Context, aircraftID uint64) ([]Seat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, aircraft_id, seat_number, seat_class FROM seat WHERE aircraft_id = ? ORDER BY seat_number`,
		aircraftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Seat
	for rows.Next() {
		var s Seat
		if err := rows.Scan(&s.ID, &s.AircraftID, &s.SeatNumber, &s.SeatClass); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// TakenSeatIDs returns the ids of seats already held by a confirmed
// reservation on the given flight, via the passenger_seat -> reservation
// join. Cancelled reservations release their seats by dropping out of this
// result.
func (r *SeatRepo) TakenSeatIDs(ctx context.Context, flightID uint64) (map[uint64]struct{}, error) {
	const q = `SELECT ps.seat_id
	           FROM passenger_seat ps
	           JOIN flightReservation fr ON fr.id = ps.flightReservation_id
	           WHERE fr.flight_id = ? AND fr.status = ?`
	rows, err := r.db.QueryContext(ctx, q, flightID, ReservationConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeatIDSet(rows)
}

// TakenSeatIDsTx is the transactional variant used at reservation commit.
// FOR UPDATE locks the matching association rows so two confirms for the
// same flight serialize, which is what makes the commit-time conflict check
// sound.
func (r *SeatRepo) TakenSeatIDsTx(ctx context.Context, tx *sql.Tx, flightID uint64) (map[uint64]struct{}, error) {
	const q = `SELECT ps.seat_id
	           FROM passenger_seat ps
	           JOIN flightReservation fr ON fr.id = ps.flightReservation_id
	           WHERE fr.flight_id = ? AND fr.status = ?
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, flightID, ReservationConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeatIDSet(rows)
}

func scanSeatIDSet(rows *sql.Rows) (map[uint64]struct{}, error) {
	taken := make(map[uint64]struct{})
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		taken[id] = struct{}{}
	}
	return taken, rows.Err()
}

func (r *SeatRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seat WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}

// DeleteByAircraft removes all seats of an aircraft. Used when the layout
// is regenerated; callers must ensure no reservations reference the seats.
func (r *SeatRepo) DeleteByAircraft(ctx context.Context, aircraftID uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM seat WHERE aircraft_id = ?`, aircraftID)
	return err
}
