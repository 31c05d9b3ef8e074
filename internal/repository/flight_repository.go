package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Flight is a row of the flight table. Departure and arrival airports are
// held as foreign keys; callers are responsible for not creating a flight
// whose departure equals its arrival (the admin handler validates this, the
// entity does not).
type Flight struct {
	ID                 uint64
	DepartureAirportID uint64
	ArrivalAirportID   uint64
	Gate               string
	Duration           *uint32 // minutes
	ScheduleID         uint64
	AircraftID         uint64
}

var ErrFlightNotFound = errors.New("flight not found")

type FlightRepo struct {
	db *sql.DB
}

func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

func (r *FlightRepo) Create(ctx context.Context, f *Flight) error {
	const q = `INSERT INTO flight (departure_airport_id, arrival_airport_id, gate, duration, flight_schedule_id, aircraft_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		f.DepartureAirportID, f.ArrivalAirportID, f.Gate, f.Duration, f.ScheduleID, f.AircraftID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*Flight, error) {
	const q = `SELECT id, departure_airport_id, arrival_airport_id, gate, duration, flight_schedule_id, aircraft_id
	           FROM flight WHERE id = ?`
	var f Flight
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&f.ID, &f.DepartureAirportID, &f.ArrivalAirportID, &f.Gate, &f.Duration, &f.ScheduleID, &f.AircraftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FlightRepo) List(ctx context.Context) ([]Flight, error) {
	const q = `SELECT id, departure_airport_id, arrival_airport_id, gate, duration, flight_schedule_id, aircraft_id
	           FROM flight ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Flight
	for rows.Next() {
		var f Flight
		if err := rows.Scan(&f.ID, &f.DepartureAirportID, &f.ArrivalAirportID, &f.Gate, &f.Duration, &f.ScheduleID, &f.AircraftID); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *FlightRepo) Update(ctx context.Context, f *Flight) error {
	const q = `UPDATE flight SET departure_airport_id = ?, arrival_airport_id = ?, gate = ?, duration = ?, flight_schedule_id = ?, aircraft_id = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		f.DepartureAirportID, f.ArrivalAirportID, f.Gate, f.Duration, f.ScheduleID, f.AircraftID, f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFlightNotFound
	}
	return nil
}

func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flight WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFlightNotFound
	}
	return nil
}
