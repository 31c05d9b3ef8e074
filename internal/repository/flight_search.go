package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// FlightSearchQuery carries the public search parameters: departure and
// arrival airport codes plus the calendar date to fly on. The date is
// reduced to a weekday, because flights run on weekly schedules rather
// than individual dates.
type FlightSearchQuery struct {
	From string
	To   string
	Date time.Time
}

// FlightSearchRow is one result of a flight search, denormalized for the
// public listing.
type FlightSearchRow struct {
	FlightID      uint64
	FromCode      string
	FromName      string
	ToCode        string
	ToName        string
	Gate          string
	Duration      *uint32
	DayOfWeek     string
	DepartureTime string
	AircraftID    uint64
	AircraftModel string
}

// Search returns the flights departing From and arriving To whose weekly
// schedule falls on the weekday of Date. Codes are matched exactly as
// stored; unknown or blank codes simply produce an empty result.
func (r *FlightRepo) Search(ctx context.Context, q FlightSearchQuery) ([]FlightSearchRow, error) {
	if q.From == "" || q.To == "" {
		return nil, nil
	}
	const query = `SELECT f.id, dep.code, dep.name, arr.code, arr.name,
	                      f.gate, f.duration, ws.dayOfWeek, ws.departure_time,
	                      ac.id, ac.model
	               FROM flight f
	               JOIN airport dep ON dep.id = f.departure_airport_id
	               JOIN airport arr ON arr.id = f.arrival_airport_id
	               JOIN weeklySchedule ws ON ws.id = f.flight_schedule_id
	               JOIN aircraft ac ON ac.id = f.aircraft_id
	               WHERE dep.code = ? AND arr.code = ? AND ws.dayOfWeek = ?
	               ORDER BY ws.departure_time`
	rows, err := r.db.QueryContext(ctx, query, q.From, q.To, WeekdayName(q.Date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSearchRows(rows)
}

// Detail loads the search-row projection for one flight, used by the public
// flight detail endpoint and when opening a booking session.
func (r *FlightRepo) Detail(ctx context.Context, flightID uint64) (*FlightSearchRow, error) {
	const query = `SELECT f.id, dep.code, dep.name, arr.code, arr.name,
	                      f.gate, f.duration, ws.dayOfWeek, ws.departure_time,
	                      ac.id, ac.model
	               FROM flight f
	               JOIN airport dep ON dep.id = f.departure_airport_id
	               JOIN airport arr ON arr.id = f.arrival_airport_id
	               JOIN weeklySchedule ws ON ws.id = f.flight_schedule_id
	               JOIN aircraft ac ON ac.id = f.aircraft_id
	               WHERE f.id = ?`
	var row FlightSearchRow
	err := r.db.QueryRowContext(ctx, query, flightID).Scan(
		&row.FlightID, &row.FromCode, &row.FromName, &row.ToCode, &row.ToName,
		&row.Gate, &row.Duration, &row.DayOfWeek, &row.DepartureTime,
		&row.AircraftID, &row.AircraftModel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &row, nil
}

func scanSearchRows(rows *sql.Rows) ([]FlightSearchRow, error) {
	var result []FlightSearchRow
	for rows.Next() {
		var row FlightSearchRow
		if err := rows.Scan(
			&row.FlightID, &row.FromCode, &row.FromName, &row.ToCode, &row.ToName,
			&row.Gate, &row.Duration, &row.DayOfWeek, &row.DepartureTime,
			&row.AircraftID, &row.AircraftModel); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
