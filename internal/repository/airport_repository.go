package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Airport statuses as stored in airport.status.
const (
	AirportActive           = "Active"
	AirportInactive         = "Inactive"
	AirportUnderMaintenance = "UnderMaintenance"
)

// Airport is a row of the airport table. Code is the three-letter external
// search key and is unique.
type Airport struct {
	ID        uint64
	CountryID uint64
	Code      string
	Name      string
	Address   string
	Status    string
}

// ErrAirportNotFound is returned when an airport lookup yields no rows.
// There is deliberately no placeholder fallback for code lookups: every
// loader in this package fails fast on a miss and the caller decides what
// to do about it.
var ErrAirportNotFound = errors.New("airport not found")

// AirportRepo provides access to airports.
type AirportRepo struct {
	db *sql.DB
}

func NewAirportRepo(db *sql.DB) *AirportRepo { return &AirportRepo{db: db} }

// ValidAirportStatus reports whether s is one of the allowed status values.
func ValidAirportStatus(s string) bool {
	switch s {
	case AirportActive, AirportInactive, AirportUnderMaintenance:
		return true
	}
	return false
}

// Create inserts an airport. The generated id is populated on a.
func (r *AirportRepo) Create(ctx context.Context, a *Airport) error {
	const q = `INSERT INTO airport (country_id, code, name, address, status) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.CountryID, a.Code, a.Name, a.Address, a.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID loads one airport.
func (r *AirportRepo) GetByID(ctx context.Context, id uint64) (*Airport, error) {
	const q = `SELECT id, country_id, code, name, address, status FROM airport WHERE id = ?`
	var a Airport
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&a.ID, &a.CountryID, &a.Code, &a.Name, &a.Address, &a.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAirportNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByCode loads an airport by its code. Codes are stored upper-case; the
// input is normalized the same way before matching.
func (r *AirportRepo) GetByCode(ctx context.Context, code string) (*Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	const q = `SELECT id, country_id, code, name, address, status FROM airport WHERE code = ?`
	var a Airport
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&a.ID, &a.CountryID, &a.Code, &a.Name, &a.Address, &a.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAirportNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns all airports ordered by name.
func (r *AirportRepo) List(ctx context.Context) ([]Airport, error) {
	const q = `SELECT id, country_id, code, name, address, status FROM airport ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Airport
	for rows.Next() {
		var a Airport
		if err := rows.Scan(&a.ID, &a.CountryID, &a.Code, &a.Name, &a.Address, &a.Status); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites all mutable columns of an airport. Returns
// ErrAirportNotFound when the row does not exist.
func (r *AirportRepo) Update(ctx context.Context, a *Airport) error {
	const q = `UPDATE airport SET country_id = ?, code = ?, name = ?, address = ?, status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.CountryID, a.Code, a.Name, a.Address, a.Status, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAirportNotFound
	}
	return nil
}

// Delete removes an airport. Flights referencing it keep their foreign key
// and block the delete at the database level; that surfaces as a plain
// persistence error for the admin caller.
func (r *AirportRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM airport WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAirportNotFound
	}
	return nil
}

// DepartureFlightIDs returns ids of flights departing from the airport.
// Always queried fresh; nothing is cached on the entity.
func (r *AirportRepo) DepartureFlightIDs(ctx context.Context, airportID uint64) ([]uint64, error) {
	return r.flightIDs(ctx, `SELECT id FROM flight WHERE departure_airport_id = ?`, airportID)
}

// ArrivalFlightIDs returns ids of flights arriving at the airport.
func (r *AirportRepo) ArrivalFlightIDs(ctx context.Context, airportID uint64) ([]uint64, error) {
	return r.flightIDs(ctx, `SELECT id FROM flight WHERE arrival_airport_id = ?`, airportID)
}

func (r *AirportRepo) flightIDs(ctx context.Context, q string, airportID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, q, airportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
