package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Aircraft is a row of the aircraft table. Its seats live in the seat table
// and are fetched through SeatRepo; the struct carries no seat list so
// nothing can go stale.
type Aircraft struct {
	ID                uint64
	AirlineID         uint64
	Model             string
	ManufacturingYear *uint16
}

var ErrAircraftNotFound = errors.New("aircraft not found")

type AircraftRepo struct {
	db *sql.DB
}

func NewAircraftRepo(db *sql.DB) *AircraftRepo { return &AircraftRepo{db: db} }

func (r *AircraftRepo) Create(ctx context.Context, a *Aircraft) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO aircraft (airline_id, model, manufacturing_year) VALUES (?, ?, ?)`,
		a.AirlineID, a.Model, a.ManufacturingYear)
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

func (r *AircraftRepo) GetByID(ctx context.Context, id uint64) (*Aircraft, error) {
	var a Aircraft
	err := r.db.QueryRowContext(ctx,
		`SELECT id, airline_id, model, manufacturing_year FROM aircraft WHERE id = ?`, id).
		Scan(&a.ID, &a.AirlineID, &a.Model, &a.ManufacturingYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAircraftNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByAirline returns all aircraft owned by one airline.
func (r *AircraftRepo) ListByAirline(ctx context.Context, airlineID uint64) ([]Aircraft, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, airline_id, model, manufacturing_year FROM aircraft WHERE airline_id = ? ORDER BY model`,
		airlineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Aircraft
	for rows.Next() {
		var a Aircraft
		if err := rows.Scan(&a.ID, &a.AirlineID, &a.Model, &a.ManufacturingYear); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *AircraftRepo) List(ctx context.Context) ([]Aircraft, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, airline_id, model, manufacturing_year FROM aircraft ORDER BY model`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Aircraft
	for rows.Next() {
		var a Aircraft
		if err := rows.Scan(&a.ID, &a.AirlineID, &a.Model, &a.ManufacturingYear); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *AircraftRepo) Update(ctx context.Context, a *Aircraft) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE aircraft SET airline_id = ?, model = ?, manufacturing_year = ? WHERE id = ?`,
		a.AirlineID, a.Model, a.ManufacturingYear, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAircraftNotFound
	}
	return nil
}

func (r *AircraftRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM aircraft WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAircraftNotFound
	}
	return nil
}
