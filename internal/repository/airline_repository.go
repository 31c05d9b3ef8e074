package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Airline is a row of the airline table. An airline owns zero or more
// aircraft.
type Airline struct {
	ID   uint64
	Name string
	Code string
}

var ErrAirlineNotFound = errors.New("airline not found")

type AirlineRepo struct {
	db *sql.DB
}

func NewAirlineRepo(db *sql.DB) *AirlineRepo { return &AirlineRepo{db: db} }

func (r *AirlineRepo) Create(ctx context.Context, a *Airline) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO airline (name, code) VALUES (?, ?)`, a.Name, a.Code)
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

func (r *AirlineRepo) GetByID(ctx context.Context, id uint64) (*Airline, error) {
	var a Airline
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, code FROM airline WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAirlineNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AirlineRepo) List(ctx context.Context) ([]Airline, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, code FROM airline ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Airline
	for rows.Next() {
		var a Airline
		if err := rows.Scan(&a.ID, &a.Name, &a.Code); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *AirlineRepo) Update(ctx context.Context, a *Airline) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE airline SET name = ?, code = ? WHERE id = ?`, a.Name, a.Code, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAirlineNotFound
	}
	return nil
}

func (r *AirlineRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM airline WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAirlineNotFound
	}
	return nil
}
