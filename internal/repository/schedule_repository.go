package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Weekday names as stored in weeklySchedule.dayOfWeek.
var weekdayNames = [...]string{
	"SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY",
}

// WeekdayName maps a calendar date to the canonical dayOfWeek string. Going
// through time.Weekday (Sunday=0) keeps the mapping total and unambiguous;
// the historical implementation indexed a Sunday-first table with an ISO
// Monday-first number and shifted every search by one day.
func WeekdayName(t time.Time) string {
	return weekdayNames[int(t.Weekday())]
}

// ValidWeekday reports whether s is a canonical dayOfWeek value.
func ValidWeekday(s string) bool {
	for _, n := range weekdayNames {
		if n == strings.ToUpper(s) {
			return true
		}
	}
	return false
}

// WeeklySchedule is a row of the weeklySchedule table: a (day-of-week,
// departure-time) pair shared by all instances of a flight on that weekday.
type WeeklySchedule struct {
	ID            uint64
	DayOfWeek     string
	DepartureTime string // "15:04" wall clock
}

var ErrScheduleNotFound = errors.New("schedule not found")

type ScheduleRepo struct {
	db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

func (r *ScheduleRepo) Create(ctx context.Context, s *WeeklySchedule) error {
	s.DayOfWeek = strings.ToUpper(s.DayOfWeek)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO weeklySchedule (dayOfWeek, departure_time) VALUES (?, ?)`,
		s.DayOfWeek, s.DepartureTime)
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

func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*WeeklySchedule, error) {
	var s WeeklySchedule
	err := r.db.QueryRowContext(ctx,
		`SELECT id, dayOfWeek, departure_time FROM weeklySchedule WHERE id = ?`, id).
		Scan(&s.ID, &s.DayOfWeek, &s.DepartureTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepo) List(ctx context.Context) ([]WeeklySchedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, dayOfWeek, departure_time FROM weeklySchedule ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WeeklySchedule
	for rows.Next() {
		var s WeeklySchedule
		if err := rows.Scan(&s.ID, &s.DayOfWeek, &s.DepartureTime); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *ScheduleRepo) Update(ctx context.Context, s *WeeklySchedule) error {
	s.DayOfWeek = strings.ToUpper(s.DayOfWeek)
	res, err := r.db.ExecContext(ctx,
		`UPDATE weeklySchedule SET dayOfWeek = ?, departure_time = ? WHERE id = ?`,
		s.DayOfWeek, s.DepartureTime, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *ScheduleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weeklySchedule WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
