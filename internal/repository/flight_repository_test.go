package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightCreateThenGetRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewFlightRepo(db)

	dur := uint32(95)
	f := &Flight{DepartureAirportID: 1, ArrivalAirportID: 2, Gate: "B12", Duration: &dur, ScheduleID: 3, AircraftID: 4}

	mock.ExpectExec("INSERT INTO flight").
		WithArgs(f.DepartureAirportID, f.ArrivalAirportID, f.Gate, f.Duration, f.ScheduleID, f.AircraftID).
		WillReturnResult(sqlmock.NewResult(42, 1))
	require.NoError(t, repo.Create(context.Background(), f))
	assert.Equal(t, uint64(42), f.ID)

	mock.ExpectQuery("SELECT id, departure_airport_id").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "departure_airport_id", "arrival_airport_id", "gate", "duration", "flight_schedule_id", "aircraft_id"}).
			AddRow(42, 1, 2, "B12", 95, 3, 4))

	got, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, *f, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewFlightRepo(db)

	mock.ExpectQuery("SELECT id, departure_airport_id").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrFlightNotFound)
}

// With clientFoundRows in the DSN, zero affected rows on UPDATE means the
// row does not exist, never that the update changed nothing.
func TestFlightUpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewFlightRepo(db)

	f := &Flight{ID: 99, DepartureAirportID: 1, ArrivalAirportID: 2, Gate: "C1", ScheduleID: 3, AircraftID: 4}
	mock.ExpectExec("UPDATE flight SET").
		WithArgs(f.DepartureAirportID, f.ArrivalAirportID, f.Gate, f.Duration, f.ScheduleID, f.AircraftID, f.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), f)
	assert.ErrorIs(t, err, ErrFlightNotFound)
}
