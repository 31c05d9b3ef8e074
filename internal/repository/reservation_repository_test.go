package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationRepo(db), mock
}

// The status guard belongs to the UPDATE itself: of two concurrent cancels
// only one statement matches a CONFIRMED row, so the check cannot race.
func TestCancelAtomicStatusGuard(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE flightReservation SET status").
		WithArgs(ReservationCanceled, uint64(9), uint64(7), ReservationConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), 9, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelAlreadyCanceled(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE flightReservation SET status").
		WithArgs(ReservationCanceled, uint64(9), uint64(7), ReservationConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM flightReservation").
		WithArgs(uint64(9), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(ReservationCanceled))

	err := repo.Cancel(context.Background(), 9, 7)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelUnknownReservation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE flightReservation SET status").
		WithArgs(ReservationCanceled, uint64(404), uint64(7), ReservationConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM flightReservation").
		WithArgs(uint64(404), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	err := repo.Cancel(context.Background(), 404, 7)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
