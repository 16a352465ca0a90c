package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUnitRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *UnitRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewUnitRepo(db)
}

func TestUnitGetByID_FiltersDeleted(t *testing.T) {
	db, mock, repo := setupUnitRepo(t)
	defer db.Close()

	// A soft-deleted unit yields no rows because of the is_deleted guard.
	mock.ExpectQuery(`FROM units WHERE id = \? AND is_deleted = 0`).
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 7)

	assert.ErrorIs(t, err, ErrUnitNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitSoftDelete(t *testing.T) {
	db, mock, repo := setupUnitRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT availability_status FROM units`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"availability_status"}).AddRow(UnitAvailable))
	mock.ExpectExec(`UPDATE units SET is_deleted = 1`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitSoftDelete_OccupiedRejected(t *testing.T) {
	db, mock, repo := setupUnitRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT availability_status FROM units`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"availability_status"}).AddRow(UnitOccupied))

	err := repo.SoftDelete(context.Background(), 7)

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitSoftDelete_AlreadyDeleted(t *testing.T) {
	db, mock, repo := setupUnitRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT availability_status FROM units`).
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)

	err := repo.SoftDelete(context.Background(), 7)

	assert.ErrorIs(t, err, ErrUnitNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitCreate_StartsAvailable(t *testing.T) {
	db, mock, repo := setupUnitRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`INSERT INTO units`).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(`SELECT availability_status, created_at, updated_at FROM units`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"availability_status", "created_at", "updated_at"}).
			AddRow(UnitAvailable, now, now))

	u := &Unit{PropertyID: 1, FloorID: 2, UnitNumber: "A-101", UnitType: "Flat", RentAmount: 12000}
	require.NoError(t, repo.Create(context.Background(), u))

	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, UnitAvailable, u.AvailabilityStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}
