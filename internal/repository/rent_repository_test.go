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

func setupRentRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *RentRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewRentRepo(db)
}

func rentRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "unit_id", "month", "rent_amount", "maintenance_amount",
		"total_amount", "payment_status", "paid_on", "created_at", "updated_at",
	}).AddRow(5, 42, 7, "2026-09", 12000.0, 1500.0, 13500.0, RentPaid, now, now, now)
}

func TestRentGetByID(t *testing.T) {
	db, mock, repo := setupRentRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM rents WHERE id`).
		WithArgs(uint64(5)).
		WillReturnRows(rentRows())

	rr, err := repo.GetByID(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, uint64(5), rr.ID)
	assert.Equal(t, "2026-09", rr.Month)
	assert.Equal(t, 13500.0, rr.TotalAmount)
	require.NotNil(t, rr.PaidOn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentGetByID_NotFound(t *testing.T) {
	db, mock, repo := setupRentRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM rents WHERE id`).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrRentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentUpdate_NotFound(t *testing.T) {
	db, mock, repo := setupRentRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE rents`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &Rent{ID: 99, PaymentStatus: RentPending})

	assert.ErrorIs(t, err, ErrRentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentDelete(t *testing.T) {
	db, mock, repo := setupRentRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM rents WHERE id`).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 5)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Soft-deleted or missing join targets come back as the em dash sentinel
// instead of failing the listing.
func TestListPayments_SentinelNames(t *testing.T) {
	db, mock, repo := setupRentRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "full_name", "property_name", "unit_number", "month",
		"rent_amount", "maintenance_amount", "total_amount", "payment_status", "paid_on",
	}).
		AddRow(5, "Ravi Kumar", "Sunrise Residency", "A-101", "2026-09", 12000.0, 1500.0, 13500.0, RentPaid, time.Now()).
		AddRow(6, "—", "—", "—", "2026-08", 9000.0, 0.0, 9000.0, RentPending, nil)

	mock.ExpectQuery(`FROM rents r`).WillReturnRows(rows)

	payments, err := repo.ListPayments(context.Background())

	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "Ravi Kumar", payments[0].TenantName)
	assert.NotNil(t, payments[0].PaidOn)
	assert.Equal(t, "—", payments[1].TenantName)
	assert.Equal(t, "—", payments[1].UnitNumber)
	assert.Nil(t, payments[1].PaidOn)
	assert.NoError(t, mock.ExpectationsWereMet())
}
