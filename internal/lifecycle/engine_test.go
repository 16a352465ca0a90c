package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyvision/api/internal/repository"
)

func setupEngine(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Engine) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewEngine(db, nil)
}

func newTenant(unitID uint64) *repository.Tenant {
	return &repository.Tenant{
		TenantCode:   "TEN-A1B2C3",
		FullName:     "Ravi Kumar",
		MobileNumber: "9876543210",
		Email:        "ravi@example.com",
		IDType:       "Aadhaar",
		IDNumber:     "1234-5678-9012",
		UnitID:       &unitID,
	}
}

func TestOnboard_Success(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT availability_status FROM units`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"availability_status"}).AddRow(repository.UnitAvailable))
	mock.ExpectExec(`INSERT INTO tenants`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`UPDATE units SET availability_status`).
		WithArgs(repository.UnitOccupied, uint64(7), repository.UnitAvailable).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tn := newTenant(7)
	err := eng.Onboard(context.Background(), tn)

	require.NoError(t, err)
	assert.Equal(t, uint64(42), tn.ID)
	assert.Equal(t, repository.TenantActive, tn.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnboard_UnitOccupied(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT availability_status FROM units`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"availability_status"}).AddRow(repository.UnitOccupied))
	mock.ExpectRollback()

	err := eng.Onboard(context.Background(), newTenant(7))

	assert.ErrorIs(t, err, ErrUnitUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnboard_UnitMissing(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT availability_status FROM units`).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := eng.Onboard(context.Background(), newTenant(99))

	assert.ErrorIs(t, err, repository.ErrUnitNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The CAS write affecting zero rows means another onboarding claimed the unit
// between the status read and the update. The whole transaction rolls back.
func TestOnboard_LostRace(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT availability_status FROM units`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"availability_status"}).AddRow(repository.UnitAvailable))
	mock.ExpectExec(`INSERT INTO tenants`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`UPDATE units SET availability_status`).
		WithArgs(repository.UnitOccupied, uint64(7), repository.UnitAvailable).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := eng.Onboard(context.Background(), newTenant(7))

	assert.ErrorIs(t, err, ErrUnitUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnboard_DuplicateTenantCode(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT availability_status FROM units`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"availability_status"}).AddRow(repository.UnitAvailable))
	mock.ExpectExec(`INSERT INTO tenants`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'TEN-A1B2C3' for key 'tenants.tenant_code'"))
	mock.ExpectRollback()

	err := eng.Onboard(context.Background(), newTenant(7))

	assert.ErrorIs(t, err, repository.ErrTenantCodeExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVacate_ActiveTenant(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, unit_id FROM tenants`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "unit_id"}).AddRow(repository.TenantActive, int64(7)))
	// Tenant write first, unit flip last.
	mock.ExpectExec(`UPDATE tenants SET status`).
		WithArgs(repository.TenantVacated, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE units SET availability_status`).
		WithArgs(repository.UnitAvailable, uint64(7), repository.UnitOccupied).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	changed, err := eng.Vacate(context.Background(), 42)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A second vacate finds the tenant already Vacated and must not touch the
// unit, which may already belong to a new tenant.
func TestVacate_Idempotent(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, unit_id FROM tenants`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "unit_id"}).AddRow(repository.TenantVacated, nil))
	mock.ExpectCommit()

	changed, err := eng.Vacate(context.Background(), 42)

	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVacate_TenantMissing(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, unit_id FROM tenants`).
		WithArgs(uint64(1)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := eng.Vacate(context.Background(), 1)

	assert.ErrorIs(t, err, repository.ErrTenantNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRent_ComputesTotal(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT unit_id, status FROM tenants`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"unit_id", "status"}).AddRow(int64(7), repository.TenantActive))
	mock.ExpectExec(`INSERT INTO rents`).
		WithArgs(uint64(42), uint64(7), "2026-09", 12000.0, 1500.0, 13500.0, repository.RentPending, nil).
		WillReturnResult(sqlmock.NewResult(5, 1))

	rr, err := eng.AddRent(context.Background(), 42, "2026-09", 12000, 1500, repository.RentPending, nil)

	require.NoError(t, err)
	assert.Equal(t, uint64(5), rr.ID)
	assert.Equal(t, 13500.0, rr.TotalAmount)
	assert.Equal(t, uint64(7), rr.UnitID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRent_DuplicateMonth(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT unit_id, status FROM tenants`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"unit_id", "status"}).AddRow(int64(7), repository.TenantActive))
	mock.ExpectExec(`INSERT INTO rents`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '42-2026-09' for key 'rents.uq_tenant_month'"))

	_, err := eng.AddRent(context.Background(), 42, "2026-09", 12000, 1500, repository.RentPending, nil)

	assert.ErrorIs(t, err, repository.ErrRentExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRent_VacatedTenant(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT unit_id, status FROM tenants`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"unit_id", "status"}).AddRow(nil, repository.TenantVacated))

	_, err := eng.AddRent(context.Background(), 42, "2026-09", 12000, 0, repository.RentPending, nil)

	assert.ErrorIs(t, err, ErrTenantVacated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRent_PaidKeepsPaidOn(t *testing.T) {
	db, mock, eng := setupEngine(t)
	defer db.Close()

	paidOn := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT unit_id, status FROM tenants`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"unit_id", "status"}).AddRow(int64(7), repository.TenantActive))
	mock.ExpectExec(`INSERT INTO rents`).
		WithArgs(uint64(42), uint64(7), "2026-09", 12000.0, 0.0, 12000.0, repository.RentPaid, paidOn).
		WillReturnResult(sqlmock.NewResult(6, 1))

	rr, err := eng.AddRent(context.Background(), 42, "2026-09", 12000, 0, repository.RentPaid, &paidOn)

	require.NoError(t, err)
	require.NotNil(t, rr.PaidOn)
	assert.Equal(t, paidOn, *rr.PaidOn)
	assert.NoError(t, mock.ExpectationsWereMet())
}
