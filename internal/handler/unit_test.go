package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyvision/api/internal/repository"
)

func setupUnitHandler(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *UnitHandler) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewUnitHandler(repository.NewUnitRepo(db), repository.NewFloorRepo(db))
}

func unitUpdateRequest(body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/units/:unitId")
	c.SetParamNames("unitId")
	c.SetParamValues(id)
	return c, rec
}

func storedUnitRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "property_id", "floor_id", "unit_number", "unit_type", "square_feet",
		"rent_amount", "security_deposit", "maintenance_charge", "availability_status",
		"furnishing_status", "is_deleted", "created_at", "updated_at",
	}).AddRow(7, 1, 2, "A-101", "Flat", 850.0, 12000.0, 24000.0, 1500.0,
		repository.UnitAvailable, "Semi-Furnished", false, now, now)
}

// Parking a unit by sending only the availability status must leave every
// stored amount untouched.
func TestUnitUpdate_ReserveKeepsAmounts(t *testing.T) {
	db, mock, h := setupUnitHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM units WHERE id`).
		WithArgs(uint64(7)).
		WillReturnRows(storedUnitRow())
	mock.ExpectExec(`UPDATE units`).
		WithArgs("A-101", "Flat", 850.0, 12000.0, 24000.0, 1500.0,
			repository.UnitReserved, "Semi-Furnished", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := unitUpdateRequest(`{"availabilityStatus":"Reserved"}`, "7")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rentAmount":12000`)
	assert.Contains(t, rec.Body.String(), `"availabilityStatus":"Reserved"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitUpdate_ProvidedAmountOverwrites(t *testing.T) {
	db, mock, h := setupUnitHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM units WHERE id`).
		WithArgs(uint64(7)).
		WillReturnRows(storedUnitRow())
	mock.ExpectExec(`UPDATE units`).
		WithArgs("A-101", "Flat", 850.0, 13000.0, 24000.0, 1500.0,
			repository.UnitAvailable, "Semi-Furnished", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := unitUpdateRequest(`{"rentAmount":13000}`, "7")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitUpdate_NegativeAmountRejected(t *testing.T) {
	db, mock, h := setupUnitHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM units WHERE id`).
		WithArgs(uint64(7)).
		WillReturnRows(storedUnitRow())

	c, rec := unitUpdateRequest(`{"rentAmount":-1}`, "7")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
