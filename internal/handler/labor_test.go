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

func setupLaborHandler(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *LaborHandler) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewLaborHandler(repository.NewLaborRepo(db))
}

func laborUpdateRequest(body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/labors/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func storedLaborRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "full_name", "phone", "skill", "daily_wage", "is_active", "created_at", "updated_at",
	}).AddRow(3, "Suresh", "9876511111", "Plumber", 800.0, true, now, now)
}

// Renaming a labor without sending dailyWage must keep the stored wage.
func TestLaborUpdate_AbsentWageKept(t *testing.T) {
	db, mock, h := setupLaborHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM labors WHERE id`).
		WithArgs(uint64(3)).
		WillReturnRows(storedLaborRow())
	mock.ExpectExec(`UPDATE labors`).
		WithArgs("Suresh Patil", "9876511111", "Plumber", 800.0, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := laborUpdateRequest(`{"fullName":"Suresh Patil"}`, "3")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dailyWage":800`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLaborUpdate_ProvidedWageOverwrites(t *testing.T) {
	db, mock, h := setupLaborHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM labors WHERE id`).
		WithArgs(uint64(3)).
		WillReturnRows(storedLaborRow())
	mock.ExpectExec(`UPDATE labors`).
		WithArgs("Suresh", "9876511111", "Plumber", 900.0, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := laborUpdateRequest(`{"dailyWage":900}`, "3")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
