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

func setupFloorHandler(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *FloorHandler) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewFloorHandler(repository.NewFloorRepo(db), repository.NewPropertyRepo(db))
}

func floorUpdateRequest(body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/floors/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func storedFloorRow(floorNumber int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "property_id", "floor_number", "floor_name", "floor_type", "is_active",
		"is_deleted", "created_at", "updated_at",
	}).AddRow(2, 1, floorNumber, "Third Floor", "Residential", true, false, now, now)
}

// Renaming a floor without sending floorNumber must keep the stored number
// instead of resetting it to ground.
func TestFloorUpdate_AbsentNumberKept(t *testing.T) {
	db, mock, h := setupFloorHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM floors WHERE id`).
		WithArgs(uint64(2)).
		WillReturnRows(storedFloorRow(3))
	mock.ExpectExec(`UPDATE floors`).
		WithArgs(3, "Top Floor", "Residential", true, uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := floorUpdateRequest(`{"floorName":"Top Floor"}`, "2")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"floorNumber":3`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Zero is the ground floor and must be settable explicitly.
func TestFloorUpdate_ExplicitZeroApplied(t *testing.T) {
	db, mock, h := setupFloorHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM floors WHERE id`).
		WithArgs(uint64(2)).
		WillReturnRows(storedFloorRow(3))
	mock.ExpectExec(`UPDATE floors`).
		WithArgs(0, "Third Floor", "Residential", true, uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := floorUpdateRequest(`{"floorNumber":0}`, "2")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
