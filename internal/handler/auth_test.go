package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyvision/api/internal/config"
	"github.com/propertyvision/api/internal/mailer"
	"github.com/propertyvision/api/internal/repository"
	"github.com/propertyvision/api/internal/utils"
)

func setupAuthHandler(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *AuthHandler) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 60, ResetTokenTTLMin: 30, BcryptCost: 4}
	h := NewAuthHandler(cfg,
		repository.NewAdminRepo(db),
		repository.NewResetTokenRepo(db),
		mailer.New("", "", "no-reply@test.local", "Test", nil),
		nil)
	return db, mock, h
}

func jsonRequest(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func adminRow(t *testing.T, password string) *sqlmock.Rows {
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "mobile_number", "address", "role", "created_at", "updated_at",
	}).AddRow(1, "priya", "priya@example.com", hash, "9876500000", "Pune", repository.RoleAdmin, now, now)
}

func TestLogin_Success(t *testing.T) {
	db, mock, h := setupAuthHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM admins WHERE email`).
		WithArgs("priya@example.com").
		WillReturnRows(adminRow(t, "s3cret!"))

	c, rec := jsonRequest(http.MethodPost, `{"email":"Priya@Example.com","password":"s3cret!"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "priya@example.com", body.User.Email)
	assert.Equal(t, repository.RoleAdmin, body.User.Role)
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	db, mock, h := setupAuthHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM admins WHERE email`).
		WithArgs("priya@example.com").
		WillReturnRows(adminRow(t, "s3cret!"))

	c, rec := jsonRequest(http.MethodPost, `{"email":"priya@example.com","password":"nope"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmail(t *testing.T) {
	db, mock, h := setupAuthHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM admins WHERE email`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	c, rec := jsonRequest(http.MethodPost, `{"email":"ghost@example.com","password":"whatever"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_AlwaysSubadmin(t *testing.T) {
	db, mock, h := setupAuthHandler(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO admins`).
		WithArgs("priya", "priya@example.com", sqlmock.AnyArg(), "9876500000", "Pune", repository.RoleSubadmin).
		WillReturnResult(sqlmock.NewResult(3, 1))

	c, rec := jsonRequest(http.MethodPost,
		`{"username":"priya","email":"priya@example.com","password":"s3cret!","mobileNumber":"9876500000","address":"Pune"}`)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"subadmin"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, mock, h := setupAuthHandler(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO admins`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'priya@example.com' for key 'admins.email'"))

	c, rec := jsonRequest(http.MethodPost,
		`{"username":"priya","email":"priya@example.com","password":"s3cret!","mobileNumber":"9876500000","address":"Pune"}`)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ForgotPassword must answer identically for unknown accounts so the endpoint
// cannot be used to probe which emails exist.
func TestForgotPassword_UnknownEmailStill200(t *testing.T) {
	db, mock, h := setupAuthHandler(t)
	defer db.Close()

	mock.ExpectQuery(`FROM admins WHERE email`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	c, rec := jsonRequest(http.MethodPost, `{"email":"ghost@example.com"}`)
	require.NoError(t, h.ForgotPassword(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "if the email exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}
