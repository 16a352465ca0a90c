package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyvision/api/internal/utils"
)

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authz string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	err := mw(next)(c)
	require.NoError(t, err)
	return rec
}

func TestJWTAuth_ValidToken(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 42, "admin", 60)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		assert.Equal(t, float64(42), c.Get("admin_id"))
		assert.Equal(t, "admin", c.Get("role"))
		return c.String(http.StatusOK, "ok")
	}
	require.NoError(t, JWTAuth("secret")(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec := doRequest(t, JWTAuth("secret"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 42, "admin", 60)
	require.NoError(t, err)

	rec := doRequest(t, JWTAuth("secret"), "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role interface{}, allowed ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
		require.NoError(t, RequireRole(allowed...)(next)(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, run("admin", "admin", "subadmin").Code)
	assert.Equal(t, http.StatusOK, run("subadmin", "admin", "subadmin").Code)
	assert.Equal(t, http.StatusForbidden, run("subadmin", "admin").Code)
	assert.Equal(t, http.StatusForbidden, run(nil, "admin").Code)
	assert.Equal(t, http.StatusForbidden, run("unknown", "admin", "subadmin").Code)
}
