package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// promauto registers against the default registry, so the metrics are built
// once for the whole test binary.
var testMetrics = NewHTTPMetrics()

func record(path string, h echo.HandlerFunc) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return testMetrics.Middleware()(h)(c)
}

func TestMetrics_SuccessStatus(t *testing.T) {
	err := record("/ok", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	assert.NoError(t, err)
	assert.Equal(t, 1.0,
		testutil.ToFloat64(testMetrics.RequestsTotal.WithLabelValues("GET", "/ok", "200")))
}

// A handler that returns an echo.HTTPError has not written a response yet;
// the counter must carry the status the error handler will emit, not the
// pre-error response status.
func TestMetrics_HTTPErrorStatus(t *testing.T) {
	err := record("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	})
	assert.Error(t, err)
	assert.Equal(t, 1.0,
		testutil.ToFloat64(testMetrics.RequestsTotal.WithLabelValues("GET", "/missing", "404")))
}

func TestMetrics_PlainErrorCountsAs500(t *testing.T) {
	err := record("/boom", func(c echo.Context) error {
		return errors.New("boom")
	})
	assert.Error(t, err)
	assert.Equal(t, 1.0,
		testutil.ToFloat64(testMetrics.RequestsTotal.WithLabelValues("GET", "/boom", "500")))
}
