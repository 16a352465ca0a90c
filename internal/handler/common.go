package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// errNoIdentity is returned when the admin id claim is missing or malformed.
var errNoIdentity = errors.New("no authenticated admin in context")

// getAdminID extracts the authenticated admin's id from the context. JWT
// numeric claims decode as float64; some clients send the id as a string, so
// both shapes are accepted.
func getAdminID(c echo.Context) (uint64, error) {
	switch v := c.Get("admin_id").(type) {
	case float64:
		if v > 0 {
			return uint64(v), nil
		}
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			return n, nil
		}
	case uint64:
		if v > 0 {
			return v, nil
		}
	}
	return 0, errNoIdentity
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// reqCtx bounds every database call made by a handler to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
