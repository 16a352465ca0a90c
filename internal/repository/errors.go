// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between failure scenarios: a lookup that resolved to no
// live row, a uniqueness violation, or a state that forbids the operation.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update cannot proceed because of
// conflicting state that is not covered by a more specific sentinel.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether a MySQL error is a unique-key violation
// (error 1062). Repositories map these onto their own sentinels so that
// handlers never inspect driver error strings.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
