package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewPropertyCode returns a short, human-readable property identifier such as
// PROP-3F2A9C.  Codes are derived from a v4 UUID so they do not leak row
// counts the way a sequential counter would.
func NewPropertyCode() string {
	return "PROP-" + shortID()
}

// NewTenantCode returns a tenant identifier such as TEN-8B41D0.  Operators
// may also supply their own code on onboarding; this is only the default.
func NewTenantCode() string {
	return "TEN-" + shortID()
}

func shortID() string {
	id := uuid.New()
	return strings.ToUpper(fmt.Sprintf("%x", id[:3]))
}
