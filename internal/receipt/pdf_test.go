package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyvision/api/internal/repository"
)

func paidRent() *repository.Rent {
	paidOn := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return &repository.Rent{
		ID:                5,
		TenantID:          42,
		UnitID:            7,
		Month:             "2026-09",
		RentAmount:        12000,
		MaintenanceAmount: 1500,
		TotalAmount:       13500,
		PaymentStatus:     repository.RentPaid,
		PaidOn:            &paidOn,
	}
}

func TestRender(t *testing.T) {
	tn := &repository.Tenant{FullName: "Ravi Kumar", MobileNumber: "9876543210"}
	u := &repository.Unit{UnitNumber: "A-101"}

	out, err := Render(paidRent(), tn, u)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"), "output should start with the PDF magic")
	assert.Greater(t, len(out), 500)
}

func TestRender_NilUnit(t *testing.T) {
	tn := &repository.Tenant{FullName: "Ravi Kumar"}

	out, err := Render(paidRent(), tn, nil)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestFilename(t *testing.T) {
	tn := &repository.Tenant{FullName: "Ravi Kumar"}
	assert.Equal(t, "Receipt-2026-09-Ravi Kumar.pdf", Filename(paidRent(), tn))
}
