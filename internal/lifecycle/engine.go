// Package lifecycle implements the rules that keep a unit's occupancy flag,
// a tenant's Active/Vacated status and the monthly rent ledger mutually
// consistent. Every multi-write operation runs inside a single database
// transaction so a unit can never end up occupied without its tenant or
// freed while its tenant is still Active.
package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/propertyvision/api/internal/repository"
)

var (
	// ErrUnitUnavailable is returned when onboarding targets a unit that
	// exists but is Occupied or Reserved, or that another onboarding
	// claimed first. Double-booking is always rejected.
	ErrUnitUnavailable = errors.New("unit is not available")
	// ErrTenantVacated is returned when a rent row is requested for a
	// tenant that no longer occupies a unit.
	ErrTenantVacated = errors.New("tenant has vacated")
)

// Engine owns the tenant-unit-rent state machine. It works directly on the
// shared *sql.DB so that each operation can open its own transaction.
type Engine struct {
	db  *sql.DB
	log *zap.Logger
}

func NewEngine(db *sql.DB, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log}
}

// Onboard creates a tenant on an Available unit and flips the unit to
// Occupied, atomically. The unit flip is a compare-and-swap: it only
// succeeds if the unit is still Available at commit time, so two concurrent
// onboardings against the same unit cannot both succeed.
//
// On success t.ID is populated and t.Status is Active.
func (e *Engine) Onboard(ctx context.Context, t *repository.Tenant) error {
	if t.UnitID == nil {
		return repository.ErrUnitNotFound
	}
	unitID := *t.UnitID

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Distinguish missing unit from occupied unit up front; the CAS below
	// collapses both into zero rows affected.
	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT availability_status FROM units WHERE id = ? AND is_deleted = 0",
		unitID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrUnitNotFound
		}
		return err
	}
	if status != repository.UnitAvailable {
		return ErrUnitUnavailable
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tenants (tenant_code, full_name, mobile_number, email, id_type, id_number, unit_id, status, lease_start)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TenantCode, t.FullName, t.MobileNumber, t.Email, t.IDType, t.IDNumber,
		unitID, repository.TenantActive, t.LeaseStart)
	if err != nil {
		if isDuplicateKey(err) {
			return repository.ErrTenantCodeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	t.Status = repository.TenantActive

	// Compare-and-swap on availability_status guards against a concurrent
	// onboarding that slipped in between the SELECT above and this write.
	res, err = tx.ExecContext(ctx,
		`UPDATE units SET availability_status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND availability_status = ? AND is_deleted = 0`,
		repository.UnitOccupied, unitID, repository.UnitAvailable)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnitUnavailable
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	e.log.Info("tenant onboarded",
		zap.Uint64("tenant_id", t.ID),
		zap.String("tenant_code", t.TenantCode),
		zap.Uint64("unit_id", unitID))
	return nil
}

// Vacate moves a tenant to Vacated, soft-deletes it, clears its unit
// reference and frees the unit. The unit reference is read before it is
// cleared, and the unit flip is the last write, so a crash mid-operation
// leaves the tenant still occupying rather than a freed unit with a dangling
// Active tenant.
//
// Vacating an already-vacated tenant is a no-op: it returns (false, nil) and
// never touches the unit again.
func (e *Engine) Vacate(ctx context.Context, tenantID uint64) (bool, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// The lookup deliberately ignores is_deleted: a vacated tenant is
	// soft-deleted and must still be found for idempotence.
	var (
		status string
		unitID sql.NullInt64
	)
	err = tx.QueryRowContext(ctx,
		"SELECT status, unit_id FROM tenants WHERE id = ?", tenantID).
		Scan(&status, &unitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, repository.ErrTenantNotFound
		}
		return false, err
	}
	if status == repository.TenantVacated {
		if err := tx.Commit(); err != nil {
			return false, err
		}
		committed = true
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE tenants SET status = ?, is_deleted = 1, unit_id = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		repository.TenantVacated, tenantID)
	if err != nil {
		return false, err
	}

	// Unit flip last. The status guard keeps a manually Reserved unit
	// from being forced back to Available.
	if unitID.Valid {
		_, err = tx.ExecContext(ctx,
			`UPDATE units SET availability_status = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND availability_status = ?`,
			repository.UnitAvailable, uint64(unitID.Int64), repository.UnitOccupied)
		if err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	e.log.Info("tenant vacated",
		zap.Uint64("tenant_id", tenantID),
		zap.Int64("unit_id", unitID.Int64))
	return true, nil
}

// AddRent creates the single rent row for (tenant, month). The total is
// computed here, once, at write time. The unit id stored on the row is the
// tenant's current unit, so rows written before a vacate keep pointing at
// the unit that was occupied then.
func (e *Engine) AddRent(ctx context.Context, tenantID uint64, month string, rentAmount, maintenanceAmount float64, paymentStatus string, paidOn *time.Time) (*repository.Rent, error) {
	var (
		unitID sql.NullInt64
		status string
	)
	err := e.db.QueryRowContext(ctx,
		"SELECT unit_id, status FROM tenants WHERE id = ? AND is_deleted = 0",
		tenantID).Scan(&unitID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTenantNotFound
		}
		return nil, err
	}
	if status != repository.TenantActive || !unitID.Valid {
		return nil, ErrTenantVacated
	}

	rr := &repository.Rent{
		TenantID:          tenantID,
		UnitID:            uint64(unitID.Int64),
		Month:             month,
		RentAmount:        rentAmount,
		MaintenanceAmount: maintenanceAmount,
		TotalAmount:       rentAmount + maintenanceAmount,
		PaymentStatus:     paymentStatus,
		PaidOn:            paidOn,
	}

	var paidOnArg interface{}
	if paidOn != nil {
		paidOnArg = *paidOn
	}
	res, err := e.db.ExecContext(ctx,
		`INSERT INTO rents (tenant_id, unit_id, month, rent_amount, maintenance_amount, total_amount, payment_status, paid_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rr.TenantID, rr.UnitID, rr.Month, rr.RentAmount, rr.MaintenanceAmount,
		rr.TotalAmount, rr.PaymentStatus, paidOnArg)
	if err != nil {
		// The unique (tenant_id, month) index rejects the duplicate and
		// leaves the first row untouched.
		if isDuplicateKey(err) {
			return nil, repository.ErrRentExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	rr.ID = uint64(id)
	e.log.Info("rent recorded",
		zap.Uint64("tenant_id", tenantID),
		zap.String("month", month),
		zap.Float64("total", rr.TotalAmount))
	return rr, nil
}

func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
