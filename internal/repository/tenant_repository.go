package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Tenant lifecycle states. A tenant is created Active and becomes Vacated
// exactly once; vacated tenants keep their row (soft-deleted) for history.
const (
	TenantActive  = "Active"
	TenantVacated = "Vacated"
)

// Tenant is a lease occupant. UnitID is nil once the tenant has vacated.
// TenantCode is the operator-facing identifier (TEN-XXXXXX), unique across
// the table including vacated tenants.
type Tenant struct {
	ID           uint64     `json:"id"`
	TenantCode   string     `json:"tenantCode"`
	FullName     string     `json:"fullName"`
	MobileNumber string     `json:"mobileNumber"`
	Email        string     `json:"email"`
	IDType       string     `json:"idType"` // Aadhaar | Passport | Driving License | Voter ID
	IDNumber     string     `json:"idNumber"`
	UnitID       *uint64    `json:"unitId"`
	Status       string     `json:"status"`
	LeaseStart   *time.Time `json:"leaseStart"`
	IsDeleted    bool       `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

var (
	// ErrTenantNotFound is returned when a tenant lookup yields no row.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrTenantCodeExists is returned on a duplicate tenant code.
	ErrTenantCodeExists = errors.New("tenant already exists with this tenant code")
)

type TenantRepo struct {
	db *sql.DB
}

func NewTenantRepo(db *sql.DB) *TenantRepo {
	return &TenantRepo{db: db}
}

const tenantCols = `id, tenant_code, full_name, mobile_number, email, id_type, id_number,
	unit_id, status, lease_start, is_deleted, created_at, updated_at`

func scanTenant(row interface{ Scan(...interface{}) error }) (*Tenant, error) {
	var (
		t          Tenant
		unitID     sql.NullInt64
		leaseStart sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.TenantCode, &t.FullName, &t.MobileNumber, &t.Email, &t.IDType, &t.IDNumber,
		&unitID, &t.Status, &leaseStart, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if unitID.Valid {
		v := uint64(unitID.Int64)
		t.UnitID = &v
	}
	if leaseStart.Valid {
		v := leaseStart.Time
		t.LeaseStart = &v
	}
	return &t, nil
}

// GetByID fetches a live tenant by id.
func (r *TenantRepo) GetByID(ctx context.Context, id uint64) (*Tenant, error) {
	const q = "SELECT " + tenantCols + " FROM tenants WHERE id = ? AND is_deleted = 0"
	t, err := scanTenant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetByIDAny fetches a tenant regardless of its soft-delete flag. The
// receipt endpoint uses this: a vacated tenant's paid months still render.
func (r *TenantRepo) GetByIDAny(ctx context.Context, id uint64) (*Tenant, error) {
	const q = "SELECT " + tenantCols + " FROM tenants WHERE id = ?"
	t, err := scanTenant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns all live tenants, newest first.
func (r *TenantRepo) List(ctx context.Context) ([]Tenant, error) {
	const q = "SELECT " + tenantCols + " FROM tenants WHERE is_deleted = 0 ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

// Update overwrites the contact and identity fields of a live tenant.
// Unit assignment and status never change here; those transitions belong to
// the lifecycle engine.
func (r *TenantRepo) Update(ctx context.Context, t *Tenant) error {
	const q = `UPDATE tenants
	           SET full_name = ?, mobile_number = ?, email = ?, id_type = ?, id_number = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND is_deleted = 0`
	res, err := r.db.ExecContext(ctx, q,
		t.FullName, t.MobileNumber, t.Email, t.IDType, t.IDNumber, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTenantNotFound
	}
	return nil
}
