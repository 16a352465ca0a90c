package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Payment states of a rent row.
const (
	RentPending = "Pending"
	RentPaid    = "Paid"
	RentLate    = "Late"
)

// Rent is one billing-month ledger entry for a tenant. The unit id is
// denormalized from the tenant at creation time, so historical rows stay
// bound to the unit that was occupied when they were written. TotalAmount is
// computed once at every write that touches rent or maintenance; it is never
// re-derived on read.
type Rent struct {
	ID                uint64     `json:"id"`
	TenantID          uint64     `json:"tenantId"`
	UnitID            uint64     `json:"unitId"`
	Month             string     `json:"month"` // YYYY-MM
	RentAmount        float64    `json:"rentAmount"`
	MaintenanceAmount float64    `json:"maintenanceAmount"`
	TotalAmount       float64    `json:"totalAmount"`
	PaymentStatus     string     `json:"paymentStatus"`
	PaidOn            *time.Time `json:"paidOn"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

var (
	// ErrRentNotFound is returned when a rent row lookup yields no rows.
	ErrRentNotFound = errors.New("rent record not found")
	// ErrRentExists is returned when a (tenant, month) pair already has a
	// row. The existing row is never modified by the failed insert.
	ErrRentExists = errors.New("rent already recorded for this tenant and month")
)

type RentRepo struct {
	db *sql.DB
}

func NewRentRepo(db *sql.DB) *RentRepo {
	return &RentRepo{db: db}
}

const rentCols = `id, tenant_id, unit_id, month, rent_amount, maintenance_amount,
	total_amount, payment_status, paid_on, created_at, updated_at`

func scanRent(row interface{ Scan(...interface{}) error }) (*Rent, error) {
	var (
		rr     Rent
		paidOn sql.NullTime
	)
	err := row.Scan(
		&rr.ID, &rr.TenantID, &rr.UnitID, &rr.Month, &rr.RentAmount, &rr.MaintenanceAmount,
		&rr.TotalAmount, &rr.PaymentStatus, &paidOn, &rr.CreatedAt, &rr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if paidOn.Valid {
		v := paidOn.Time
		rr.PaidOn = &v
	}
	return &rr, nil
}

// GetByID fetches a rent row by id.
func (r *RentRepo) GetByID(ctx context.Context, id uint64) (*Rent, error) {
	const q = "SELECT " + rentCols + " FROM rents WHERE id = ?"
	rr, err := scanRent(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRentNotFound
		}
		return nil, err
	}
	return rr, nil
}

// ListByTenant returns a tenant's rent history, most recent month first.
func (r *RentRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]Rent, error) {
	const q = "SELECT " + rentCols + " FROM rents WHERE tenant_id = ? ORDER BY month DESC"
	rows, err := r.db.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Rent
	for rows.Next() {
		rr, err := scanRent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rr)
	}
	return result, rows.Err()
}

// Update overwrites amounts, status and paid-on of a rent row. TotalAmount
// must already be recomputed by the caller from the new rent + maintenance.
func (r *RentRepo) Update(ctx context.Context, rr *Rent) error {
	const q = `UPDATE rents
	           SET rent_amount = ?, maintenance_amount = ?, total_amount = ?,
	               payment_status = ?, paid_on = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	var paidOn interface{}
	if rr.PaidOn != nil {
		paidOn = *rr.PaidOn
	}
	res, err := r.db.ExecContext(ctx, q,
		rr.RentAmount, rr.MaintenanceAmount, rr.TotalAmount, rr.PaymentStatus, paidOn, rr.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRentNotFound
	}
	return nil
}

// Delete permanently removes a rent row. Rent is the one catalog entity that
// hard-deletes; there is no cascading effect on tenant or unit state.
func (r *RentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rents WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRentNotFound
	}
	return nil
}

// Payment is the read-side joined projection used by the payments listing:
// one row per rent record with the tenant, unit and property names resolved.
// Missing or soft-deleted references render as an em dash, matching what the
// dashboard shows for orphaned history.
type Payment struct {
	RentID            uint64     `json:"id"`
	TenantName        string     `json:"tenantName"`
	PropertyName      string     `json:"propertyName"`
	UnitNumber        string     `json:"unitNumber"`
	Month             string     `json:"month"`
	RentAmount        float64    `json:"rentAmount"`
	MaintenanceAmount float64    `json:"maintenanceAmount"`
	TotalAmount       float64    `json:"totalAmount"`
	PaymentStatus     string     `json:"paymentStatus"`
	PaidOn            *time.Time `json:"paidOn"`
}

// ListPayments joins rents against tenants, units and properties. LEFT JOINs
// plus COALESCE implement the sentinel policy: a deleted tenant or unit never
// breaks the listing.
func (r *RentRepo) ListPayments(ctx context.Context) ([]Payment, error) {
	const q = `SELECT r.id, COALESCE(t.full_name, '—'), COALESCE(p.property_name, '—'),
	                  COALESCE(u.unit_number, '—'), r.month, r.rent_amount,
	                  r.maintenance_amount, r.total_amount, r.payment_status, r.paid_on
	           FROM rents r
	           LEFT JOIN tenants t ON t.id = r.tenant_id
	           LEFT JOIN units u ON u.id = r.unit_id
	           LEFT JOIN properties p ON p.id = u.property_id
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Payment
	for rows.Next() {
		var (
			p      Payment
			paidOn sql.NullTime
		)
		if err := rows.Scan(
			&p.RentID, &p.TenantName, &p.PropertyName, &p.UnitNumber, &p.Month,
			&p.RentAmount, &p.MaintenanceAmount, &p.TotalAmount, &p.PaymentStatus, &paidOn,
		); err != nil {
			return nil, err
		}
		if paidOn.Valid {
			v := paidOn.Time
			p.PaidOn = &v
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
