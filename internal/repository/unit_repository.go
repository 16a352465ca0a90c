package repository // repository defines data access for rentable units

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Availability states a unit can be in. Only the lifecycle engine moves a
// unit between Available and Occupied; Reserved is set manually through the
// plain update endpoint to park a unit outside the onboarding pool.
const (
	UnitAvailable = "Available"
	UnitOccupied  = "Occupied"
	UnitReserved  = "Reserved"
)

// Unit represents a rentable space on a floor. UnitNumber is unique within
// its floor. RentAmount and MaintenanceCharge are the defaults offered when
// adding a monthly rent row for the occupying tenant.
type Unit struct {
	ID                 uint64    `json:"id"`
	PropertyID         uint64    `json:"propertyId"`
	FloorID            uint64    `json:"floorId"`
	UnitNumber         string    `json:"unitNumber"`
	UnitType           string    `json:"unitType"` // Flat | Studio | Duplex | Penthouse
	SquareFeet         float64   `json:"squareFeet"`
	RentAmount         float64   `json:"rentAmount"`
	SecurityDeposit    float64   `json:"securityDeposit"`
	MaintenanceCharge  float64   `json:"maintenanceCharge"`
	AvailabilityStatus string    `json:"availabilityStatus"`
	FurnishingStatus   string    `json:"furnishingStatus"`
	IsDeleted          bool      `json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

var (
	// ErrUnitNotFound is returned when a unit lookup yields no live row.
	ErrUnitNotFound = errors.New("unit not found")
	// ErrUnitNumberExists is returned when a unit number collides within
	// its floor.
	ErrUnitNumberExists = errors.New("unit number already exists on this floor")
)

// UnitRepo provides methods to work with units in the database.
type UnitRepo struct {
	db *sql.DB
}

func NewUnitRepo(db *sql.DB) *UnitRepo {
	return &UnitRepo{db: db}
}

const unitCols = `id, property_id, floor_id, unit_number, unit_type, square_feet,
	rent_amount, security_deposit, maintenance_charge, availability_status,
	furnishing_status, is_deleted, created_at, updated_at`

// Create inserts a unit record. On success the unit's generated fields are
// populated. New units always start Available.
func (r *UnitRepo) Create(ctx context.Context, u *Unit) error {
	const q = `INSERT INTO units
	           (property_id, floor_id, unit_number, unit_type, square_feet,
	            rent_amount, security_deposit, maintenance_charge, furnishing_status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		u.PropertyID, u.FloorID, u.UnitNumber, u.UnitType, u.SquareFeet,
		u.RentAmount, u.SecurityDeposit, u.MaintenanceCharge, u.FurnishingStatus)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrUnitNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	const qSelect = "SELECT availability_status, created_at, updated_at FROM units WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, u.ID).Scan(&u.AvailabilityStatus, &u.CreatedAt, &u.UpdatedAt)
}

// GetByID retrieves a live unit by its id.
func (r *UnitRepo) GetByID(ctx context.Context, id uint64) (*Unit, error) {
	const q = "SELECT " + unitCols + " FROM units WHERE id = ? AND is_deleted = 0"
	var u Unit
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.PropertyID, &u.FloorID, &u.UnitNumber, &u.UnitType, &u.SquareFeet,
		&u.RentAmount, &u.SecurityDeposit, &u.MaintenanceCharge, &u.AvailabilityStatus,
		&u.FurnishingStatus, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListByProperty retrieves all live units of a property, newest first.
func (r *UnitRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]Unit, error) {
	const q = "SELECT " + unitCols + " FROM units WHERE property_id = ? AND is_deleted = 0 ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(
			&u.ID, &u.PropertyID, &u.FloorID, &u.UnitNumber, &u.UnitType, &u.SquareFeet,
			&u.RentAmount, &u.SecurityDeposit, &u.MaintenanceCharge, &u.AvailabilityStatus,
			&u.FurnishingStatus, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// Update overwrites the descriptive fields of a live unit, including a
// manually chosen availability status. The lifecycle engine bypasses this
// method and flips availability with a compare-and-swap instead.
func (r *UnitRepo) Update(ctx context.Context, u *Unit) error {
	const q = `UPDATE units
	           SET unit_number = ?, unit_type = ?, square_feet = ?, rent_amount = ?,
	               security_deposit = ?, maintenance_charge = ?, availability_status = ?,
	               furnishing_status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND is_deleted = 0`
	res, err := r.db.ExecContext(ctx, q,
		u.UnitNumber, u.UnitType, u.SquareFeet, u.RentAmount,
		u.SecurityDeposit, u.MaintenanceCharge, u.AvailabilityStatus,
		u.FurnishingStatus, u.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrUnitNumberExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnitNotFound
	}
	return nil
}

// SoftDelete flags a unit as deleted without removing the row. An Occupied
// unit cannot be deleted; the tenant must be vacated first, otherwise the
// tenant would keep a reference to a unit no listing can resolve.
func (r *UnitRepo) SoftDelete(ctx context.Context, id uint64) error {
	var status string
	err := r.db.QueryRowContext(ctx,
		"SELECT availability_status FROM units WHERE id = ? AND is_deleted = 0", id).
		Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnitNotFound
		}
		return err
	}
	if status == UnitOccupied {
		return ErrConflict
	}

	const q = "UPDATE units SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnitNotFound
	}
	return nil
}
