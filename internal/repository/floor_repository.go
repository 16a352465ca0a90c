package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Floor represents one storey of a property. FloorNumber 0 is the ground
// floor. Units reference both their floor and property directly.
type Floor struct {
	ID          uint64    `json:"id"`
	PropertyID  uint64    `json:"propertyId"`
	FloorNumber int       `json:"floorNumber"`
	FloorName   string    `json:"floorName"`
	FloorType   string    `json:"floorType"` // Residential | Commercial | Mixed
	IsActive    bool      `json:"isActive"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ErrFloorNotFound is returned when a floor lookup yields no live row.
var ErrFloorNotFound = errors.New("floor not found")

type FloorRepo struct {
	db *sql.DB
}

func NewFloorRepo(db *sql.DB) *FloorRepo {
	return &FloorRepo{db: db}
}

const floorCols = "id, property_id, floor_number, floor_name, floor_type, is_active, is_deleted, created_at, updated_at"

// Create inserts a floor and populates its generated fields.
func (r *FloorRepo) Create(ctx context.Context, f *Floor) error {
	const q = `INSERT INTO floors (property_id, floor_number, floor_name, floor_type)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.PropertyID, f.FloorNumber, f.FloorName, f.FloorType)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)

	const qSelect = "SELECT is_active, created_at, updated_at FROM floors WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, f.ID).Scan(&f.IsActive, &f.CreatedAt, &f.UpdatedAt)
}

// GetByID fetches a live floor by id.
func (r *FloorRepo) GetByID(ctx context.Context, id uint64) (*Floor, error) {
	const q = "SELECT " + floorCols + " FROM floors WHERE id = ? AND is_deleted = 0"
	var f Floor
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.PropertyID, &f.FloorNumber, &f.FloorName, &f.FloorType,
		&f.IsActive, &f.IsDeleted, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFloorNotFound
		}
		return nil, err
	}
	return &f, nil
}

// List returns all live floors, newest first.
func (r *FloorRepo) List(ctx context.Context) ([]Floor, error) {
	const q = "SELECT " + floorCols + " FROM floors WHERE is_deleted = 0 ORDER BY created_at DESC"
	return r.scanFloors(ctx, q)
}

// ListByProperty returns the live floors of a property ordered bottom-up.
func (r *FloorRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]Floor, error) {
	const q = "SELECT " + floorCols + " FROM floors WHERE property_id = ? AND is_deleted = 0 ORDER BY floor_number"
	return r.scanFloors(ctx, q, propertyID)
}

func (r *FloorRepo) scanFloors(ctx context.Context, q string, args ...interface{}) ([]Floor, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Floor
	for rows.Next() {
		var f Floor
		if err := rows.Scan(
			&f.ID, &f.PropertyID, &f.FloorNumber, &f.FloorName, &f.FloorType,
			&f.IsActive, &f.IsDeleted, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// Update overwrites the mutable fields of a live floor.
func (r *FloorRepo) Update(ctx context.Context, f *Floor) error {
	const q = `UPDATE floors
	           SET floor_number = ?, floor_name = ?, floor_type = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND is_deleted = 0`
	res, err := r.db.ExecContext(ctx, q, f.FloorNumber, f.FloorName, f.FloorType, f.IsActive, f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFloorNotFound
	}
	return nil
}

// SoftDelete flags a floor as deleted and inactive.
func (r *FloorRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = "UPDATE floors SET is_deleted = 1, is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFloorNotFound
	}
	return nil
}
