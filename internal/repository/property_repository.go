// This file defines the Property model and repository methods for CRUD and
// lookup operations. A Property is the root of the catalog hierarchy: it
// contains floors, which contain units. Properties soft-delete; a deleted
// property disappears from every listing but its rows remain for history.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Property represents a building or plot under management. PropertyCode is a
// generated human-readable identifier (PROP-XXXXXX) unique across the table.
type Property struct {
	ID            uint64    `json:"id"`
	PropertyCode  string    `json:"propertyCode"`
	PropertyName  string    `json:"propertyName"`
	PropertyType  string    `json:"propertyType"`
	OwnershipType string    `json:"ownershipType"`
	Description   string    `json:"description"`
	City          string    `json:"city"`
	AddressLine   string    `json:"addressLine"`
	IsDeleted     bool      `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ErrPropertyNotFound is returned when a property cannot be found or has
// been soft-deleted.
var ErrPropertyNotFound = errors.New("property not found")

// ErrPropertyCodeExists is returned on a duplicate property code.
var ErrPropertyCodeExists = errors.New("property code already exists")

// PropertyRepo encapsulates all database queries related to properties.
type PropertyRepo struct {
	db *sql.DB
}

func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

const propertyCols = "id, property_code, property_name, property_type, ownership_type, description, city, address_line, is_deleted, created_at, updated_at"

// Create inserts a new property. On success the ID, CreatedAt and UpdatedAt
// fields are populated so callers receive a fully hydrated record.
func (r *PropertyRepo) Create(ctx context.Context, p *Property) error {
	const q = `INSERT INTO properties
	           (property_code, property_name, property_type, ownership_type, description, city, address_line)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		p.PropertyCode, p.PropertyName, p.PropertyType, p.OwnershipType, p.Description, p.City, p.AddressLine)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrPropertyCodeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM properties WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a live property by its ID.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*Property, error) {
	const q = "SELECT " + propertyCols + " FROM properties WHERE id = ? AND is_deleted = 0"
	var p Property
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.PropertyCode, &p.PropertyName, &p.PropertyType, &p.OwnershipType,
		&p.Description, &p.City, &p.AddressLine, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all live properties, newest first. propertyType and city are
// optional filters; an empty string skips the filter.
func (r *PropertyRepo) List(ctx context.Context, propertyType, city string) ([]Property, error) {
	q := "SELECT " + propertyCols + " FROM properties WHERE is_deleted = 0"
	args := make([]interface{}, 0, 2)
	if propertyType != "" {
		q += " AND property_type = ?"
		args = append(args, propertyType)
	}
	if city != "" {
		q += " AND city = ?"
		args = append(args, city)
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(
			&p.ID, &p.PropertyCode, &p.PropertyName, &p.PropertyType, &p.OwnershipType,
			&p.Description, &p.City, &p.AddressLine, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Update overwrites the mutable fields of a live property.
func (r *PropertyRepo) Update(ctx context.Context, p *Property) error {
	const q = `UPDATE properties
	           SET property_name = ?, property_type = ?, ownership_type = ?, description = ?,
	               city = ?, address_line = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND is_deleted = 0`
	res, err := r.db.ExecContext(ctx, q,
		p.PropertyName, p.PropertyType, p.OwnershipType, p.Description, p.City, p.AddressLine, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// SoftDelete flags a property as deleted without removing the row.
func (r *PropertyRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = "UPDATE properties SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
