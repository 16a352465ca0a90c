package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Labor is a registered maintenance worker. Labors are independent of the
// tenancy lifecycle; they soft-delete through the is_active flag.
type Labor struct {
	ID        uint64    `json:"id"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Skill     string    `json:"skill"` // e.g. Plumber, Electrician
	DailyWage float64   `json:"dailyWage"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrLaborNotFound is returned when a labor lookup yields no active row.
var ErrLaborNotFound = errors.New("labor not found")

type LaborRepo struct {
	db *sql.DB
}

func NewLaborRepo(db *sql.DB) *LaborRepo {
	return &LaborRepo{db: db}
}

const laborCols = "id, full_name, phone, skill, daily_wage, is_active, created_at, updated_at"

// Create inserts a labor record and populates its generated fields.
func (r *LaborRepo) Create(ctx context.Context, l *Labor) error {
	const q = "INSERT INTO labors (full_name, phone, skill, daily_wage) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, l.FullName, l.Phone, l.Skill, l.DailyWage)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)

	const qSelect = "SELECT is_active, created_at, updated_at FROM labors WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, l.ID).Scan(&l.IsActive, &l.CreatedAt, &l.UpdatedAt)
}

// GetByID fetches an active labor by id.
func (r *LaborRepo) GetByID(ctx context.Context, id uint64) (*Labor, error) {
	const q = "SELECT " + laborCols + " FROM labors WHERE id = ? AND is_active = 1"
	var l Labor
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.ID, &l.FullName, &l.Phone, &l.Skill, &l.DailyWage, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLaborNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns all active labors, newest first.
func (r *LaborRepo) List(ctx context.Context) ([]Labor, error) {
	const q = "SELECT " + laborCols + " FROM labors WHERE is_active = 1 ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Labor
	for rows.Next() {
		var l Labor
		if err := rows.Scan(&l.ID, &l.FullName, &l.Phone, &l.Skill, &l.DailyWage, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// Update overwrites the mutable fields of an active labor.
func (r *LaborRepo) Update(ctx context.Context, l *Labor) error {
	const q = `UPDATE labors
	           SET full_name = ?, phone = ?, skill = ?, daily_wage = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND is_active = 1`
	res, err := r.db.ExecContext(ctx, q, l.FullName, l.Phone, l.Skill, l.DailyWage, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLaborNotFound
	}
	return nil
}

// SoftDelete deactivates a labor without removing the row.
func (r *LaborRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = "UPDATE labors SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_active = 1"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLaborNotFound
	}
	return nil
}
