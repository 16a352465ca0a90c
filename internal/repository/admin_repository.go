package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/propertyvision/api/internal/utils"
)

// Admin mirrors the 'admins' table. Role is either "admin" or "subadmin";
// self-registered accounts always start as subadmin and can only be promoted
// by an existing admin.
type Admin struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	MobileNumber string    `json:"mobileNumber"`
	Address      string    `json:"address"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Roles accepted in the admins.role column and the JWT role claim.
const (
	RoleAdmin    = "admin"
	RoleSubadmin = "subadmin"
)

var (
	// ErrEmailExists is returned when registering with an email that is
	// already taken.
	ErrEmailExists = errors.New("email already exists")
	// ErrAdminNotFound is returned when an admin lookup yields no rows.
	ErrAdminNotFound = errors.New("admin not found")
)

type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

const adminCols = "id,username,email,password_hash,mobile_number,address,role,created_at,updated_at"

// Create inserts an admin account and returns its ID. The password is
// hashed here so callers never handle a stored hash themselves.
func (r *AdminRepo) Create(ctx context.Context, a *Admin, password string, cost int) (uint64, error) {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (username, email, password_hash, mobile_number, address, role) VALUES (?,?,?,?,?,?)",
		a.Username, a.Email, hash, a.MobileNumber, a.Address, a.Role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = uint64(id)
	return a.ID, nil
}

// GetByEmail fetches an admin by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+adminCols+" FROM admins WHERE email=? LIMIT 1", email).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.MobileNumber, &a.Address, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrAdminNotFound
	}
	return a, err
}

// GetByID fetches an admin by id.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (Admin, error) {
	var a Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+adminCols+" FROM admins WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.MobileNumber, &a.Address, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrAdminNotFound
	}
	return a, err
}

// List returns every admin account, newest first. Password hashes are
// scanned but never serialized (json:"-").
func (r *AdminRepo) List(ctx context.Context) ([]Admin, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+adminCols+" FROM admins ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Admin
	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.MobileNumber, &a.Address, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update overwrites the mutable profile fields of an admin account.
func (r *AdminRepo) Update(ctx context.Context, id uint64, username, mobileNumber, address, role string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET username=?, mobile_number=?, address=?, role=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		username, mobileNumber, address, role, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// UpdatePassword replaces the stored hash. Used by change-password and
// reset-password flows; current-password verification happens in the handler.
func (r *AdminRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// Delete removes an admin account permanently. Admin accounts are the one
// entity besides rent rows that hard-deletes.
func (r *AdminRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM admins WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAdminNotFound
	}
	return nil
}
