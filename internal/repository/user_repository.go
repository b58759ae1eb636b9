package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/maplewood/course-scheduler/internal/model"
)

// UserRepo persists API accounts used by the auth endpoints.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user and returns its id. Duplicate emails map to
// ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash, role string) (int64, error) {
	const q = `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, email, passwordHash, role)
	if err != nil {
		// MySQL duplicate key on the unique email index.
		if strings.Contains(err.Error(), "Duplicate entry") {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return res.LastInsertId()
}

// ByEmail returns the user with the given email, or sql.ErrNoRows.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (model.User, error) {
	const q = `SELECT id, email, password_hash, role, created_at FROM users WHERE email = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// ByID returns the user with the given id, or sql.ErrNoRows.
func (r *UserRepo) ByID(ctx context.Context, id int64) (model.User, error) {
	const q = `SELECT id, email, password_hash, role, created_at FROM users WHERE id = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}
