// internal/auth/repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrUserExists   = errors.New("username or email already taken")
	ErrUserNotFound = errors.New("user not found")
)

// Repository defines data access for accounts
type Repository interface {
	CreateUser(ctx context.Context, user *User, gender string, age *int, lat, lon *float64) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a PostgreSQL-backed auth repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateUser inserts a new account with its initial dating attributes
func (r *postgresRepository) CreateUser(ctx context.Context, user *User, gender string, age *int, lat, lon *float64) error {
	if gender == "" {
		gender = "O"
	}

	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, gender, age, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, role, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, gender, age, lat, lon,
	).Scan(&user.ID, &user.Role, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByUsername loads an account by username
func (r *postgresRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, username, email, password_hash, first_name, last_name, role, created_at
		FROM users WHERE username = $1`, username)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByID loads an account by id
func (r *postgresRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, username, email, password_hash, first_name, last_name, role, created_at
		FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
