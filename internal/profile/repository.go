// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrProfileNotFound = errors.New("profile not found")

// Repository defines data access for profiles
type Repository interface {
	GetByID(ctx context.Context, userID int64) (*UserProfile, error)
	Update(ctx context.Context, userID int64, req *UpdateProfileRequest) (*UserProfile, error)
	SetEmbedding(ctx context.Context, userID int64, vector []float64) error
	SetLocationNames(ctx context.Context, userID int64, city, country string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a PostgreSQL-backed profile repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	id, username, email, first_name, last_name, role, gender,
	interested_in, bio, tags, age, latitude, longitude, city, country,
	occupation, university, max_distance, max_age_diff, embedding,
	created_at, updated_at`

// GetByID loads a full profile
func (r *postgresRepository) GetByID(ctx context.Context, userID int64) (*UserProfile, error) {
	var p UserProfile
	err := r.db.GetContext(ctx, &p,
		`SELECT`+profileColumns+` FROM users WHERE id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Update applies the non-nil fields of req and returns the fresh row.
// The SET clause is built dynamically so untouched columns keep their
// values.
func (r *postgresRepository) Update(ctx context.Context, userID int64, req *UpdateProfileRequest) (*UserProfile, error) {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if req.FirstName != nil {
		addSet("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		addSet("last_name", *req.LastName)
	}
	if req.Gender != nil {
		addSet("gender", *req.Gender)
	}
	if req.InterestedIn != nil {
		addSet("interested_in", pq.StringArray(*req.InterestedIn))
	}
	if req.Bio != nil {
		addSet("bio", *req.Bio)
	}
	if req.Tags != nil {
		addSet("tags", pq.StringArray(*req.Tags))
	}
	if req.Age != nil {
		addSet("age", *req.Age)
	}
	if req.Latitude != nil {
		addSet("latitude", *req.Latitude)
	}
	if req.Longitude != nil {
		addSet("longitude", *req.Longitude)
	}
	if req.Occupation != nil {
		addSet("occupation", *req.Occupation)
	}
	if req.University != nil {
		addSet("university", *req.University)
	}
	if req.MaxDistance != nil {
		addSet("max_distance", *req.MaxDistance)
	}
	if req.MaxAgeDiff != nil {
		addSet("max_age_diff", *req.MaxAgeDiff)
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, userID)
	}

	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, userID)

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING`+profileColumns,
		strings.Join(setClauses, ", "), argPos)

	var p UserProfile
	err := r.db.GetContext(ctx, &p, query, args...)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &p, nil
}

// SetEmbedding stores the bio embedding. A nil vector clears it.
func (r *postgresRepository) SetEmbedding(ctx context.Context, userID int64, vector []float64) error {
	var value interface{}
	if vector != nil {
		value = pq.Float64Array(vector)
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET embedding = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		value, userID)
	if err != nil {
		return fmt.Errorf("failed to set embedding: %w", err)
	}
	return nil
}

// SetLocationNames stores the resolved city and country
func (r *postgresRepository) SetLocationNames(ctx context.Context, userID int64, city, country string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET city = $1, country = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`,
		city, country, userID)
	if err != nil {
		return fmt.Errorf("failed to set location names: %w", err)
	}
	return nil
}
