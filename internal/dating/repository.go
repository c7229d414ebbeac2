// internal/dating/repository.go
// Data access for profiles, swipes and matches

package dating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrProfileNotFound = errors.New("profile not found")

// Repository defines data access for the dating feature
type Repository interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	ProfileExists(ctx context.Context, userID int64) (bool, error)
	ListCandidates(ctx context.Context, userID int64, limit int) ([]*Profile, error)
	GetLikerIDs(ctx context.Context, userID int64) (map[int64]bool, error)
	UpsertSwipe(ctx context.Context, actorID, targetID int64, action string) error
	HasLiked(ctx context.Context, actorID, targetID int64) (bool, error)
	EnsureMatch(ctx context.Context, userA, userB int64) (created bool, err error)
	GetUserMatches(ctx context.Context, userID int64) ([]*MatchSummary, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a PostgreSQL-backed dating repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	id, username, first_name, last_name, role, gender, interested_in,
	bio, tags, age, latitude, longitude, city, country,
	max_distance, max_age_diff, embedding`

// GetProfile loads the dating view of one user
func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	query := `SELECT` + profileColumns + ` FROM users WHERE id = $1`

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// ProfileExists reports whether a user with the given id exists
func (r *postgresRepository) ProfileExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return exists, nil
}

// ListCandidates returns the raw candidate pool for a feed request.
// The query excludes the requester, anyone the requester already swiped
// on in either direction of outcome, and admin accounts, and caps the
// pool size.
func (r *postgresRepository) ListCandidates(ctx context.Context, userID int64, limit int) ([]*Profile, error) {
	query := `
		SELECT` + profileColumns + `
		FROM users u
		WHERE u.id <> $1
		  AND u.role <> 'admin'
		  AND NOT EXISTS (
			SELECT 1 FROM swipes s
			WHERE s.actor_id = $1 AND s.target_id = u.id
		  )
		ORDER BY u.id
		LIMIT $2`

	var candidates []*Profile
	if err := r.db.SelectContext(ctx, &candidates, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// GetLikerIDs returns the ids of users with a current LIKE on userID
func (r *postgresRepository) GetLikerIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT actor_id FROM swipes WHERE target_id = $1 AND action = $2`,
		userID, ActionLike)
	if err != nil {
		return nil, fmt.Errorf("failed to load likers: %w", err)
	}

	likers := make(map[int64]bool, len(ids))
	for _, id := range ids {
		likers[id] = true
	}
	return likers, nil
}

// UpsertSwipe records a swipe, overwriting the action in place when the
// actor already swiped on the target
func (r *postgresRepository) UpsertSwipe(ctx context.Context, actorID, targetID int64, action string) error {
	query := `
		INSERT INTO swipes (actor_id, target_id, action)
		VALUES ($1, $2, $3)
		ON CONFLICT (actor_id, target_id)
		DO UPDATE SET action = EXCLUDED.action, created_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, actorID, targetID, action); err != nil {
		return fmt.Errorf("failed to upsert swipe: %w", err)
	}
	return nil
}

// HasLiked reports whether actorID currently has a LIKE on targetID
func (r *postgresRepository) HasLiked(ctx context.Context, actorID, targetID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(
			SELECT 1 FROM swipes
			WHERE actor_id = $1 AND target_id = $2 AND action = $3
		)`, actorID, targetID, ActionLike)
	if err != nil {
		return false, fmt.Errorf("failed to check reverse like: %w", err)
	}
	return exists, nil
}

// EnsureMatch creates the match row for the sorted pair if it does not
// exist yet. Losing the unique-constraint race to a concurrent request
// is success; created reports whether this call inserted the row.
func (r *postgresRepository) EnsureMatch(ctx context.Context, userA, userB int64) (bool, error) {
	user1, user2 := userA, userB
	if user1 > user2 {
		user1, user2 = user2, user1
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO matches (user1_id, user2_id)
		VALUES ($1, $2)
		ON CONFLICT (user1_id, user2_id) DO NOTHING`,
		user1, user2)
	if err != nil {
		return false, fmt.Errorf("failed to create match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read match insert result: %w", err)
	}
	return rows > 0, nil
}

// GetUserMatches returns the user's active matches, newest first, each
// with the partner's summary and the latest message if any
func (r *postgresRepository) GetUserMatches(ctx context.Context, userID int64) ([]*MatchSummary, error) {
	query := `
		SELECT m.id, m.created_at,
		       p.id, p.username, p.first_name, p.gender, p.bio, p.tags,
		       p.age, p.city, p.country,
		       lm.text, lm.created_at
		FROM matches m
		JOIN users p
		  ON p.id = CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END
		LEFT JOIN LATERAL (
			SELECT text, created_at FROM messages
			WHERE match_id = m.id
			ORDER BY id DESC
			LIMIT 1
		) lm ON TRUE
		WHERE (m.user1_id = $1 OR m.user2_id = $1)
		  AND m.is_active = TRUE
		ORDER BY m.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*MatchSummary
	for rows.Next() {
		var (
			summary MatchSummary
			partner Profile
			lastTxt sql.NullString
			lastAt  sql.NullTime
		)
		err := rows.Scan(
			&summary.MatchID, &summary.MatchedAt,
			&partner.ID, &partner.Username, &partner.FirstName,
			&partner.Gender, &partner.Bio, &partner.Tags,
			&partner.Age, &partner.City, &partner.Country,
			&lastTxt, &lastAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}

		summary.Partner = summarize(&partner)
		if lastTxt.Valid {
			summary.LastMessage = &MessagePreview{
				Text:      lastTxt.String,
				CreatedAt: lastAt.Time,
			}
		}
		matches = append(matches, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}
	return matches, nil
}
