// internal/messaging/repository.go
// Data access for chat messages

package messaging

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// Repository defines data access for chat
type Repository interface {
	// CreateMessage inserts a message and notifies stream listeners.
	CreateMessage(ctx context.Context, msg *Message) error
	// ListMatchMessages returns a match's history in id order.
	ListMatchMessages(ctx context.Context, matchID int64, limit int) ([]*Message, error)
	// ListNewMessages returns messages with id > afterID addressed to
	// userID: any active match the user belongs to, excluding the
	// user's own messages, in id order.
	ListNewMessages(ctx context.Context, userID, afterID int64) ([]*Message, error)
	// MaxMessageID returns the current global high-water mark, 0 when
	// the table is empty.
	MaxMessageID(ctx context.Context) (int64, error)
	// IsMatchMember reports whether userID belongs to the active match.
	IsMatchMember(ctx context.Context, matchID, userID int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a PostgreSQL-backed chat repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateMessage inserts the message and fires pg_notify in the same
// transaction, so a notification is never observed before its row
// commits.
func (r *postgresRepository) CreateMessage(ctx context.Context, msg *Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO messages (match_id, sender_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		msg.MatchID, msg.SenderID, msg.Text,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`,
		NotifyChannel, strconv.FormatInt(msg.ID, 10)); err != nil {
		return fmt.Errorf("failed to notify listeners: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}
	return nil
}

// ListMatchMessages returns the most recent limit messages of a match
// in ascending id order
func (r *postgresRepository) ListMatchMessages(ctx context.Context, matchID int64, limit int) ([]*Message, error) {
	query := `
		SELECT * FROM (
			SELECT m.id, m.match_id, m.sender_id, u.username AS sender_name,
			       m.text, m.created_at
			FROM messages m
			JOIN users u ON u.id = m.sender_id
			WHERE m.match_id = $1
			ORDER BY m.id DESC
			LIMIT $2
		) latest
		ORDER BY id ASC`

	var messages []*Message
	if err := r.db.SelectContext(ctx, &messages, query, matchID, limit); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// ListNewMessages returns stream deliveries for userID past afterID
func (r *postgresRepository) ListNewMessages(ctx context.Context, userID, afterID int64) ([]*Message, error) {
	query := `
		SELECT m.id, m.match_id, m.sender_id, u.username AS sender_name,
		       m.text, m.created_at
		FROM messages m
		JOIN matches mt ON mt.id = m.match_id
		JOIN users u ON u.id = m.sender_id
		WHERE m.id > $2
		  AND mt.is_active = TRUE
		  AND (mt.user1_id = $1 OR mt.user2_id = $1)
		  AND m.sender_id <> $1
		ORDER BY m.id ASC`

	var messages []*Message
	if err := r.db.SelectContext(ctx, &messages, query, userID, afterID); err != nil {
		return nil, fmt.Errorf("failed to list new messages: %w", err)
	}
	return messages, nil
}

// MaxMessageID returns the highest message id
func (r *postgresRepository) MaxMessageID(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.GetContext(ctx, &max, `SELECT COALESCE(MAX(id), 0) FROM messages`)
	if err != nil {
		return 0, fmt.Errorf("failed to read max message id: %w", err)
	}
	return max, nil
}

// IsMatchMember reports whether userID belongs to the active match
func (r *postgresRepository) IsMatchMember(ctx context.Context, matchID, userID int64) (bool, error) {
	var member bool
	err := r.db.GetContext(ctx, &member, `
		SELECT EXISTS(
			SELECT 1 FROM matches
			WHERE id = $1 AND is_active = TRUE
			  AND (user1_id = $2 OR user2_id = $2)
		)`, matchID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check match membership: %w", err)
	}
	return member, nil
}
