// internal/notification/service.go
// Match notification emails, fired from the swipe path

package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
)

const notifyTimeout = 15 * time.Second

type recipient struct {
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	Username  string `db:"username"`
}

// Service emails both sides of a new match. It satisfies the dating
// package's MatchNotifier interface.
type Service struct {
	db       *sqlx.DB
	provider EmailProvider
}

// NewService creates the notification service
func NewService(db *sqlx.DB, provider EmailProvider) *Service {
	return &Service{db: db, provider: provider}
}

// NotifyMatch emails both users about their new match. It runs in the
// background; failures are logged, never surfaced to the swipe request.
func (s *Service) NotifyMatch(ctx context.Context, userA, userB int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		a, err := s.getRecipient(ctx, userA)
		if err != nil {
			log.Printf("Match notification skipped, cannot load user %d: %v", userA, err)
			return
		}
		b, err := s.getRecipient(ctx, userB)
		if err != nil {
			log.Printf("Match notification skipped, cannot load user %d: %v", userB, err)
			return
		}

		s.sendMatchEmail(ctx, a, b)
		s.sendMatchEmail(ctx, b, a)
	}()
}

func (s *Service) getRecipient(ctx context.Context, userID int64) (*recipient, error) {
	var r recipient
	err := s.db.GetContext(ctx, &r,
		`SELECT email, first_name, username FROM users WHERE id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Service) sendMatchEmail(ctx context.Context, to, partner *recipient) {
	partnerName := partner.FirstName
	if partnerName == "" {
		partnerName = partner.Username
	}

	email := &Email{
		To:        to.Email,
		ToName:    to.FirstName,
		Subject:   "It's a match!",
		PlainBody: fmt.Sprintf("You and %s liked each other. Say hi!", partnerName),
		HTMLBody:  fmt.Sprintf("<p>You and <strong>%s</strong> liked each other. Say hi!</p>", partnerName),
	}

	if err := s.provider.SendEmail(ctx, email); err != nil {
		log.Printf("Failed to send match email to %s: %v", to.Email, err)
	}
}
