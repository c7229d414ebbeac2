// internal/messaging/service.go
// Chat business logic: history, sending, and the event stream loop

package messaging

import (
	"context"
	"errors"
	"time"
)

var ErrNotMatchMember = errors.New("not a member of this match")

const (
	defaultKeepAlive   = 15 * time.Second
	defaultHistorySize = 100
)

// EventWriter receives stream events. The WebSocket handler implements
// it; tests substitute an in-memory writer.
type EventWriter interface {
	WriteEvent(ev *StreamEvent) error
}

// Service defines the chat business logic
type Service interface {
	SendMessage(ctx context.Context, userID, matchID int64, req *SendMessageRequest) (*Message, error)
	GetMessages(ctx context.Context, userID, matchID int64) ([]*Message, error)
	StreamEvents(ctx context.Context, userID int64, wake <-chan struct{}, w EventWriter) error
}

type service struct {
	repo      Repository
	keepAlive time.Duration
}

// NewService creates the chat service
func NewService(repo Repository) Service {
	return &service{repo: repo, keepAlive: defaultKeepAlive}
}

// SendMessage appends a message to a match the sender belongs to
func (s *service) SendMessage(ctx context.Context, userID, matchID int64, req *SendMessageRequest) (*Message, error) {
	member, err := s.repo.IsMatchMember(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMatchMember
	}

	msg := &Message{
		MatchID:  matchID,
		SenderID: userID,
		Text:     req.Text,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	messagesSentTotal.Inc()
	return msg, nil
}

// GetMessages returns a match's history. A non-member gets an empty
// list rather than an error, so match ids cannot be probed.
func (s *service) GetMessages(ctx context.Context, userID, matchID int64) ([]*Message, error) {
	member, err := s.repo.IsMatchMember(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return []*Message{}, nil
	}
	return s.repo.ListMatchMessages(ctx, matchID, defaultHistorySize)
}

// StreamEvents runs the per-client delivery loop until ctx is
// cancelled. On entry the low-water mark is set to the current global
// max id: only messages created after connect are delivered. Each pass
// waits for a wake-up or the keep-alive deadline, re-queries everything
// past the mark addressed to this user, emits it in id order and
// advances the mark. A pass that found nothing on a timed-out wait
// emits a keepalive instead. The loop never ends on its own; a write
// failure or context cancellation is the only way out.
func (s *service) StreamEvents(ctx context.Context, userID int64, wake <-chan struct{}, w EventWriter) error {
	mark, err := s.repo.MaxMessageID(ctx)
	if err != nil {
		return err
	}

	activeStreams.Inc()
	defer activeStreams.Dec()

	timer := time.NewTimer(s.keepAlive)
	defer timer.Stop()

	for {
		timedOut := false
		select {
		case <-ctx.Done():
			return nil
		case <-wake:
		case <-timer.C:
			timedOut = true
		}

		msgs, err := s.repo.ListNewMessages(ctx, userID, mark)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, msg := range msgs {
			ev := &StreamEvent{
				Type:      EventTypeMessage,
				Message:   msg,
				Timestamp: msg.CreatedAt,
			}
			if err := w.WriteEvent(ev); err != nil {
				return err
			}
			mark = msg.ID
			streamEventsTotal.WithLabelValues(EventTypeMessage).Inc()
		}

		if timedOut && len(msgs) == 0 {
			ev := &StreamEvent{
				Type:      EventTypeKeepAlive,
				Timestamp: time.Now(),
			}
			if err := w.WriteEvent(ev); err != nil {
				return err
			}
			streamEventsTotal.WithLabelValues(EventTypeKeepAlive).Inc()
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.keepAlive)
	}
}
