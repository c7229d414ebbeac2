// internal/messaging/models.go

package messaging

import "time"

// NotifyChannel is the Postgres NOTIFY channel message inserts fire on.
const NotifyChannel = "ember_messages"

// Message is one chat message. Ids are monotonically increasing, so id
// order and timestamp order coincide.
type Message struct {
	ID         int64     `db:"id" json:"id"`
	MatchID    int64     `db:"match_id" json:"match_id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	SenderName string    `db:"sender_name" json:"sender_name,omitempty"`
	Text       string    `db:"text" json:"text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Stream event types
const (
	EventTypeMessage   = "message"
	EventTypeKeepAlive = "keepalive"
	EventTypeError     = "error"
)

// StreamEvent is one frame on the chat WebSocket stream
type StreamEvent struct {
	Type      string    `json:"type"`
	Message   *Message  `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SendMessageRequest is the body of POST /chat/{matchID}/messages
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}
