// internal/dating/dto.go
// Request/response types for the dating endpoints

package dating

import "time"

// SwipeRequest is the body of POST /dating/swipe
type SwipeRequest struct {
	TargetID int64  `json:"target_id" validate:"required"`
	Action   string `json:"action" validate:"required,oneof=LIKE PASS"`
}

// SwipeResponse reports whether the swipe completed a mutual match
type SwipeResponse struct {
	IsMatch bool `json:"is_match"`
}

// ProfileSummary is the public slice of a profile shown in feed rows
// and match listings
type ProfileSummary struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	Gender    string   `json:"gender"`
	Bio       string   `json:"bio"`
	Tags      []string `json:"tags"`
	Age       *int     `json:"age,omitempty"`
	City      string   `json:"city,omitempty"`
	Country   string   `json:"country,omitempty"`
}

// FeedEntry is one ranked feed row with its score breakdown
type FeedEntry struct {
	User     *ProfileSummary `json:"user"`
	Score    float64         `json:"score"`
	Common   int             `json:"common"`
	Cosine   float64         `json:"cosine"`
	Emb      float64         `json:"emb"`
	Priority int             `json:"priority"`
}

// MatchSummary is one row of GET /dating/matches
type MatchSummary struct {
	MatchID     int64           `json:"match_id"`
	Partner     *ProfileSummary `json:"partner"`
	MatchedAt   time.Time       `json:"matched_at"`
	LastMessage *MessagePreview `json:"last_message,omitempty"`
}

// MessagePreview is the trailing message shown on a match card
type MessagePreview struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func summarize(p *Profile) *ProfileSummary {
	return &ProfileSummary{
		ID:        p.ID,
		Username:  p.Username,
		FirstName: p.FirstName,
		Gender:    p.Gender,
		Bio:       p.Bio,
		Tags:      append([]string{}, p.Tags...),
		Age:       p.Age,
		City:      p.City,
		Country:   p.Country,
	}
}
