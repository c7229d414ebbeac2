// internal/profile/models.go

package profile

import (
	"time"

	"github.com/lib/pq"
)

// UserProfile is the full profile a user sees and edits. The stored
// embedding never leaves the server; only its presence is reported.
type UserProfile struct {
	ID           int64           `db:"id" json:"id"`
	Username     string          `db:"username" json:"username"`
	Email        string          `db:"email" json:"email"`
	FirstName    string          `db:"first_name" json:"first_name"`
	LastName     string          `db:"last_name" json:"last_name"`
	Role         string          `db:"role" json:"role"`
	Gender       string          `db:"gender" json:"gender"`
	InterestedIn pq.StringArray  `db:"interested_in" json:"interested_in"`
	Bio          string          `db:"bio" json:"bio"`
	Tags         pq.StringArray  `db:"tags" json:"tags"`
	Age          *int            `db:"age" json:"age,omitempty"`
	Latitude     *float64        `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64        `db:"longitude" json:"longitude,omitempty"`
	City         string          `db:"city" json:"city,omitempty"`
	Country      string          `db:"country" json:"country,omitempty"`
	Occupation   string          `db:"occupation" json:"occupation,omitempty"`
	University   string          `db:"university" json:"university,omitempty"`
	MaxDistance  int             `db:"max_distance" json:"max_distance"`
	MaxAgeDiff   int             `db:"max_age_diff" json:"max_age_diff"`
	Embedding    pq.Float64Array `db:"embedding" json:"-"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// UpdateProfileRequest is the body of PUT /profile. Nil fields are left
// unchanged.
type UpdateProfileRequest struct {
	FirstName    *string   `json:"first_name" validate:"omitempty,max=100"`
	LastName     *string   `json:"last_name" validate:"omitempty,max=100"`
	Gender       *string   `json:"gender" validate:"omitempty,oneof=M F O"`
	InterestedIn *[]string `json:"interested_in" validate:"omitempty,dive,oneof=M F O"`
	Bio          *string   `json:"bio" validate:"omitempty,max=500"`
	Tags         *[]string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	Age          *int      `json:"age" validate:"omitempty,min=18,max=120"`
	Latitude     *float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64  `json:"longitude" validate:"omitempty,longitude"`
	Occupation   *string   `json:"occupation" validate:"omitempty,max=100"`
	University   *string   `json:"university" validate:"omitempty,max=100"`
	MaxDistance  *int      `json:"max_distance" validate:"omitempty,min=1,max=300"`
	MaxAgeDiff   *int      `json:"max_age_diff" validate:"omitempty,min=1,max=50"`
}
