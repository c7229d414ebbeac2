// internal/dating/models.go

package dating

import (
	"time"

	"github.com/lib/pq"
)

// Swipe actions
const (
	ActionLike = "LIKE"
	ActionPass = "PASS"
)

// Discovery defaults applied when a profile has no explicit preference
const (
	defaultMaxDistanceKm = 20
	defaultMaxAgeDiff    = 5
)

// Profile is the dating view of a user: everything the filter pipeline
// and the ranking aggregator need, including the stored bio embedding.
type Profile struct {
	ID           int64           `db:"id"`
	Username     string          `db:"username"`
	FirstName    string          `db:"first_name"`
	LastName     string          `db:"last_name"`
	Role         string          `db:"role"`
	Gender       string          `db:"gender"`
	InterestedIn pq.StringArray  `db:"interested_in"`
	Bio          string          `db:"bio"`
	Tags         pq.StringArray  `db:"tags"`
	Age          *int            `db:"age"`
	Latitude     *float64        `db:"latitude"`
	Longitude    *float64        `db:"longitude"`
	City         string          `db:"city"`
	Country      string          `db:"country"`
	MaxDistance  int             `db:"max_distance"`
	MaxAgeDiff   int             `db:"max_age_diff"`
	Embedding    pq.Float64Array `db:"embedding"`
}

// maxDistanceKm returns the profile's discovery radius, falling back to
// the default when unset.
func (p *Profile) maxDistanceKm() float64 {
	if p.MaxDistance <= 0 {
		return defaultMaxDistanceKm
	}
	return float64(p.MaxDistance)
}

// maxAgeDiffYears returns the profile's age band half-width, falling
// back to the default when unset.
func (p *Profile) maxAgeDiffYears() int {
	if p.MaxAgeDiff <= 0 {
		return defaultMaxAgeDiff
	}
	return p.MaxAgeDiff
}

// SwipeRecord is one row of the swipes table.
type SwipeRecord struct {
	ID        int64     `db:"id"`
	ActorID   int64     `db:"actor_id"`
	TargetID  int64     `db:"target_id"`
	Action    string    `db:"action"`
	CreatedAt time.Time `db:"created_at"`
}

// Match pairs two users. user1_id < user2_id always holds.
type Match struct {
	ID        int64     `db:"id"`
	User1ID   int64     `db:"user1_id"`
	User2ID   int64     `db:"user2_id"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}
