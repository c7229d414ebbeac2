package dating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	profiles map[int64]*Profile
	swipes   map[[2]int64]string // (actor, target) -> action
	matches  map[[2]int64]bool   // sorted pair
}

func newFakeRepository(profiles ...*Profile) *fakeRepository {
	r := &fakeRepository{
		profiles: make(map[int64]*Profile),
		swipes:   make(map[[2]int64]string),
		matches:  make(map[[2]int64]bool),
	}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeRepository) GetProfile(_ context.Context, userID int64) (*Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeRepository) ProfileExists(_ context.Context, userID int64) (bool, error) {
	_, ok := r.profiles[userID]
	return ok, nil
}

func (r *fakeRepository) ListCandidates(_ context.Context, userID int64, limit int) ([]*Profile, error) {
	var out []*Profile
	for id := int64(0); id < 1000 && len(out) < limit; id++ {
		p, ok := r.profiles[id]
		if !ok || p.ID == userID || p.Role == "admin" {
			continue
		}
		if _, swiped := r.swipes[[2]int64{userID, p.ID}]; swiped {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepository) GetLikerIDs(_ context.Context, userID int64) (map[int64]bool, error) {
	likers := make(map[int64]bool)
	for key, action := range r.swipes {
		if key[1] == userID && action == ActionLike {
			likers[key[0]] = true
		}
	}
	return likers, nil
}

func (r *fakeRepository) UpsertSwipe(_ context.Context, actorID, targetID int64, action string) error {
	r.swipes[[2]int64{actorID, targetID}] = action
	return nil
}

func (r *fakeRepository) HasLiked(_ context.Context, actorID, targetID int64) (bool, error) {
	return r.swipes[[2]int64{actorID, targetID}] == ActionLike, nil
}

func (r *fakeRepository) EnsureMatch(_ context.Context, userA, userB int64) (bool, error) {
	pair := [2]int64{userA, userB}
	if pair[0] > pair[1] {
		pair[0], pair[1] = pair[1], pair[0]
	}
	if r.matches[pair] {
		return false, nil
	}
	r.matches[pair] = true
	return true, nil
}

func (r *fakeRepository) GetUserMatches(_ context.Context, userID int64) ([]*MatchSummary, error) {
	return nil, nil
}

type fakeNotifier struct {
	calls [][2]int64
}

func (n *fakeNotifier) NotifyMatch(_ context.Context, userA, userB int64) {
	n.calls = append(n.calls, [2]int64{userA, userB})
}

func TestSwipeRejectsSelf(t *testing.T) {
	repo := newFakeRepository(testProfile(1))
	svc := NewService(repo, nil)

	_, err := svc.Swipe(context.Background(), 1, &SwipeRequest{TargetID: 1, Action: ActionLike})
	assert.ErrorIs(t, err, ErrSelfSwipe)
	assert.Empty(t, repo.swipes)
}

func TestSwipeRejectsUnknownTarget(t *testing.T) {
	repo := newFakeRepository(testProfile(1))
	svc := NewService(repo, nil)

	_, err := svc.Swipe(context.Background(), 1, &SwipeRequest{TargetID: 99, Action: ActionLike})
	assert.ErrorIs(t, err, ErrTargetNotFound)
	assert.Empty(t, repo.swipes)
}

func TestSwipeRejectsInvalidAction(t *testing.T) {
	repo := newFakeRepository(testProfile(1), testProfile(2))
	svc := NewService(repo, nil)

	_, err := svc.Swipe(context.Background(), 1, &SwipeRequest{TargetID: 2, Action: "SUPERLIKE"})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestSwipeMutualLikeCreatesOneMatch(t *testing.T) {
	repo := newFakeRepository(testProfile(1), testProfile(2))
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)
	ctx := context.Background()

	resp, err := svc.Swipe(ctx, 1, &SwipeRequest{TargetID: 2, Action: ActionLike})
	require.NoError(t, err)
	assert.False(t, resp.IsMatch)
	assert.Empty(t, repo.matches)

	resp, err = svc.Swipe(ctx, 2, &SwipeRequest{TargetID: 1, Action: ActionLike})
	require.NoError(t, err)
	assert.True(t, resp.IsMatch)
	assert.Len(t, repo.matches, 1)
	assert.True(t, repo.matches[[2]int64{1, 2}])
	assert.Len(t, notifier.calls, 1)
}

func TestSwipeRepeatedLikeIsIdempotent(t *testing.T) {
	repo := newFakeRepository(testProfile(1), testProfile(2))
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)
	ctx := context.Background()

	_, err := svc.Swipe(ctx, 1, &SwipeRequest{TargetID: 2, Action: ActionLike})
	require.NoError(t, err)
	_, err = svc.Swipe(ctx, 2, &SwipeRequest{TargetID: 1, Action: ActionLike})
	require.NoError(t, err)

	// The same like again still reports the match, creates nothing new
	// and does not re-notify.
	resp, err := svc.Swipe(ctx, 1, &SwipeRequest{TargetID: 2, Action: ActionLike})
	require.NoError(t, err)
	assert.True(t, resp.IsMatch)
	assert.Len(t, repo.matches, 1)
	assert.Len(t, notifier.calls, 1)
}

func TestSwipePassNeverMatches(t *testing.T) {
	repo := newFakeRepository(testProfile(1), testProfile(2))
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Swipe(ctx, 2, &SwipeRequest{TargetID: 1, Action: ActionLike})
	require.NoError(t, err)

	resp, err := svc.Swipe(ctx, 1, &SwipeRequest{TargetID: 2, Action: ActionPass})
	require.NoError(t, err)
	assert.False(t, resp.IsMatch)
	assert.Empty(t, repo.matches)
}

func TestSwipeOverwritesInPlace(t *testing.T) {
	repo := newFakeRepository(testProfile(1), testProfile(2))
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Swipe(ctx, 1, &SwipeRequest{TargetID: 2, Action: ActionPass})
	require.NoError(t, err)
	assert.Equal(t, ActionPass, repo.swipes[[2]int64{1, 2}])

	_, err = svc.Swipe(ctx, 1, &SwipeRequest{TargetID: 2, Action: ActionLike})
	require.NoError(t, err)
	assert.Equal(t, ActionLike, repo.swipes[[2]int64{1, 2}])
	assert.Len(t, repo.swipes, 1)
}

func TestBuildFeedExcludesSwipedAndRanks(t *testing.T) {
	requester := testProfile(1, func(p *Profile) { p.Tags = []string{"python", "fitness"} })
	similar := testProfile(2, func(p *Profile) { p.Tags = []string{"python", "fitness"} })
	dissimilar := testProfile(3, func(p *Profile) { p.Tags = []string{"opera"} })
	swiped := testProfile(4, func(p *Profile) { p.Tags = []string{"python", "fitness"} })
	admin := testProfile(5, func(p *Profile) {
		p.Role = "admin"
		p.Tags = []string{"python", "fitness"}
	})

	repo := newFakeRepository(requester, similar, dissimilar, swiped, admin)
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Swipe(ctx, 1, &SwipeRequest{TargetID: 4, Action: ActionPass})
	require.NoError(t, err)

	entries, err := svc.BuildFeed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].User.ID)
	assert.Equal(t, int64(3), entries[1].User.ID)
}

func TestBuildFeedUnknownRequester(t *testing.T) {
	svc := NewService(newFakeRepository(), nil)
	_, err := svc.BuildFeed(context.Background(), 42)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
