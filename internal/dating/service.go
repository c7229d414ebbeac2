// internal/dating/service.go
// Business logic for the feed, swipes and matches

package dating

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrSelfSwipe      = errors.New("cannot swipe on yourself")
	ErrTargetNotFound = errors.New("swipe target does not exist")
	ErrInvalidAction  = errors.New("action must be LIKE or PASS")
)

// MatchNotifier is told about freshly created matches. Implementations
// must not block the swipe path.
type MatchNotifier interface {
	NotifyMatch(ctx context.Context, userA, userB int64)
}

// Service defines the dating business logic
type Service interface {
	BuildFeed(ctx context.Context, userID int64) ([]*FeedEntry, error)
	Swipe(ctx context.Context, actorID int64, req *SwipeRequest) (*SwipeResponse, error)
	GetMatches(ctx context.Context, userID int64) ([]*MatchSummary, error)
}

type service struct {
	repo     Repository
	notifier MatchNotifier // optional
}

// NewService creates the dating service. notifier may be nil.
func NewService(repo Repository, notifier MatchNotifier) Service {
	return &service{repo: repo, notifier: notifier}
}

// BuildFeed loads the candidate pool, filters it against the requester's
// preferences and returns the ranked feed.
func (s *service) BuildFeed(ctx context.Context, userID int64) ([]*FeedEntry, error) {
	start := time.Now()
	feedRequestsTotal.Inc()

	requester, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.ListCandidates(ctx, userID, candidateCap)
	if err != nil {
		return nil, err
	}

	likedBy, err := s.repo.GetLikerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := FilterCandidates(requester, candidates)
	entries := RankCandidates(requester, filtered, likedBy)

	for _, e := range entries {
		feedScores.Observe(e.Score)
	}
	feedDuration.Observe(time.Since(start).Seconds())

	return entries, nil
}

// Swipe records the actor's verdict on the target. On a LIKE that
// completes a reciprocal pair it guarantees the match row exists; the
// response reports is_match whenever the reverse LIKE is present, no
// matter which request inserted the row.
func (s *service) Swipe(ctx context.Context, actorID int64, req *SwipeRequest) (*SwipeResponse, error) {
	if req.Action != ActionLike && req.Action != ActionPass {
		return nil, ErrInvalidAction
	}
	if req.TargetID == actorID {
		return nil, ErrSelfSwipe
	}

	exists, err := s.repo.ProfileExists(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTargetNotFound
	}

	if err := s.repo.UpsertSwipe(ctx, actorID, req.TargetID, req.Action); err != nil {
		return nil, err
	}
	swipesTotal.WithLabelValues(req.Action).Inc()

	if req.Action != ActionLike {
		return &SwipeResponse{IsMatch: false}, nil
	}

	reciprocal, err := s.repo.HasLiked(ctx, req.TargetID, actorID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		return &SwipeResponse{IsMatch: false}, nil
	}

	created, err := s.repo.EnsureMatch(ctx, actorID, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure match: %w", err)
	}
	if created {
		matchesTotal.Inc()
		if s.notifier != nil {
			s.notifier.NotifyMatch(ctx, actorID, req.TargetID)
		}
	}

	return &SwipeResponse{IsMatch: true}, nil
}

// GetMatches returns the user's active matches
func (s *service) GetMatches(ctx context.Context, userID int64) ([]*MatchSummary, error) {
	return s.repo.GetUserMatches(ctx, userID)
}
