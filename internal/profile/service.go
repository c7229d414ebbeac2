// internal/profile/service.go

package profile

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/ember-dating/ember-backend/internal/embedding"
	"github.com/ember-dating/ember-backend/internal/geocode"
)

var ErrPartialLocation = errors.New("latitude and longitude must be provided together")

const (
	embeddingRefreshTimeout = 30 * time.Second
	geocodeRefreshTimeout   = 10 * time.Second
)

// Service defines the profile business logic
type Service interface {
	GetProfile(ctx context.Context, userID int64) (*UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*UserProfile, error)
	RefreshLocation(userID int64, lat, lon float64)
}

type service struct {
	repo     Repository
	embedder embedding.Client // optional
	geocoder geocode.Resolver // optional
}

// NewService creates the profile service. embedder and geocoder may be
// nil, in which case the corresponding refreshes are skipped.
func NewService(repo Repository, embedder embedding.Client, geocoder geocode.Resolver) Service {
	return &service{repo: repo, embedder: embedder, geocoder: geocoder}
}

// GetProfile loads the caller's profile
func (s *service) GetProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update. A bio change kicks off an
// embedding refresh and a coordinate change a geocode refresh, both in
// the background; neither can fail the update itself.
func (s *service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*UserProfile, error) {
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, ErrPartialLocation
	}

	prev, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil && *req.Bio != prev.Bio {
		go s.refreshEmbedding(userID, *req.Bio)
	}
	if req.Latitude != nil && req.Longitude != nil {
		s.RefreshLocation(userID, *req.Latitude, *req.Longitude)
	}

	return updated, nil
}

// RefreshLocation resolves city/country for the coordinates in the
// background
func (s *service) RefreshLocation(userID int64, lat, lon float64) {
	go s.refreshLocation(userID, lat, lon)
}

// refreshEmbedding recomputes the stored bio embedding. It runs on a
// detached context: the HTTP request that triggered it has usually
// completed by the time the model responds. On failure the previous
// vector stays in place. An empty bio clears the vector deliberately.
func (s *service) refreshEmbedding(userID int64, bio string) {
	ctx, cancel := context.WithTimeout(context.Background(), embeddingRefreshTimeout)
	defer cancel()

	text := strings.TrimSpace(bio)
	if text == "" {
		if err := s.repo.SetEmbedding(ctx, userID, nil); err != nil {
			log.Printf("Failed to clear embedding for user %d: %v", userID, err)
		}
		return
	}

	if s.embedder == nil {
		return
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		log.Printf("Embedding refresh failed for user %d: %v", userID, err)
		return
	}

	if err := s.repo.SetEmbedding(ctx, userID, vector); err != nil {
		log.Printf("Failed to store embedding for user %d: %v", userID, err)
	}
}

func (s *service) refreshLocation(userID int64, lat, lon float64) {
	if s.geocoder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), geocodeRefreshTimeout)
	defer cancel()

	loc, err := s.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		log.Printf("Geocode refresh failed for user %d: %v", userID, err)
		return
	}

	if err := s.repo.SetLocationNames(ctx, userID, loc.City, loc.Country); err != nil {
		log.Printf("Failed to store location names for user %d: %v", userID, err)
	}
}
