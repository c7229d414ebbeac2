// internal/geocode/resolver.go
// Reverse geocoding with a Redis cache in front

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-redis/redis/v8"
)

// Location is a resolved place name pair
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Resolver turns coordinates into place names
type Resolver interface {
	Reverse(ctx context.Context, lat, lon float64) (*Location, error)
}

// HTTPResolver calls a reverse-geocoding HTTP service
type HTTPResolver struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPResolver creates a resolver against baseURL, which must expose
// GET /reverse?lat=..&lon=..
func NewHTTPResolver(baseURL string) *HTTPResolver {
	return &HTTPResolver{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Reverse resolves coordinates to a city and country
func (r *HTTPResolver) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	endpoint := fmt.Sprintf("%s/reverse?lat=%s&lon=%s",
		r.baseURL,
		url.QueryEscape(fmt.Sprintf("%.6f", lat)),
		url.QueryEscape(fmt.Sprintf("%.6f", lon)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode service returned status %d", resp.StatusCode)
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	return &loc, nil
}

// CachedResolver memoizes reverse lookups in Redis. Coordinates are
// keyed at four decimal places, roughly 11 meters.
type CachedResolver struct {
	inner Resolver
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedResolver wraps inner with a Redis cache
func NewCachedResolver(inner Resolver, client *redis.Client, ttl time.Duration) *CachedResolver {
	return &CachedResolver{inner: inner, redis: client, ttl: ttl}
}

// Reverse resolves coordinates, serving from cache when possible
func (c *CachedResolver) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	key := fmt.Sprintf("geocode:%.4f:%.4f", lat, lon)

	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var loc Location
		if err := json.Unmarshal([]byte(cached), &loc); err == nil {
			return &loc, nil
		}
		// Corrupt cache entry, fall through to the resolver
	} else if err != redis.Nil {
		log.Printf("Geocode cache read failed: %v", err)
	}

	loc, err := c.inner.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(loc); err == nil {
		if err := c.redis.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			log.Printf("Geocode cache write failed: %v", err)
		}
	}
	return loc, nil
}
