// internal/auth/service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ember-dating/ember-backend/internal/common/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// LocationRefresher is told about fresh coordinates so the owning
// package can resolve city/country in the background.
type LocationRefresher interface {
	RefreshLocation(userID int64, lat, lon float64)
}

// Service defines the auth business logic
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

type service struct {
	repo               Repository
	locations          LocationRefresher // optional
	jwtSecret          string
	bcryptCost         int
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewService creates the auth service. locations may be nil.
func NewService(repo Repository, locations LocationRefresher, jwtSecret string, bcryptCost int, accessExpiry, refreshExpiry time.Duration) Service {
	return &service{
		repo:               repo,
		locations:          locations,
		jwtSecret:          jwtSecret,
		bcryptCost:         bcryptCost,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
	}
}

// Register creates an account and issues a token pair
func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.repo.CreateUser(ctx, user, req.Gender, req.Age, req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	if s.locations != nil && req.Latitude != nil && req.Longitude != nil {
		s.locations.RefreshLocation(user.ID, *req.Latitude, *req.Longitude)
	}

	return s.issueTokens(user)
}

// Login verifies credentials and issues a token pair
func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// GetUserByID loads an account
func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) issueTokens(user *User) (*AuthResponse, error) {
	access, err := utils.GenerateJWT(s.jwtSecret, user.ID, user.Username, utils.TokenTypeAccess, s.accessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := utils.GenerateJWT(s.jwtSecret, user.ID, user.Username, utils.TokenTypeRefresh, s.refreshTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
