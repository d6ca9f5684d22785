package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/repository"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

type Config struct {
	// Secrets to sign token payloads
	// Distinct per token class so one leaked secret does not expose the other.
	// Both required to be set.
	AccessSecret  string
	RefreshSecret string

	// Access and refresh token lifetimes
	// If not set then defaults are used
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Hasher to use during registration or login
	// If not set then BcryptHasher is used
	Hasher PasswordHasher
}

// Auth service
// Orchestrates registration, login, refresh and password change
type AuthService struct {
	codec         Codec
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration

	hasher PasswordHasher

	userRepo    repository.UserRepo
	refreshRepo repository.RefreshTokenRepo
}

func NewService(cfg Config, userRepo repository.UserRepo, refreshRepo repository.RefreshTokenRepo) (*AuthService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh secrets must not be empty")
	}
	if userRepo == nil || refreshRepo == nil {
		return nil, errors.New("repos must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &AuthService{
		codec:         NewCodec(),
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		hasher:        hasher,
		userRepo:      userRepo,
		refreshRepo:   refreshRepo,
	}, nil
}

// Register creates a user with the hashed password
// Returns apperrors.ErrUserAlreadyExists if the username is taken
func (s *AuthService) Register(ctx context.Context, username string, password string, role models.Role) (models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	if role == "" {
		role = models.RoleUser
	}

	return s.userRepo.CreateUser(ctx, username, hash, role)
}

// Login checks credentials and issues a token pair
// Unknown user and wrong password both collapse to ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return pair, apperrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return pair, apperrors.ErrInvalidCredentials
	}

	access, err := s.codec.Sign(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return pair, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	refresh, err := s.codec.Sign(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return pair, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	// Only the refresh token is persisted, the access token lives in its signature
	err = s.refreshRepo.Save(ctx, models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     refresh.Value,
		CreatedAt: time.Now().Truncate(time.Second),
		ExpiresAt: refresh.ExpiresAt,
	})
	if err != nil {
		return pair, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token
// The refresh token itself is not rotated: it stays valid until its own expiry.
// Every failure collapses to ErrInvalidRefreshToken.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.IssuedToken, error) {
	var issued models.IssuedToken

	claims, err := s.codec.Verify(refresh, s.refreshSecret)
	if err != nil {
		return issued, apperrors.ErrInvalidRefreshToken
	}

	// The store is the authoritative revocation point, the signature expiry is not enough
	stored, err := s.refreshRepo.Get(ctx, refresh)
	if err != nil {
		return issued, apperrors.ErrInvalidRefreshToken
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return issued, apperrors.ErrInvalidRefreshToken
	}

	// Resolve by username rather than id to tolerate identity changes
	user, err := s.userRepo.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return issued, apperrors.ErrInvalidRefreshToken
	}

	issued, err = s.codec.Sign(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return issued, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	return issued, nil
}

// ChangePassword verifies the current password and stores the new hash
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword string, newPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return apperrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.HashedPassword, currentPassword); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password, error=%w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

// Authenticate verifies an access token and re-resolves the user
// Used by the request guard: a valid signature is not enough,
// the account must still exist.
func (s *AuthService) Authenticate(ctx context.Context, access string) (models.User, error) {
	claims, err := s.codec.Verify(access, s.accessSecret)
	if err != nil {
		return models.User{}, fmt.Errorf("error while verifying access token. Err: %w", err)
	}

	user, err := s.userRepo.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return models.User{}, fmt.Errorf("token owner not found. Err: %w", err)
	}

	return user, nil
}
