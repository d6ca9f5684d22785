package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mpetrenko/craftsite/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, hashedPassword string, role models.Role) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Replace stored password hash
	// If user not found must return apperrors.ErrUserNotFound
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Persist issued refresh token
	Save(ctx context.Context, token models.RefreshToken) error

	// Return the token record by exact token value
	// Returns the record even if expired: liveness is the caller's check.
	// If no record exists must return apperrors.ErrRefreshTokenNotFound
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)
}

// Fields of a section an update may touch, nil means keep current value
type UpdateSectionParams struct {
	Data      map[string]any
	Position  *int
	Published *bool
}

type SectionRepo interface {
	// Create section, apperrors.ErrSectionExists on duplicate key
	Create(ctx context.Context, section models.Section) (models.Section, error)

	// All sections ordered by position
	List(ctx context.Context) ([]models.Section, error)

	// apperrors.ErrSectionNotFound when the key is unknown
	GetByKey(ctx context.Context, key string) (models.Section, error)
	UpdateByKey(ctx context.Context, key string, params UpdateSectionParams) (models.Section, error)
	DeleteByKey(ctx context.Context, key string) error

	// Set position of a single section by id
	SetPosition(ctx context.Context, id uuid.UUID, position int) error
}

type UpdateNavItemParams struct {
	Label    *string
	Path     *string
	Position *int
	Visible  *bool
}

type NavItemRepo interface {
	Create(ctx context.Context, item models.NavItem) (models.NavItem, error)

	// Items ordered by position; visibleOnly limits to the public set
	List(ctx context.Context, visibleOnly bool) ([]models.NavItem, error)

	// apperrors.ErrNavItemNotFound when the id is unknown
	Update(ctx context.Context, id uuid.UUID, params UpdateNavItemParams) (models.NavItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ContactMessageRepo interface {
	Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error)

	// Newest first
	List(ctx context.Context) ([]models.ContactMessage, error)

	// apperrors.ErrMessageNotFound when the id is unknown
	MarkRead(ctx context.Context, id uuid.UUID) (models.ContactMessage, error)

	UnreadCount(ctx context.Context) (int64, error)
}

type MediaFileRepo interface {
	Save(ctx context.Context, file models.MediaFile) (models.MediaFile, error)
	List(ctx context.Context) ([]models.MediaFile, error)

	// apperrors.ErrFileNotFound when the filename is unknown
	GetByFilename(ctx context.Context, filename string) (models.MediaFile, error)
	DeleteByFilename(ctx context.Context, filename string) error
}

// Storage aggregates all repositories over one connection or transaction
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Section() SectionRepo
	NavItem() NavItemRepo
	ContactMessage() ContactMessageRepo
	MediaFile() MediaFileRepo

	// Run fn within a database transaction
	InTx(ctx context.Context, fn func(s Storage) error) error
}
