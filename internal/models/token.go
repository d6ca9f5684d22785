package models

import (
	"time"

	"github.com/google/uuid"
)

// Server side record of an issued refresh token.
// Records are never deleted: expiry is judged against ExpiresAt on every use.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued by AuthService on register and login
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
