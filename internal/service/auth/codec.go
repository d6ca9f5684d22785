package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mpetrenko/craftsite/internal/models"
)

const defaultSigningMethod = "HS256"

// Claims is the fixed payload shape shared by both token classes.
// Access and refresh tokens differ only in secret and lifetime.
type Claims struct {
	jwt.RegisteredClaims
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// Codec signs and verifies compact JWT tokens.
// The secret is a call parameter so one codec serves both token classes.
type Codec struct {
	alg jwt.SigningMethod

	// overridable in tests to freeze time
	now func() time.Time
}

func NewCodec() Codec {
	return Codec{
		alg: jwt.GetSigningMethod(defaultSigningMethod),
		now: time.Now,
	}
}

// Sign issues a token for the user with an absolute expiry now+ttl
func (c Codec) Sign(user models.User, secret string, ttl time.Duration) (models.IssuedToken, error) {
	now := c.now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		c.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   user.ID.String(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			Username: user.Username,
			Role:     user.Role,
		},
	)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify validates signature and expiry and returns the embedded claims
func (c Codec) Verify(tokenString string, secret string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{c.alg.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("error while parsing or validating token. Err: %w", err)
	}

	return claims, nil
}
