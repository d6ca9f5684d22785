package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// Deliberately covers every refresh failure: bad signature, expired
	// signature, unknown or expired stored token, vanished user.
	// Callers must not learn which check failed.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	ErrSectionNotFound  = errors.New("section not found")
	ErrSectionExists    = errors.New("section already exists")
	ErrNavItemNotFound  = errors.New("navigation item not found")
	ErrMessageNotFound  = errors.New("contact message not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrFileTypeRejected = errors.New("file type not allowed")
	ErrFileTooLarge     = errors.New("file too large")

	// Client side: refresh itself failed, local session must be dropped
	ErrSessionExpired = errors.New("session expired")
)
