package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/handlers/render"
	"github.com/mpetrenko/craftsite/internal/handlers/userctx"
	"github.com/mpetrenko/craftsite/internal/models"
)

type authService interface {
	// Register user, apperrors.ErrUserAlreadyExists if the username is taken
	Register(ctx context.Context, username string, password string, role models.Role) (models.User, error)

	// Login user, apperrors.ErrInvalidCredentials for unknown user or wrong password
	Login(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Exchange refresh token for a new access token
	// apperrors.ErrInvalidRefreshToken for any failure
	Refresh(ctx context.Context, refresh string) (models.IssuedToken, error)

	// Verify current password and store the new one
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword string, newPassword string) error
}

type AuthHandler struct {
	auth authService
}

func NewAuth(auth authService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type UserResponse struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Password string `json:"password" validate:"required,min=8"`
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		return
	}

	user, err := h.auth.Register(r.Context(), data.Username, data.Password, models.RoleUser)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, UserResponse{ID: user.ID, Username: user.Username, Role: user.Role}, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type LoginSuccessResponse struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.auth.Login(r.Context(), data.Username, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Invalid credentials", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, LoginSuccessResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshRequest struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	type RefreshSuccessResponse struct {
		AccessToken string `json:"access_token"`
	}

	data, err := render.BindAndValidate[RefreshRequest](w, r)
	if err != nil {
		return
	}

	access, err := h.auth.Refresh(r.Context(), data.RefreshToken)
	if err != nil {
		// One generic answer for every failure mode, no oracle for a token thief
		switch {
		case errors.Is(err, apperrors.ErrInvalidRefreshToken):
			render.ServiceError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, RefreshSuccessResponse{AccessToken: access.Value})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}
	type ChangePasswordResponse struct {
		Message string `json:"message"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := render.BindAndValidate[ChangePasswordRequest](w, r)
	if err != nil {
		return
	}

	err = h.auth.ChangePassword(r.Context(), user.ID, data.CurrentPassword, data.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Invalid credentials", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, ChangePasswordResponse{Message: "Password changed successfully"})
}
