package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/handlers/render"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/repository"
)

type NavigationHandler struct {
	content contentService
}

func NewNavigation(content contentService) *NavigationHandler {
	return &NavigationHandler{content: content}
}

type NavItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Path      string    `json:"path"`
	Position  int       `json:"position"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func navItemResponse(n models.NavItem) NavItemResponse {
	return NavItemResponse{
		ID:        n.ID,
		Label:     n.Label,
		Path:      n.Path,
		Position:  n.Position,
		Visible:   n.Visible,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// List answers the public set: visible items only
func (h *NavigationHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.ListNavItems(r.Context(), true)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]NavItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, navItemResponse(item))
	}
	render.JSON(w, response)
}

// ListAll answers the admin set, hidden items included
func (h *NavigationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.ListNavItems(r.Context(), false)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]NavItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, navItemResponse(item))
	}
	render.JSON(w, response)
}

func (h *NavigationHandler) Create(w http.ResponseWriter, r *http.Request) {
	type CreateNavItemRequest struct {
		Label    string `json:"label" validate:"required,min=1,max=100"`
		Path     string `json:"path" validate:"required,min=1,max=200"`
		Position int    `json:"position"`
		Visible  *bool  `json:"visible"`
	}

	data, err := render.BindAndValidate[CreateNavItemRequest](w, r)
	if err != nil {
		return
	}

	visible := true
	if data.Visible != nil {
		visible = *data.Visible
	}

	item, err := h.content.CreateNavItem(r.Context(), models.NavItem{
		Label:    data.Label,
		Path:     data.Path,
		Position: data.Position,
		Visible:  visible,
	})
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSONWithStatus(w, navItemResponse(item), http.StatusCreated)
}

func (h *NavigationHandler) Update(w http.ResponseWriter, r *http.Request) {
	type UpdateNavItemRequest struct {
		Label    *string `json:"label"`
		Path     *string `json:"path"`
		Position *int    `json:"position"`
		Visible  *bool   `json:"visible"`
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Navigation item not found", http.StatusNotFound)
		return
	}

	data, err := render.BindAndValidate[UpdateNavItemRequest](w, r)
	if err != nil {
		return
	}

	item, err := h.content.UpdateNavItem(r.Context(), id, repository.UpdateNavItemParams{
		Label:    data.Label,
		Path:     data.Path,
		Position: data.Position,
		Visible:  data.Visible,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNavItemNotFound):
			render.ServiceError(w, "Navigation item not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, navItemResponse(item))
}

func (h *NavigationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	type DeleteNavItemResponse struct {
		Deleted bool `json:"deleted"`
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Navigation item not found", http.StatusNotFound)
		return
	}

	if err := h.content.DeleteNavItem(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNavItemNotFound):
			render.ServiceError(w, "Navigation item not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, DeleteNavItemResponse{Deleted: true})
}
