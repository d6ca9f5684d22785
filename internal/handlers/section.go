package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/handlers/render"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/repository"
)

type contentService interface {
	CreateSection(ctx context.Context, section models.Section) (models.Section, error)
	ListSections(ctx context.Context) ([]models.Section, error)
	ListPublishedSections(ctx context.Context) ([]models.Section, error)
	GetSection(ctx context.Context, key string) (models.Section, error)
	UpdateSection(ctx context.Context, key string, params repository.UpdateSectionParams) (models.Section, error)
	DeleteSection(ctx context.Context, key string) error
	ReorderSections(ctx context.Context, orders []models.SectionOrder) error

	CreateNavItem(ctx context.Context, item models.NavItem) (models.NavItem, error)
	ListNavItems(ctx context.Context, visibleOnly bool) ([]models.NavItem, error)
	UpdateNavItem(ctx context.Context, id uuid.UUID, params repository.UpdateNavItemParams) (models.NavItem, error)
	DeleteNavItem(ctx context.Context, id uuid.UUID) error
}

type SectionHandler struct {
	content contentService
}

func NewSection(content contentService) *SectionHandler {
	return &SectionHandler{content: content}
}

type SectionResponse struct {
	ID        uuid.UUID      `json:"id"`
	Key       string         `json:"key"`
	Data      map[string]any `json:"data"`
	Position  int            `json:"position"`
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func sectionResponse(s models.Section) SectionResponse {
	return SectionResponse{
		ID:        s.ID,
		Key:       s.Key,
		Data:      s.Data,
		Position:  s.Position,
		Published: s.Published,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	sections, err := h.content.ListSections(r.Context())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]SectionResponse, 0, len(sections))
	for _, s := range sections {
		response = append(response, sectionResponse(s))
	}
	render.JSON(w, response)
}

// ListPublished answers the public site: published sections only
func (h *SectionHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	sections, err := h.content.ListPublishedSections(r.Context())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]SectionResponse, 0, len(sections))
	for _, s := range sections {
		response = append(response, sectionResponse(s))
	}
	render.JSON(w, response)
}

func (h *SectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	section, err := h.content.GetSection(r.Context(), r.PathValue("key"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSectionNotFound):
			render.ServiceError(w, "Section not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, sectionResponse(section))
}

func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	type CreateSectionRequest struct {
		Key       string         `json:"key" validate:"required,min=1,max=100"`
		Data      map[string]any `json:"data" validate:"required"`
		Position  int            `json:"position"`
		Published bool           `json:"published"`
	}

	data, err := render.BindAndValidate[CreateSectionRequest](w, r)
	if err != nil {
		return
	}

	section, err := h.content.CreateSection(r.Context(), models.Section{
		Key:       data.Key,
		Data:      data.Data,
		Position:  data.Position,
		Published: data.Published,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSectionExists):
			render.ServiceError(w, "Section already exists", http.StatusConflict)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, sectionResponse(section), http.StatusCreated)
}

func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	type UpdateSectionRequest struct {
		Data      map[string]any `json:"data"`
		Position  *int           `json:"position"`
		Published *bool          `json:"published"`
	}

	data, err := render.BindAndValidate[UpdateSectionRequest](w, r)
	if err != nil {
		return
	}

	section, err := h.content.UpdateSection(r.Context(), r.PathValue("key"), repository.UpdateSectionParams{
		Data:      data.Data,
		Position:  data.Position,
		Published: data.Published,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSectionNotFound):
			render.ServiceError(w, "Section not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, sectionResponse(section))
}

func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	type DeleteSectionResponse struct {
		Deleted bool `json:"deleted"`
	}

	err := h.content.DeleteSection(r.Context(), r.PathValue("key"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSectionNotFound):
			render.ServiceError(w, "Section not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, DeleteSectionResponse{Deleted: true})
}

func (h *SectionHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	type ReorderRequest struct {
		Sections []models.SectionOrder `json:"sections" validate:"required,min=1"`
	}
	type ReorderResponse struct {
		Message string `json:"message"`
	}

	data, err := render.BindAndValidate[ReorderRequest](w, r)
	if err != nil {
		return
	}

	if err := h.content.ReorderSections(r.Context(), data.Sections); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSectionNotFound):
			render.ServiceError(w, "Section not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, ReorderResponse{Message: "Sections reordered successfully"})
}
