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
)

type contactService interface {
	Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error)
	List(ctx context.Context) ([]models.ContactMessage, error)
	MarkRead(ctx context.Context, id uuid.UUID) (models.ContactMessage, error)
	UnreadCount(ctx context.Context) (int64, error)
}

type ContactHandler struct {
	contact contactService
}

func NewContact(contact contactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

type ContactMessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func contactMessageResponse(m models.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Message:   m.Message,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

// Create accepts a submission from the public contact form
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	type CreateMessageRequest struct {
		Name    string `json:"name" validate:"required,min=1,max=100"`
		Email   string `json:"email" validate:"required,email,max=200"`
		Phone   string `json:"phone" validate:"max=30"`
		Message string `json:"message" validate:"required,min=1,max=5000"`
	}

	data, err := render.BindAndValidate[CreateMessageRequest](w, r)
	if err != nil {
		return
	}

	msg, err := h.contact.Create(r.Context(), models.ContactMessage{
		Name:    data.Name,
		Email:   data.Email,
		Phone:   data.Phone,
		Message: data.Message,
	})
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSONWithStatus(w, contactMessageResponse(msg), http.StatusCreated)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contact.List(r.Context())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]ContactMessageResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, contactMessageResponse(m))
	}
	render.JSON(w, response)
}

func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Message not found", http.StatusNotFound)
		return
	}

	msg, err := h.contact.MarkRead(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMessageNotFound):
			render.ServiceError(w, "Message not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, contactMessageResponse(msg))
}

func (h *ContactHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	type UnreadCountResponse struct {
		Count int64 `json:"count"`
	}

	count, err := h.contact.UnreadCount(r.Context())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, UnreadCountResponse{Count: count})
}
