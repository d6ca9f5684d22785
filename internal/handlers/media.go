package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/handlers/render"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/service/media"
)

type mediaService interface {
	Save(ctx context.Context, originalName string, size int64, r io.Reader) (models.MediaFile, error)
	List(ctx context.Context) ([]models.MediaFile, error)
	Delete(ctx context.Context, filename string) error
}

type MediaHandler struct {
	media mediaService
}

func NewMedia(mediaSvc mediaService) *MediaHandler {
	return &MediaHandler{media: mediaSvc}
}

type MediaFileResponse struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	Filename     string    `json:"filename"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func mediaFileResponse(f models.MediaFile) MediaFileResponse {
	return MediaFileResponse{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		Filename:     f.Filename,
		Path:         f.Path,
		Size:         f.Size,
		CreatedAt:    f.CreatedAt,
	}
}

// Upload accepts a multipart form with a single "file" field
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxFileSize+1<<20)

	if err := r.ParseMultipartForm(media.MaxFileSize); err != nil {
		render.ServiceError(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	src, header, err := r.FormFile("file")
	if err != nil {
		render.ServiceError(w, "File field is required", http.StatusBadRequest)
		return
	}
	defer src.Close() // nolint:errcheck

	file, err := h.media.Save(r.Context(), header.Filename, header.Size, src)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrFileTypeRejected):
			render.ServiceError(w, "File type not allowed", http.StatusUnsupportedMediaType)
		case errors.Is(err, apperrors.ErrFileTooLarge):
			render.ServiceError(w, "File too large", http.StatusRequestEntityTooLarge)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, mediaFileResponse(file), http.StatusCreated)
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.media.List(r.Context())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]MediaFileResponse, 0, len(files))
	for _, f := range files {
		response = append(response, mediaFileResponse(f))
	}
	render.JSON(w, response)
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	type DeleteFileResponse struct {
		Deleted bool `json:"deleted"`
	}

	if err := h.media.Delete(r.Context(), r.PathValue("filename")); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrFileNotFound):
			render.ServiceError(w, "File not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, DeleteFileResponse{Deleted: true})
}
