package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/repository"
)

// ContactService is the inbox for messages sent through the public contact form
type ContactService struct {
	messageRepo repository.ContactMessageRepo
}

func NewService(messageRepo repository.ContactMessageRepo) (*ContactService, error) {
	if messageRepo == nil {
		return nil, errors.New("message repo must not be nil")
	}
	return &ContactService{messageRepo: messageRepo}, nil
}

func (s *ContactService) Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error) {
	return s.messageRepo.Create(ctx, msg)
}

func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	return s.messageRepo.List(ctx)
}

func (s *ContactService) MarkRead(ctx context.Context, id uuid.UUID) (models.ContactMessage, error) {
	return s.messageRepo.MarkRead(ctx, id)
}

func (s *ContactService) UnreadCount(ctx context.Context) (int64, error) {
	return s.messageRepo.UnreadCount(ctx)
}
