package content

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/repository"
)

// ContentService manages sections and navigation items
type ContentService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) (*ContentService, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}
	return &ContentService{storage: storage}, nil
}

func (s *ContentService) CreateSection(ctx context.Context, section models.Section) (models.Section, error) {
	if section.Data == nil {
		section.Data = map[string]any{}
	}
	return s.storage.Section().Create(ctx, section)
}

func (s *ContentService) ListSections(ctx context.Context) ([]models.Section, error) {
	return s.storage.Section().List(ctx)
}

// ListPublishedSections returns only sections the public site may render
func (s *ContentService) ListPublishedSections(ctx context.Context) ([]models.Section, error) {
	sections, err := s.storage.Section().List(ctx)
	if err != nil {
		return nil, err
	}

	published := sections[:0]
	for _, section := range sections {
		if section.Published {
			published = append(published, section)
		}
	}
	return published, nil
}

func (s *ContentService) GetSection(ctx context.Context, key string) (models.Section, error) {
	return s.storage.Section().GetByKey(ctx, key)
}

func (s *ContentService) UpdateSection(ctx context.Context, key string, params repository.UpdateSectionParams) (models.Section, error) {
	return s.storage.Section().UpdateByKey(ctx, key, params)
}

func (s *ContentService) DeleteSection(ctx context.Context, key string) error {
	return s.storage.Section().DeleteByKey(ctx, key)
}

// ReorderSections applies all position changes in one transaction
// so a half-applied reorder never becomes visible
func (s *ContentService) ReorderSections(ctx context.Context, orders []models.SectionOrder) error {
	return s.storage.InTx(ctx, func(tx repository.Storage) error {
		for _, o := range orders {
			if err := tx.Section().SetPosition(ctx, o.ID, o.Position); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ContentService) CreateNavItem(ctx context.Context, item models.NavItem) (models.NavItem, error) {
	return s.storage.NavItem().Create(ctx, item)
}

func (s *ContentService) ListNavItems(ctx context.Context, visibleOnly bool) ([]models.NavItem, error) {
	return s.storage.NavItem().List(ctx, visibleOnly)
}

func (s *ContentService) UpdateNavItem(ctx context.Context, id uuid.UUID, params repository.UpdateNavItemParams) (models.NavItem, error) {
	return s.storage.NavItem().Update(ctx, id, params)
}

func (s *ContentService) DeleteNavItem(ctx context.Context, id uuid.UUID) error {
	return s.storage.NavItem().Delete(ctx, id)
}
