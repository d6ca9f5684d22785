package postgres

import (
	"context"
	"fmt"

	"github.com/mpetrenko/craftsite/internal/repository"
)

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) Refresh() repository.RefreshTokenRepo {
	return &RefreshTokenRepo{DB: s.db}
}

func (s *Storage) Section() repository.SectionRepo {
	return &SectionRepo{DB: s.db}
}

func (s *Storage) NavItem() repository.NavItemRepo {
	return &NavItemRepo{DB: s.db}
}

func (s *Storage) ContactMessage() repository.ContactMessageRepo {
	return &ContactMessageRepo{DB: s.db}
}

func (s *Storage) MediaFile() repository.MediaFileRepo {
	return &MediaFileRepo{DB: s.db}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db tx error: %w", err)
	}

	defer func() {
		switch err {
		case nil:
			err = tx.Commit(ctx)
		default:
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(NewStorage(tx))

	return err
}
