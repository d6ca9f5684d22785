package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/repository"
)

// MaxFileSize limits a single upload to 5 MiB
const MaxFileSize = 5 << 20

// Only image uploads are accepted
var allowedExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// MediaService stores uploaded files on disk under generated names
// and keeps a record per file in the database
type MediaService struct {
	dir       string
	publicDir string
	fileRepo  repository.MediaFileRepo
}

// NewService creates the upload directory if it does not exist.
// publicDir is the URL prefix the files are served under, e.g. "/uploads".
func NewService(dir string, publicDir string, fileRepo repository.MediaFileRepo) (*MediaService, error) {
	if fileRepo == nil {
		return nil, errors.New("file repo must not be nil")
	}
	if dir == "" {
		return nil, errors.New("upload dir must not be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error while creating upload dir. Err: %w", err)
	}

	return &MediaService{
		dir:       dir,
		publicDir: publicDir,
		fileRepo:  fileRepo,
	}, nil
}

// Dir returns the on-disk directory uploads are written to
func (s *MediaService) Dir() string {
	return s.dir
}

// Save checks extension and size, writes the file under a uuid name
// and persists its record. The original name is kept for display only.
func (s *MediaService) Save(ctx context.Context, originalName string, size int64, r io.Reader) (models.MediaFile, error) {
	var file models.MediaFile

	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return file, apperrors.ErrFileTypeRejected
	}
	if size > MaxFileSize {
		return file, apperrors.ErrFileTooLarge
	}

	filename := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return file, fmt.Errorf("error while creating file. Err: %w", err)
	}
	defer dst.Close() // nolint:errcheck

	// Copy one byte over the cap to catch senders that understate size
	written, err := io.Copy(dst, io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		_ = os.Remove(dst.Name())
		return file, fmt.Errorf("error while writing file. Err: %w", err)
	}
	if written > MaxFileSize {
		_ = os.Remove(dst.Name())
		return file, apperrors.ErrFileTooLarge
	}

	file, err = s.fileRepo.Save(ctx, models.MediaFile{
		OriginalName: originalName,
		Filename:     filename,
		Path:         path.Join(s.publicDir, filename),
		Size:         written,
	})
	if err != nil {
		_ = os.Remove(dst.Name())
		return file, err
	}

	return file, nil
}

func (s *MediaService) List(ctx context.Context) ([]models.MediaFile, error) {
	return s.fileRepo.List(ctx)
}

// Delete removes the record and the file on disk
// A missing disk file is not an error: the record is what matters
func (s *MediaService) Delete(ctx context.Context, filename string) error {
	// Look the record up first so path traversal in filename never reaches the disk
	file, err := s.fileRepo.GetByFilename(ctx, filename)
	if err != nil {
		return err
	}

	if err := s.fileRepo.DeleteByFilename(ctx, file.Filename); err != nil {
		return err
	}

	err = os.Remove(filepath.Join(s.dir, file.Filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error while removing file. Err: %w", err)
	}

	return nil
}
