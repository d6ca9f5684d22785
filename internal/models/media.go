package models

import (
	"time"

	"github.com/google/uuid"
)

// Uploaded file record. Filename is the generated on-disk name,
// Path is the public URL path the file is served under.
type MediaFile struct {
	ID           uuid.UUID
	OriginalName string
	Filename     string
	Path         string
	Size         int64
	CreatedAt    time.Time
}
