package models

import (
	"time"

	"github.com/google/uuid"
)

// Content section rendered by the public site.
// Key is the stable name ("hero", "services", ...) admin screens edit by.
// Data is a free-form JSON document owned by the frontend.
type Section struct {
	ID        uuid.UUID
	Key       string
	Data      map[string]any
	Position  int
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Position change for a single section, used by bulk reorder
type SectionOrder struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
}
