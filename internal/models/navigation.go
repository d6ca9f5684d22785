package models

import (
	"time"

	"github.com/google/uuid"
)

type NavItem struct {
	ID        uuid.UUID
	Label     string
	Path      string
	Position  int
	Visible   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
