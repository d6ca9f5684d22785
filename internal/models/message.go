package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
