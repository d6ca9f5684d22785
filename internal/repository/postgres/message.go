package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/models"
)

type ContactMessageRepo struct {
	DB DBTX
}

const createMessage = `-- name: CreateContactMessage
INSERT INTO contact_messages (id, name, email, phone, message)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, email, phone, message, is_read, created_at
`

func (r *ContactMessageRepo) Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error) {
	id := msg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createMessage, id, msg.Name, msg.Email, msg.Phone, msg.Message)
	created, err := pgx.CollectOneRow(rows, rowToMessage)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const listMessages = `-- name: ListContactMessages
SELECT id, name, email, phone, message, is_read, created_at
FROM contact_messages
ORDER BY created_at DESC
`

func (r *ContactMessageRepo) List(ctx context.Context) ([]models.ContactMessage, error) {
	rows, _ := r.DB.Query(ctx, listMessages)
	messages, err := pgx.CollectRows(rows, rowToMessage)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return messages, nil
}

const markMessageRead = `-- name: MarkContactMessageRead
UPDATE contact_messages
SET is_read = true
WHERE id = $1
RETURNING id, name, email, phone, message, is_read, created_at
`

func (r *ContactMessageRepo) MarkRead(ctx context.Context, id uuid.UUID) (models.ContactMessage, error) {
	rows, _ := r.DB.Query(ctx, markMessageRead, id)
	msg, err := pgx.CollectOneRow(rows, rowToMessage)

	switch {
	case err == nil:
		return msg, nil
	case errors.Is(err, pgx.ErrNoRows):
		return msg, apperrors.ErrMessageNotFound
	default:
		return msg, fmt.Errorf("db error: %w", err)
	}
}

const unreadCount = `-- name: UnreadContactMessageCount
SELECT count(*) FROM contact_messages
WHERE NOT is_read
`

func (r *ContactMessageRepo) UnreadCount(ctx context.Context) (int64, error) {
	rows, _ := r.DB.Query(ctx, unreadCount)
	count, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func rowToMessage(row pgx.CollectableRow) (models.ContactMessage, error) {
	var m models.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Read, &m.CreatedAt)
	return m, err
}
