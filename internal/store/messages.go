package store

import (
	"context"
	"database/sql"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/models"
)

const messageColumns = `id, sender_id, sender_name, sender_office, recipient_id, recipient_office,
	subject, content, priority, read, created_at`

type MessageRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewMessageRepository(db *sql.DB, log logger.Logger) *MessageRepository {
	return &MessageRepository{db: db, logger: logger.ForComponent(log, "message-store")}
}

func (r *MessageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		msg.ID, msg.SenderID, msg.SenderName, msg.SenderOffice, msg.RecipientID, msg.RecipientOffice,
		msg.Subject, msg.Content, msg.Priority, msg.Read, msg.CreatedAt,
	)
	if err != nil {
		return dbError("create message", err)
	}
	writeAudit(ctx, r.db, r.logger, "message_sent", "message", msg.ID, msg.SenderID, map[string]interface{}{
		"recipientId": msg.RecipientID,
		"priority":    msg.Priority,
	})
	return nil
}

func (r *MessageRepository) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)

	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("message", id)
	}
	if err != nil {
		return nil, dbError("get message", err)
	}
	return msg, nil
}

func (r *MessageRepository) ListReceived(ctx context.Context, recipientID string) ([]models.Message, error) {
	return r.list(ctx, "list received messages", `
		SELECT `+messageColumns+` FROM messages
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id DESC`, recipientID)
}

func (r *MessageRepository) ListSent(ctx context.Context, senderID string) ([]models.Message, error) {
	return r.list(ctx, "list sent messages", `
		SELECT `+messageColumns+` FROM messages
		WHERE sender_id = $1
		ORDER BY created_at DESC, id DESC`, senderID)
}

// MarkMessageRead sets read once; the flag never goes back to false.
func (r *MessageRepository) MarkMessageRead(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET read = TRUE WHERE id = $1 AND read = FALSE`, id)
	return dbError("mark message read", err)
}

func (r *MessageRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	out := []models.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, dbError(op, err)
		}
		out = append(out, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return out, nil
}

func scanMessage(s scanner) (*models.Message, error) {
	var (
		msg      models.Message
		priority string
	)
	err := s.Scan(
		&msg.ID, &msg.SenderID, &msg.SenderName, &msg.SenderOffice, &msg.RecipientID, &msg.RecipientOffice,
		&msg.Subject, &msg.Content, &priority, &msg.Read, &msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	msg.Priority = models.Priority(priority)
	msg.CreatedAt = msg.CreatedAt.UTC()
	return &msg, nil
}
