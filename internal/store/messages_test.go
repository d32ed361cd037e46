package store

import (
	"context"
	"testing"
	"time"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var messageColumnNames = []string{"id", "sender_id", "sender_name", "sender_office", "recipient_id", "recipient_office", "subject", "content", "priority", "read", "created_at"}

func TestMessageRepository_CreateMessage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db, logger.NewTestLogger(t))
	msg := &models.Message{
		ID:              "01HV6Z5T1J3Z0Q8J5W8D7F1K2M",
		SenderID:        "mon-1",
		SenderName:      "Hari KC",
		SenderOffice:    "Kaski DAO",
		RecipientID:     "off-1",
		RecipientOffice: ward10.Name,
		Subject:         "Backlog",
		Content:         "Please review",
		Priority:        models.PriorityUrgent,
		CreatedAt:       time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(msg.ID, "mon-1", "Hari KC", "Kaski DAO", "off-1", ward10.Name, "Backlog", "Please review", "urgent", false, msg.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("message_sent", "message", msg.ID, "mon-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.CreateMessage(context.Background(), msg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_GetAndList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db, logger.NewTestLogger(t))
	now := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM messages WHERE id = \$1`).WithArgs("m1").
		WillReturnRows(sqlmock.NewRows(messageColumnNames).
			AddRow("m1", "mon-1", "Hari KC", "Kaski DAO", "off-1", ward10.Name, "s", "c", "high", true, now))

	msg, err := repo.GetMessage(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, msg.Priority)
	assert.True(t, msg.Read)

	mock.ExpectQuery(`FROM messages WHERE id = \$1`).WithArgs("m2").WillReturnRows(sqlmock.NewRows(messageColumnNames))
	_, err = repo.GetMessage(context.Background(), "m2")
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))

	mock.ExpectQuery(`WHERE recipient_id = \$1\s+ORDER BY created_at DESC`).WithArgs("off-1").
		WillReturnRows(sqlmock.NewRows(messageColumnNames).
			AddRow("m3", "mon-1", "Hari KC", "Kaski DAO", "off-1", ward10.Name, "newer", "c", "low", false, now.Add(time.Hour)).
			AddRow("m1", "mon-1", "Hari KC", "Kaski DAO", "off-1", ward10.Name, "older", "c", "high", true, now))

	received, err := repo.ListReceived(context.Background(), "off-1")
	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.Equal(t, "m3", received[0].ID)

	mock.ExpectQuery(`WHERE sender_id = \$1`).WithArgs("nobody").WillReturnRows(sqlmock.NewRows(messageColumnNames))
	sent, err := repo.ListSent(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, sent)
	assert.Empty(t, sent)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_MarkMessageRead(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db, logger.NewTestLogger(t))

	mock.ExpectExec(`UPDATE messages SET read = TRUE WHERE id = \$1 AND read = FALSE`).
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkMessageRead(context.Background(), "m1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
