// Package messaging implements directed, append-only messages between office accounts.
package messaging

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/common/metrics"
	"nagarik-sewa/internal/models"
)

// Store persists messages. Get returns a NOT_FOUND error for unknown ids.
type Store interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	ListReceived(ctx context.Context, recipientID string) ([]models.Message, error)
	ListSent(ctx context.Context, senderID string) ([]models.Message, error)
	MarkMessageRead(ctx context.Context, id string) error
}

// Directory resolves recipients. GetAccount returns a NOT_FOUND error for unknown ids.
type Directory interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListStaff(ctx context.Context) ([]models.Account, error)
}

// SendRequest is what the sender supplies. RecipientOffice, when set, must name the recipient's office.
type SendRequest struct {
	RecipientID     string
	RecipientOffice string
	Subject         string
	Content         string
	Priority        models.Priority
}

type Service struct {
	store     Store
	directory Directory
	logger    logger.Logger
	now       func() time.Time
}

func NewService(store Store, directory Directory, log logger.Logger) *Service {
	return &Service{
		store:     store,
		directory: directory,
		logger:    logger.ForComponent(log, "messaging"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Send stores a new unread message from sender. Citizens cannot send.
func (s *Service) Send(ctx context.Context, sender models.Identity, req SendRequest) (*models.Message, error) {
	office, ok := models.OfficeOf(sender.Role)
	if !ok {
		return nil, errors.NewForbiddenError("only office accounts can send messages")
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, errors.NewValidationError("subject", "Subject is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.NewValidationError("content", "Content is required")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, errors.NewValidationError("priority", "Priority must be low, medium, high or urgent")
	}

	recipientID := strings.TrimSpace(req.RecipientID)
	if recipientID == "" {
		return nil, errors.NewMissingRecipientError("recipient_id is empty")
	}
	recipient, err := s.directory.GetAccount(ctx, recipientID)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			return nil, errors.NewMissingRecipientError("no account with id " + recipientID)
		}
		return nil, err
	}

	target, ok := models.OfficeOf(recipient.Role())
	if !ok {
		return nil, errors.NewMissingRecipientError("account " + recipientID + " is not an office account")
	}
	if office := strings.TrimSpace(req.RecipientOffice); office != "" && office != target.Name {
		return nil, errors.NewMissingRecipientError("no account " + recipientID + " in office " + office)
	}

	msg := &models.Message{
		ID:              ulid.Make().String(),
		SenderID:        sender.Role.ID(),
		SenderName:      sender.Name,
		SenderOffice:    office.Name,
		RecipientID:     recipient.ID,
		RecipientOffice: target.Name,
		Subject:         subject,
		Content:         req.Content,
		Priority:        priority,
		Read:            false,
		CreatedAt:       s.now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	metrics.MessagesSent.WithLabelValues(string(priority)).Inc()
	s.logger.Info("message sent", map[string]interface{}{
		"messageId":   msg.ID,
		"senderId":    msg.SenderID,
		"recipientId": msg.RecipientID,
		"priority":    msg.Priority,
	})
	return msg, nil
}

// Received lists messages addressed to who, newest first.
func (s *Service) Received(ctx context.Context, who models.Role) ([]models.Message, error) {
	msgs, err := s.store.ListReceived(ctx, who.ID())
	if err != nil {
		return nil, err
	}
	return newestFirst(msgs), nil
}

// Sent lists messages sent by who, newest first.
func (s *Service) Sent(ctx context.Context, who models.Role) ([]models.Message, error) {
	msgs, err := s.store.ListSent(ctx, who.ID())
	if err != nil {
		return nil, err
	}
	return newestFirst(msgs), nil
}

// MarkRead flips the read flag for the recipient. Marking twice is a no-op.
func (s *Service) MarkRead(ctx context.Context, who models.Role, id string) (*models.Message, error) {
	msg, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.RecipientID != who.ID() {
		return nil, errors.NewForbiddenError("only the recipient can mark a message read")
	}
	if msg.Read {
		return msg, nil
	}
	if err := s.store.MarkMessageRead(ctx, id); err != nil {
		return nil, err
	}
	msg.Read = true
	return msg, nil
}

// Directory lists the office accounts a message can be addressed to.
func (s *Service) Directory(ctx context.Context) ([]models.Account, error) {
	return s.directory.ListStaff(ctx)
}

func newestFirst(msgs []models.Message) []models.Message {
	if msgs == nil {
		return []models.Message{}
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	return msgs
}
