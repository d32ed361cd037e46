// Package workflow hands application events to the process engine or, without one,
// straight to the notifier.
package workflow

import (
	"context"
	"time"

	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/models"
)

// Publisher receives lifecycle events after they are persisted.
type Publisher interface {
	ApplicationSubmitted(ctx context.Context, app models.Application) error
	StatusChanged(ctx context.Context, app models.Application, action string) error
}

// Engine is the part of the zeebe client used to drive the lifecycle process.
type Engine interface {
	CreateInstance(ctx context.Context, processID string, vars interface{}) (int64, error)
	PublishMessage(ctx context.Context, name, correlationKey string, ttl time.Duration, vars interface{}) error
}

// Notifier delivers applicant notifications.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, n models.StatusNotification) (*models.NotificationResult, error)
}

// ProcessVariables are the variables of an application-lifecycle instance.
type ProcessVariables struct {
	models.StatusNotification
	Ward              string `json:"ward,omitempty"`
	TargetOfficeLevel string `json:"targetOfficeLevel"`
	Progress          int    `json:"progress"`
	Action            string `json:"action,omitempty"`
}

func variablesFor(app models.Application, action string) ProcessVariables {
	return ProcessVariables{
		StatusNotification: models.NewStatusNotification(app),
		Ward:               app.Ward,
		TargetOfficeLevel:  string(app.TargetOfficeLevel),
		Progress:           app.Progress,
		Action:             action,
	}
}

type ZeebePublisher struct {
	engine        Engine
	processID     string
	statusMessage string
	messageTTL    time.Duration
	logger        logger.Logger
}

func NewZeebePublisher(engine Engine, processID, statusMessage string, messageTTL time.Duration, log logger.Logger) *ZeebePublisher {
	return &ZeebePublisher{
		engine:        engine,
		processID:     processID,
		statusMessage: statusMessage,
		messageTTL:    messageTTL,
		logger:        logger.ForComponent(log, "workflow"),
	}
}

// ApplicationSubmitted starts one process instance per application.
func (p *ZeebePublisher) ApplicationSubmitted(ctx context.Context, app models.Application) error {
	key, err := p.engine.CreateInstance(ctx, p.processID, variablesFor(app, "submit"))
	if err != nil {
		return err
	}
	p.logger.Info("process instance started", map[string]interface{}{
		"applicationId":      app.ID,
		"processInstanceKey": key,
	})
	return nil
}

// StatusChanged publishes the status message correlated by application id.
func (p *ZeebePublisher) StatusChanged(ctx context.Context, app models.Application, action string) error {
	if err := p.engine.PublishMessage(ctx, p.statusMessage, app.ID, p.messageTTL, variablesFor(app, action)); err != nil {
		return err
	}
	p.logger.Debug("status message published", map[string]interface{}{
		"applicationId": app.ID,
		"status":        app.Status,
		"action":        action,
	})
	return nil
}

// DirectPublisher notifies applicants in-process when no engine is configured.
type DirectPublisher struct {
	notifier Notifier
	logger   logger.Logger
}

func NewDirectPublisher(notifier Notifier, log logger.Logger) *DirectPublisher {
	return &DirectPublisher{notifier: notifier, logger: logger.ForComponent(log, "workflow")}
}

func (p *DirectPublisher) ApplicationSubmitted(ctx context.Context, app models.Application) error {
	return p.notify(ctx, app)
}

func (p *DirectPublisher) StatusChanged(ctx context.Context, app models.Application, _ string) error {
	return p.notify(ctx, app)
}

func (p *DirectPublisher) notify(ctx context.Context, app models.Application) error {
	if p.notifier == nil {
		return nil
	}
	res, err := p.notifier.NotifyStatusChange(ctx, models.NewStatusNotification(app))
	if err != nil {
		return err
	}
	p.logger.Debug("applicant notified", map[string]interface{}{
		"applicationId": app.ID,
		"result":        res.Status,
	})
	return nil
}
