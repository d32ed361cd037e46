// Package lifecycle implements the application status state machine.
//
// Every transition is computed on a copy of the record: a failed transition never
// leaves a partially mutated record behind.
package lifecycle

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/models"
)

type Action string

const (
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionSetInProgress Action = "set_in_progress"
	ActionComplete      Action = "complete"
	ActionUndo          Action = "undo"
)

// Progress values written by each transition.
const (
	ProgressSubmitted  = 0
	ProgressApproved   = 25
	ProgressInProgress = 50
	ProgressCompleted  = 100
)

// Command is one lifecycle action. Reason is only read by ActionReject.
type Command struct {
	Action Action
	Reason string
}

type Machine struct {
	now func() time.Time
}

func NewMachine() *Machine {
	return &Machine{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source used for completed_date and submitted_date.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	return &Machine{now: now}
}

// NewApplicationID returns an id of the form APPXXXXXXXX.
func NewApplicationID() string {
	return "APP" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Submit turns a citizen draft into a fresh Submitted record routed to office.
func (m *Machine) Submit(draft models.Application, office models.OfficeAssignment, estimatedDays int) models.Application {
	now := m.now()

	app := draft.Clone()
	app.ID = NewApplicationID()
	app.TargetOfficeLevel = office.Level
	app.TargetOfficeName = office.Name
	app.Status = models.StatusSubmitted
	app.Approved = nil
	app.RejectionMessage = ""
	app.Progress = ProgressSubmitted
	app.CurrentStage = models.StageDocumentVerification
	app.EstimatedDays = estimatedDays
	app.SubmittedDate = now
	app.CompletedDate = nil
	app.UpdatedAt = now
	return app
}

// Apply authorizes actor against the record's target office and performs cmd.
// The returned record is a modified copy; app itself is never touched.
func (m *Machine) Apply(app models.Application, actor models.Role, cmd Command) (models.Application, error) {
	if err := Authorize(app, actor); err != nil {
		return app, err
	}

	next := app.Clone()
	now := m.now()

	switch cmd.Action {
	case ActionApprove:
		if app.Status != models.StatusSubmitted {
			return app, errors.NewInvalidTransitionError(string(app.Status), string(cmd.Action))
		}
		approved := true
		next.Approved = &approved
		next.Status = models.StatusInProgress
		next.Progress = ProgressApproved
		next.CurrentStage = models.StageProcessing

	case ActionReject:
		if app.Status != models.StatusSubmitted {
			return app, errors.NewInvalidTransitionError(string(app.Status), string(cmd.Action))
		}
		reason := strings.TrimSpace(cmd.Reason)
		if reason == "" {
			return app, errors.NewValidationError("rejection_message", "A rejection reason is required")
		}
		approved := false
		next.Approved = &approved
		next.Status = models.StatusRejected
		next.RejectionMessage = reason
		next.Progress = ProgressSubmitted
		next.CurrentStage = models.StageRejected

	case ActionSetInProgress:
		if app.Status != models.StatusInProgress {
			return app, errors.NewInvalidTransitionError(string(app.Status), string(cmd.Action))
		}
		next.Progress = ProgressInProgress

	case ActionComplete:
		if app.Status != models.StatusInProgress && app.Status != models.StatusCompleted {
			return app, errors.NewInvalidTransitionError(string(app.Status), string(cmd.Action))
		}
		next.Status = models.StatusCompleted
		next.Progress = ProgressCompleted
		next.CompletedDate = &now
		next.CurrentStage = models.StageCompleted

	case ActionUndo:
		if app.Status != models.StatusCompleted {
			return app, errors.NewInvalidTransitionError(string(app.Status), string(cmd.Action))
		}
		next.Status = models.StatusInProgress
		next.Progress = ProgressInProgress
		next.CompletedDate = nil
		next.CurrentStage = models.StageProcessing

	default:
		return app, errors.NewValidationError("action", "Unknown lifecycle action "+string(cmd.Action))
	}

	next.UpdatedAt = now
	return next, nil
}

// Authorize allows only an official of the record's target office to act on it.
// Citizens and monitors are always refused.
func Authorize(app models.Application, actor models.Role) error {
	switch r := actor.(type) {
	case models.Official:
		if r.Office == app.TargetOffice() {
			return nil
		}
		return errors.NewForbiddenError("application is routed to " + app.TargetOffice().ID())
	case models.Monitor:
		return errors.NewForbiddenError("monitor accounts do not process applications")
	case models.Citizen:
		return errors.NewForbiddenError("citizens cannot change application status")
	default:
		return errors.NewForbiddenError("unknown role")
	}
}
