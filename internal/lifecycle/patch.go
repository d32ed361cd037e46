package lifecycle

import (
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/models"
)

// FromPatch maps a partial update onto a single lifecycle command. Progress, completed_date
// and current_stage are always derived by the machine, so they are ignored here.
func FromPatch(current models.Application, patch models.ApplicationPatch) (Command, error) {
	reason := ""
	if patch.RejectionMessage != nil {
		reason = *patch.RejectionMessage
	}

	if patch.Approved != nil {
		if *patch.Approved {
			return Command{Action: ActionApprove}, nil
		}
		return Command{Action: ActionReject, Reason: reason}, nil
	}

	if patch.Status == nil {
		return Command{}, errors.NewValidationError("status", "Either approved or status must be provided")
	}

	switch *patch.Status {
	case models.StatusRejected:
		return Command{Action: ActionReject, Reason: reason}, nil
	case models.StatusCompleted:
		return Command{Action: ActionComplete}, nil
	case models.StatusInProgress:
		if current.Status == models.StatusCompleted {
			return Command{Action: ActionUndo}, nil
		}
		return Command{Action: ActionSetInProgress}, nil
	case models.StatusSubmitted:
		return Command{}, errors.NewValidationError("status", "An application cannot be moved back to Submitted")
	default:
		return Command{}, errors.NewValidationError("status", "Unknown status "+string(*patch.Status))
	}
}
