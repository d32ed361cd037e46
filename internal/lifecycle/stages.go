package lifecycle

import (
	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/models"
)

// StageIndex maps progress to the active stage of an n-stage flow: floor(progress*n/100),
// bounded to [0, n-1]. Integer arithmetic keeps the boundaries exact.
func StageIndex(progress, n int) int {
	if n <= 0 {
		return 0
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	idx := progress * n / 100
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

type StageState string

const (
	StageStateDone    StageState = "completed"
	StageStateActive  StageState = "active"
	StageStatePending StageState = "pending"
)

type TrackedStage struct {
	catalog.Stage
	State StageState `json:"state"`
}

// Tracking is the citizen-facing view of where an application is.
type Tracking struct {
	ApplicationID    string                   `json:"application_id"`
	ServiceType      string                   `json:"service_type"`
	Status           models.ApplicationStatus `json:"status"`
	Progress         int                      `json:"progress"`
	CurrentStage     string                   `json:"current_stage"`
	RejectionMessage string                   `json:"rejection_message,omitempty"`
	ActiveIndex      int                      `json:"active_index"`
	Stages           []TrackedStage           `json:"stages"`
}

// Track projects app onto its service flow.
func Track(app models.Application, stages []catalog.Stage) Tracking {
	active := StageIndex(app.Progress, len(stages))

	out := make([]TrackedStage, len(stages))
	for i, s := range stages {
		state := StageStatePending
		switch {
		case i < active, app.Status == models.StatusCompleted:
			state = StageStateDone
		case i == active:
			state = StageStateActive
		}
		out[i] = TrackedStage{Stage: s, State: state}
	}

	return Tracking{
		ApplicationID:    app.ID,
		ServiceType:      app.ServiceType,
		Status:           app.Status,
		Progress:         app.Progress,
		CurrentStage:     app.CurrentStage,
		RejectionMessage: app.RejectionMessage,
		ActiveIndex:      active,
		Stages:           out,
	}
}
