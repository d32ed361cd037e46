// internal/models/application.go
package models

import (
	"fmt"
	"time"
)

type ApplicationStatus string

const (
	StatusSubmitted  ApplicationStatus = "Submitted"
	StatusInProgress ApplicationStatus = "In Progress"
	StatusCompleted  ApplicationStatus = "Completed"
	StatusRejected   ApplicationStatus = "Rejected"
)

// IsValid reports whether s is one of the four lifecycle statuses.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Current stage labels written by the lifecycle.
const (
	StageDocumentVerification = "Document Verification"
	StageProcessing           = "Processing"
	StageCompleted            = "Completed"
	StageRejected             = "Rejected"
)

type Application struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	FullName          string            `json:"full_name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	CitizenshipNumber string            `json:"citizenship_number"`
	Province          string            `json:"province"`
	District          string            `json:"district"`
	City              string            `json:"city"`
	Ward              string            `json:"ward,omitempty"`
	Address           string            `json:"address"`
	ServiceType       string            `json:"service_type"`
	TargetOfficeLevel OfficeLevel       `json:"target_office_level"`
	TargetOfficeName  string            `json:"target_office_name"`
	Description       string            `json:"description,omitempty"`
	Status            ApplicationStatus `json:"status"`
	Approved          *bool             `json:"approved"`
	RejectionMessage  string            `json:"rejection_message,omitempty"`
	Progress          int               `json:"progress"`
	CurrentStage      string            `json:"current_stage"`
	EstimatedDays     int               `json:"estimated_days"`
	SubmittedDate     time.Time         `json:"submitted_date"`
	CompletedDate     *time.Time        `json:"completed_date"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// TargetOffice returns the office the record is routed to.
func (a Application) TargetOffice() Office {
	return Office{Level: a.TargetOfficeLevel, Name: a.TargetOfficeName}
}

// CheckInvariants returns the first violated status/approval/progress invariant, or nil.
func (a Application) CheckInvariants() error {
	if !a.Status.IsValid() {
		return fmt.Errorf("unknown status %q", a.Status)
	}
	if a.Progress < 0 || a.Progress > 100 {
		return fmt.Errorf("progress %d out of range", a.Progress)
	}

	rejected := a.Approved != nil && !*a.Approved
	if rejected != (a.Status == StatusRejected) {
		return fmt.Errorf("approved=false must coincide with status Rejected (status %q)", a.Status)
	}
	if (a.Approved == nil) != (a.Status == StatusSubmitted) {
		return fmt.Errorf("approved=null must coincide with status Submitted (status %q)", a.Status)
	}
	if rejected != (a.RejectionMessage != "") {
		return fmt.Errorf("rejection_message must be present iff approved=false")
	}

	completed := a.Status == StatusCompleted
	if completed != (a.Progress == 100) {
		return fmt.Errorf("status Completed must coincide with progress 100 (progress %d)", a.Progress)
	}
	if completed != (a.CompletedDate != nil) {
		return fmt.Errorf("status Completed must coincide with completed_date being set")
	}
	return nil
}

// Clone returns a deep copy so pointer fields can be mutated independently.
func (a Application) Clone() Application {
	out := a
	if a.Approved != nil {
		v := *a.Approved
		out.Approved = &v
	}
	if a.CompletedDate != nil {
		v := *a.CompletedDate
		out.CompletedDate = &v
	}
	return out
}

// ApplicationPatch is the partial update accepted on PUT /applications/:id.
type ApplicationPatch struct {
	Approved         *bool              `json:"approved"`
	Status           *ApplicationStatus `json:"status"`
	Progress         *int               `json:"progress"`
	RejectionMessage *string            `json:"rejection_message"`
	CompletedDate    *string            `json:"completed_date"`
	CurrentStage     *string            `json:"current_stage"`
}

// OfficeAssignment is the result of routing a service request to an office.
type OfficeAssignment struct {
	Level OfficeLevel `json:"target_office_level"`
	Name  string      `json:"target_office_name"`
}
