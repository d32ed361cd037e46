// internal/models/notification.go
package models

const (
	NotificationStatusSent     = "sent"
	NotificationStatusFailed   = "failed"
	NotificationStatusDisabled = "disabled"
)

// StatusNotification describes an applicant-facing message about a lifecycle change.
type StatusNotification struct {
	ApplicationID    string            `json:"applicationId"`
	FullName         string            `json:"fullName"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	ServiceType      string            `json:"serviceType"`
	Status           ApplicationStatus `json:"status"`
	OfficeName       string            `json:"officeName"`
	RejectionMessage string            `json:"rejectionMessage,omitempty"`
}

// NewStatusNotification builds the notification payload for app.
func NewStatusNotification(app Application) StatusNotification {
	return StatusNotification{
		ApplicationID:    app.ID,
		FullName:         app.FullName,
		Email:            app.Email,
		Phone:            app.Phone,
		ServiceType:      app.ServiceType,
		Status:           app.Status,
		OfficeName:       app.TargetOfficeName,
		RejectionMessage: app.RejectionMessage,
	}
}

type NotificationResult struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	SentAt         string `json:"sentAt"`
	Error          string `json:"error,omitempty"`
}
