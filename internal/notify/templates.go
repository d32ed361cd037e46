package notify

import "nagarik-sewa/internal/models"

type template struct {
	Subject string
	Body    string
	SMS     string
}

func defaultTemplates() map[models.ApplicationStatus]template {
	return map[models.ApplicationStatus]template{
		models.StatusSubmitted: {
			Subject: "Application {{applicationId}} received",
			Body: "Dear {{fullName}},\n\nYour {{serviceType}} application {{applicationId}} has been submitted " +
				"to {{officeName}}. You can track its progress online with this id.",
		},
		models.StatusInProgress: {
			Subject: "Application {{applicationId}} is being processed",
			Body:    "Dear {{fullName}},\n\n{{officeName}} is now processing your {{serviceType}} application {{applicationId}}.",
		},
		models.StatusCompleted: {
			Subject: "Application {{applicationId}} completed",
			Body: "Dear {{fullName}},\n\nYour {{serviceType}} application {{applicationId}} is complete. " +
				"Please collect your document from {{officeName}}.",
			SMS: "Nagarik Sewa: application {{applicationId}} is complete. Collect it at {{officeName}}.",
		},
		models.StatusRejected: {
			Subject: "Application {{applicationId}} rejected",
			Body: "Dear {{fullName}},\n\nYour {{serviceType}} application {{applicationId}} was rejected by " +
				"{{officeName}}.\n\nReason: {{rejectionMessage}}",
			SMS: "Nagarik Sewa: application {{applicationId}} was rejected. Reason: {{rejectionMessage}}",
		},
	}
}
