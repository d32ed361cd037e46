// internal/workers/application/send-status-notification/models.go
package sendstatusnotification

import "nagarik-sewa/internal/models"

// Input is the applicant snapshot published with each status change.
type Input = models.StatusNotification

type Output = models.NotificationResult

const inputSchema = `{
  "type": "object",
  "required": ["applicationId", "status", "fullName"],
  "properties": {
    "applicationId": {"type": "string", "pattern": "^APP[0-9A-F]{8}$"},
    "status": {"enum": ["Submitted", "In Progress", "Completed", "Rejected"]},
    "fullName": {"type": "string"},
    "email": {"type": "string"},
    "phone": {"type": "string"},
    "serviceType": {"type": "string"},
    "officeName": {"type": "string"},
    "rejectionMessage": {"type": "string"}
  }
}`
