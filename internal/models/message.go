// internal/models/message.go
package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Message struct {
	ID              string    `json:"id"`
	SenderID        string    `json:"sender_id"`
	SenderName      string    `json:"sender_name"`
	SenderOffice    string    `json:"sender_office"`
	RecipientID     string    `json:"recipient_id"`
	RecipientOffice string    `json:"recipient_office"`
	Subject         string    `json:"subject"`
	Content         string    `json:"content"`
	Priority        Priority  `json:"priority"`
	Read            bool      `json:"read"`
	CreatedAt       time.Time `json:"created_at"`
}
