package entity

import "time"

type EventType string

const (
	EventLogin           EventType = "session.login"
	EventLogout          EventType = "session.logout"
	EventRoleSwitched    EventType = "session.role_switched"
	EventDocumentCreated EventType = "document.created"
	EventDocumentUpdated EventType = "document.updated"
	EventDocumentStatus  EventType = "document.status_changed"
	EventDocumentDeleted EventType = "document.deleted"
)

type Event struct {
	Type       EventType         `json:"type"`
	UserID     string            `json:"userId"`
	RoleID     string            `json:"roleId,omitempty"`
	DocumentID string            `json:"documentId,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}
