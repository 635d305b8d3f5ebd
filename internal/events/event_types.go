package events

import (
	"time"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRecordCreated       EventType = "record_created"
	EventRecordUpdated       EventType = "record_updated"
	EventRecordStatusChanged EventType = "record_status_changed"
	EventTemplateSaved       EventType = "template_saved"
	EventTemplateDeleted     EventType = "template_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	RecordType domain.RecordType `json:"record_type"`
	RecordID   string            `json:"record_id"`
	UserID     *string           `json:"user_id,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Payload    interface{}       `json:"payload"`
}

// RecordCreatedPayload payload.
type RecordCreatedPayload struct {
	Category string              `json:"category"`
	Severity domain.Severity     `json:"severity,omitempty"`
	Status   domain.RecordStatus `json:"status"`
	Location string              `json:"location,omitempty"`
}

// RecordUpdatedPayload payload.
type RecordUpdatedPayload struct {
	ChangedFields []string `json:"changed_fields"`
}

// RecordStatusChangedPayload payload.
type RecordStatusChangedPayload struct {
	OldStatus domain.RecordStatus `json:"old_status"`
	NewStatus domain.RecordStatus `json:"new_status"`
	Reason    string              `json:"reason,omitempty"`
}

// TemplateSavedPayload payload.
type TemplateSavedPayload struct {
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
}

// TemplateDeletedPayload payload.
type TemplateDeletedPayload struct {
	TemplateID string `json:"template_id"`
}
