package domain

import "time"

// AuditAction captures what kind of mutation an audit entry describes.
type AuditAction string

const (
	AuditActionCreated       AuditAction = "created"
	AuditActionUpdated       AuditAction = "updated"
	AuditActionStatusChanged AuditAction = "status_changed"
	AuditActionDeleted       AuditAction = "deleted"
	AuditActionExtended      AuditAction = "extended"
	AuditActionClosed        AuditAction = "closed"
	AuditActionCancelled     AuditAction = "cancelled"
	AuditActionApproved      AuditAction = "approved"
	AuditActionRejected      AuditAction = "rejected"
)

// AuditEntry is an immutable log line describing one mutation to a record.
// Entries for a record are totally ordered by CreatedAt, ties broken by
// insertion order. OldValues/NewValues are partial snapshots; for
// status_changed entries both must carry a "status" key.
type AuditEntry struct {
	ID         string
	RecordID   string
	RecordType RecordType
	UserID     *string
	Action     AuditAction
	OldValues  map[string]any
	NewValues  map[string]any
	Reason     *string
	CreatedAt  time.Time
}
