package domain

import "time"

// ReportTemplate is a saved form preset a user can load when filing a new
// record. Templates are the only deletable entity in this service;
// records are never deleted, only closed.
type ReportTemplate struct {
	ID         string
	UserID     string
	Name       string
	RecordType RecordType
	Fields     map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
