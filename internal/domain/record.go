package domain

import "time"

// RecordType identifies which incident-style record a row belongs to.
type RecordType string

const (
	RecordTypeNearMiss    RecordType = "near_miss"
	RecordTypeObservation RecordType = "observation"
	// Additional record types the audit log understands but which have no
	// dedicated table in this service yet.
	RecordTypePermit RecordType = "permit"
	RecordTypeCOSHH  RecordType = "coshh"
)

// RecordStatus enumerates lifecycle states for incident records.
type RecordStatus string

const (
	StatusOpen       RecordStatus = "open"
	StatusInProgress RecordStatus = "in_progress"
	StatusClosed     RecordStatus = "closed"
)

// NormalizeStatus applies the stored-status defaulting rule: a missing or
// empty status reads as open. A missing completed_date has no such rule;
// it simply means "not completed".
func NormalizeStatus(s RecordStatus) RecordStatus {
	if s == "" {
		return StatusOpen
	}
	return s
}

// Severity grades the potential impact of a record.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ObservationType distinguishes what a safety observation reports.
// Severity is only meaningful on improvement observations.
type ObservationType string

const (
	ObservationGoodPractice ObservationType = "good_practice"
	ObservationImprovement  ObservationType = "improvement"
)

// Witness is an ordered entry in a record's witness list.
type Witness struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Record is the aggregate for near-miss reports and safety observations.
// Both record types share the same lifecycle; observation-only fields are
// nil for near misses and vice versa. Optional date fields are date-only
// strings (YYYY-MM-DD); a nil pointer means the value was never set.
type Record struct {
	ID     string
	Type   RecordType
	UserID string

	Status        RecordStatus
	DueDate       *string
	CompletedDate *string

	Description string
	Category    string
	Severity    Severity
	Location    string

	ObservationType *ObservationType

	Witnesses []Witness

	ThirdPartyInvolved    bool
	ThirdPartyDetails     *string
	EquipmentFaulty       bool
	EquipmentFaultDetails *string
	SupervisorNotified    bool
	SupervisorName        *string

	FollowUpRequired bool
	AssignedTo       *string

	Photos []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SeverityValid reports whether the severity value is allowed for the
// record type. Near misses accept the full scale including critical;
// observations stop at high and only carry a severity when they are
// improvement observations.
func (r *Record) SeverityValid() bool {
	switch r.Type {
	case RecordTypeNearMiss:
		switch r.Severity {
		case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
			return true
		}
		return false
	case RecordTypeObservation:
		if r.ObservationType == nil || *r.ObservationType != ObservationImprovement {
			return r.Severity == ""
		}
		switch r.Severity {
		case SeverityLow, SeverityMedium, SeverityHigh:
			return true
		}
		return false
	}
	return false
}
