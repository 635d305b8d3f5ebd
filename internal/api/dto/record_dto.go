package dto

import (
	"time"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

// CreateRecordRequest payload.
type CreateRecordRequest struct {
	Description           string                  `json:"description"`
	Category              string                  `json:"category"`
	Severity              domain.Severity         `json:"severity"`
	Location              string                  `json:"location"`
	ObservationType       *domain.ObservationType `json:"observation_type"`
	DueDate               *string                 `json:"due_date"`
	Witnesses             []WitnessPayload        `json:"witnesses"`
	ThirdPartyInvolved    bool                    `json:"third_party_involved"`
	ThirdPartyDetails     *string                 `json:"third_party_details"`
	EquipmentFaulty       bool                    `json:"equipment_faulty"`
	EquipmentFaultDetails *string                 `json:"equipment_fault_details"`
	SupervisorNotified    bool                    `json:"supervisor_notified"`
	SupervisorName        *string                 `json:"supervisor_name"`
	FollowUpRequired      bool                    `json:"follow_up_required"`
	AssignedTo            *string                 `json:"assigned_to"`
	Photos                []string                `json:"photos"`
}

// UpdateRecordRequest carries partial edits; absent fields stay as is.
type UpdateRecordRequest struct {
	Description           *string          `json:"description"`
	Category              *string          `json:"category"`
	Severity              *domain.Severity `json:"severity"`
	Location              *string          `json:"location"`
	DueDate               *string          `json:"due_date"`
	Witnesses             []WitnessPayload `json:"witnesses"`
	ThirdPartyInvolved    *bool            `json:"third_party_involved"`
	ThirdPartyDetails     *string          `json:"third_party_details"`
	EquipmentFaulty       *bool            `json:"equipment_faulty"`
	EquipmentFaultDetails *string          `json:"equipment_fault_details"`
	SupervisorNotified    *bool            `json:"supervisor_notified"`
	SupervisorName        *string          `json:"supervisor_name"`
	FollowUpRequired      *bool            `json:"follow_up_required"`
	AssignedTo            *string          `json:"assigned_to"`
	Photos                []string         `json:"photos"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.RecordStatus `json:"status"`
	Reason *string             `json:"reason"`
}

// WitnessPayload mirrors a witness entry.
type WitnessPayload struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// RecordResponse provides full record info.
type RecordResponse struct {
	ID                    string                  `json:"id"`
	Type                  domain.RecordType       `json:"type"`
	Status                domain.RecordStatus     `json:"status"`
	Description           string                  `json:"description"`
	Category              string                  `json:"category"`
	Severity              domain.Severity         `json:"severity,omitempty"`
	Location              string                  `json:"location"`
	ObservationType       *domain.ObservationType `json:"observation_type,omitempty"`
	DueDate               *string                 `json:"due_date"`
	CompletedDate         *string                 `json:"completed_date"`
	Witnesses             []WitnessPayload        `json:"witnesses"`
	ThirdPartyInvolved    bool                    `json:"third_party_involved"`
	ThirdPartyDetails     *string                 `json:"third_party_details,omitempty"`
	EquipmentFaulty       bool                    `json:"equipment_faulty"`
	EquipmentFaultDetails *string                 `json:"equipment_fault_details,omitempty"`
	SupervisorNotified    bool                    `json:"supervisor_notified"`
	SupervisorName        *string                 `json:"supervisor_name,omitempty"`
	FollowUpRequired      bool                    `json:"follow_up_required"`
	AssignedTo            *string                 `json:"assigned_to,omitempty"`
	Photos                []string                `json:"photos"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
}

// ToRecordResponse maps a domain record onto the API shape.
func ToRecordResponse(record *domain.Record) RecordResponse {
	witnesses := make([]WitnessPayload, 0, len(record.Witnesses))
	for _, w := range record.Witnesses {
		witnesses = append(witnesses, WitnessPayload{Name: w.Name, Contact: w.Contact})
	}
	photos := record.Photos
	if photos == nil {
		photos = []string{}
	}
	return RecordResponse{
		ID:                    record.ID,
		Type:                  record.Type,
		Status:                domain.NormalizeStatus(record.Status),
		Description:           record.Description,
		Category:              record.Category,
		Severity:              record.Severity,
		Location:              record.Location,
		ObservationType:       record.ObservationType,
		DueDate:               record.DueDate,
		CompletedDate:         record.CompletedDate,
		Witnesses:             witnesses,
		ThirdPartyInvolved:    record.ThirdPartyInvolved,
		ThirdPartyDetails:     record.ThirdPartyDetails,
		EquipmentFaulty:       record.EquipmentFaulty,
		EquipmentFaultDetails: record.EquipmentFaultDetails,
		SupervisorNotified:    record.SupervisorNotified,
		SupervisorName:        record.SupervisorName,
		FollowUpRequired:      record.FollowUpRequired,
		AssignedTo:            record.AssignedTo,
		Photos:                photos,
		CreatedAt:             record.CreatedAt,
		UpdatedAt:             record.UpdatedAt,
	}
}

// ToWitnesses converts payload entries into domain witnesses.
func ToWitnesses(in []WitnessPayload) []domain.Witness {
	if in == nil {
		return nil
	}
	out := make([]domain.Witness, 0, len(in))
	for _, w := range in {
		out = append(out, domain.Witness{Name: w.Name, Contact: w.Contact})
	}
	return out
}
