package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/site-safety-service/internal/domain"
	"github.com/spec-kit/site-safety-service/internal/events"
	"github.com/spec-kit/site-safety-service/internal/lifecycle"
	"github.com/spec-kit/site-safety-service/internal/observability"
	"github.com/spec-kit/site-safety-service/internal/repository"
	apperrors "github.com/spec-kit/site-safety-service/pkg/util/errorutil"
)

// RecordService coordinates incident record workflows.
type RecordService struct {
	records    repository.RecordRepository
	audit      repository.AuditRepository
	manager    *lifecycle.Manager
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// RecordDependencies bundles collaborators for the record service.
type RecordDependencies struct {
	RecordRepo repository.RecordRepository
	AuditRepo  repository.AuditRepository
	Notifier   lifecycle.Notifier
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// RecordCreateInput describes a record submission.
type RecordCreateInput struct {
	Type                  domain.RecordType
	Description           string
	Category              string
	Severity              domain.Severity
	Location              string
	ObservationType       *domain.ObservationType
	DueDate               *string
	Witnesses             []domain.Witness
	ThirdPartyInvolved    bool
	ThirdPartyDetails     *string
	EquipmentFaulty       bool
	EquipmentFaultDetails *string
	SupervisorNotified    bool
	SupervisorName        *string
	FollowUpRequired      bool
	AssignedTo            *string
	Photos                []string
}

// RecordUpdateInput carries partial field edits; nil fields are unchanged.
type RecordUpdateInput struct {
	Description           *string
	Category              *string
	Severity              *domain.Severity
	Location              *string
	DueDate               *string
	Witnesses             []domain.Witness
	ThirdPartyInvolved    *bool
	ThirdPartyDetails     *string
	EquipmentFaulty       *bool
	EquipmentFaultDetails *string
	SupervisorNotified    *bool
	SupervisorName        *string
	FollowUpRequired      *bool
	AssignedTo            *string
	Photos                []string
}

// NewRecordService constructs the service and its lifecycle manager.
func NewRecordService(deps RecordDependencies) *RecordService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sink := &auditSink{audit: deps.AuditRepo}
	manager := lifecycle.NewManager(deps.RecordRepo, sink, deps.Notifier, logger)
	return &RecordService{
		records:    deps.RecordRepo,
		audit:      deps.AuditRepo,
		manager:    manager,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Manager exposes the lifecycle manager, mainly for tests.
func (s *RecordService) Manager() *lifecycle.Manager {
	return s.manager
}

// CreateRecord validates and stores a new record, appending a created
// audit entry.
func (s *RecordService) CreateRecord(ctx context.Context, userID string, input RecordCreateInput) (*domain.Record, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, apperrors.NewValidationError("category required", nil)
	}
	if strings.TrimSpace(input.Location) == "" {
		return nil, apperrors.NewValidationError("location required", nil)
	}

	record := &domain.Record{
		Type:                  input.Type,
		UserID:                userID,
		Status:                domain.StatusOpen,
		DueDate:               input.DueDate,
		Description:           strings.TrimSpace(input.Description),
		Category:              input.Category,
		Severity:              input.Severity,
		Location:              input.Location,
		ObservationType:       input.ObservationType,
		Witnesses:             input.Witnesses,
		ThirdPartyInvolved:    input.ThirdPartyInvolved,
		ThirdPartyDetails:     input.ThirdPartyDetails,
		EquipmentFaulty:       input.EquipmentFaulty,
		EquipmentFaultDetails: input.EquipmentFaultDetails,
		SupervisorNotified:    input.SupervisorNotified,
		SupervisorName:        input.SupervisorName,
		FollowUpRequired:      input.FollowUpRequired,
		AssignedTo:            input.AssignedTo,
		Photos:                input.Photos,
	}
	if !record.SeverityValid() {
		return nil, apperrors.NewValidationError("invalid severity for record type", map[string]any{
			"severity": record.Severity,
		})
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	s.appendAudit(ctx, record, domain.AuditActionCreated, nil, map[string]any{
		"status":   string(record.Status),
		"category": record.Category,
		"severity": string(record.Severity),
	}, nil)

	s.publishEvent(ctx, events.Event{
		Type:       events.EventRecordCreated,
		RecordType: record.Type,
		RecordID:   record.ID,
		UserID:     &record.UserID,
		Payload: events.RecordCreatedPayload{
			Category: record.Category,
			Severity: record.Severity,
			Status:   record.Status,
			Location: record.Location,
		},
	})
	return record, nil
}

// ListRecords returns a user's records of the given type.
func (s *RecordService) ListRecords(ctx context.Context, recordType domain.RecordType, userID string, filter repository.RecordFilter) ([]domain.Record, error) {
	return s.records.ListByUser(ctx, recordType, userID, filter)
}

// GetRecord fetches a record ensuring ownership.
func (s *RecordService) GetRecord(ctx context.Context, recordType domain.RecordType, userID, recordID string) (*domain.Record, error) {
	record, err := s.records.GetByID(ctx, recordType, recordID)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return record, nil
}

// UpdateRecord applies partial field edits, emitting one updated audit
// entry listing the changed fields.
func (s *RecordService) UpdateRecord(ctx context.Context, recordType domain.RecordType, userID, recordID string, input RecordUpdateInput) (*domain.Record, error) {
	record, err := s.GetRecord(ctx, recordType, userID, recordID)
	if err != nil {
		return nil, err
	}

	oldValues := map[string]any{}
	newValues := map[string]any{}

	if input.Description != nil && *input.Description != record.Description {
		oldValues["description"] = record.Description
		newValues["description"] = *input.Description
		record.Description = *input.Description
	}
	if input.Category != nil && *input.Category != record.Category {
		oldValues["category"] = record.Category
		newValues["category"] = *input.Category
		record.Category = *input.Category
	}
	if input.Severity != nil && *input.Severity != record.Severity {
		oldValues["severity"] = string(record.Severity)
		newValues["severity"] = string(*input.Severity)
		record.Severity = *input.Severity
	}
	if input.Location != nil && *input.Location != record.Location {
		oldValues["location"] = record.Location
		newValues["location"] = *input.Location
		record.Location = *input.Location
	}
	if input.DueDate != nil {
		oldValues["due_date"] = strOrNil(record.DueDate)
		newValues["due_date"] = *input.DueDate
		record.DueDate = input.DueDate
	}
	if input.Witnesses != nil {
		oldValues["witnesses"] = record.Witnesses
		newValues["witnesses"] = input.Witnesses
		record.Witnesses = input.Witnesses
	}
	if input.ThirdPartyInvolved != nil {
		record.ThirdPartyInvolved = *input.ThirdPartyInvolved
		newValues["third_party_involved"] = *input.ThirdPartyInvolved
	}
	if input.ThirdPartyDetails != nil {
		record.ThirdPartyDetails = input.ThirdPartyDetails
	}
	if input.EquipmentFaulty != nil {
		record.EquipmentFaulty = *input.EquipmentFaulty
		newValues["equipment_faulty"] = *input.EquipmentFaulty
	}
	if input.EquipmentFaultDetails != nil {
		record.EquipmentFaultDetails = input.EquipmentFaultDetails
	}
	if input.SupervisorNotified != nil {
		record.SupervisorNotified = *input.SupervisorNotified
		newValues["supervisor_notified"] = *input.SupervisorNotified
	}
	if input.SupervisorName != nil {
		record.SupervisorName = input.SupervisorName
	}
	if input.FollowUpRequired != nil {
		record.FollowUpRequired = *input.FollowUpRequired
		newValues["follow_up_required"] = *input.FollowUpRequired
	}
	if input.AssignedTo != nil {
		oldValues["assigned_to"] = strOrNil(record.AssignedTo)
		newValues["assigned_to"] = *input.AssignedTo
		record.AssignedTo = input.AssignedTo
	}
	if input.Photos != nil {
		record.Photos = input.Photos
	}

	if !record.SeverityValid() {
		return nil, apperrors.NewValidationError("invalid severity for record type", nil)
	}

	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}

	if len(newValues) > 0 {
		s.appendAudit(ctx, record, domain.AuditActionUpdated, oldValues, newValues, nil)

		changed := make([]string, 0, len(newValues))
		for field := range newValues {
			changed = append(changed, field)
		}
		s.publishEvent(ctx, events.Event{
			Type:       events.EventRecordUpdated,
			RecordType: record.Type,
			RecordID:   record.ID,
			UserID:     &record.UserID,
			Payload:    events.RecordUpdatedPayload{ChangedFields: changed},
		})
	}
	return record, nil
}

// ChangeStatus moves a record through the lifecycle state machine.
func (s *RecordService) ChangeStatus(ctx context.Context, recordType domain.RecordType, userID, recordID string, next domain.RecordStatus, reason *string) (*domain.Record, error) {
	switch next {
	case domain.StatusOpen, domain.StatusInProgress, domain.StatusClosed:
	default:
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": next})
	}

	record, err := s.GetRecord(ctx, recordType, userID, recordID)
	if err != nil {
		return nil, err
	}

	oldStatus := domain.NormalizeStatus(record.Status)
	if err := s.manager.ChangeStatus(ctx, record, next, reason); err != nil {
		s.metrics.RecordStatusChange(string(recordType), false)
		return nil, err
	}
	s.metrics.RecordStatusChange(string(recordType), true)

	s.publishEvent(ctx, events.Event{
		Type:       events.EventRecordStatusChanged,
		RecordType: record.Type,
		RecordID:   record.ID,
		UserID:     &record.UserID,
		Payload: events.RecordStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: next,
			Reason:    strOr(reason),
		},
	})
	return record, nil
}

func (s *RecordService) appendAudit(ctx context.Context, record *domain.Record, action domain.AuditAction, oldValues, newValues map[string]any, reason *string) {
	if s.audit == nil {
		return
	}
	userID := record.UserID
	entry := &domain.AuditEntry{
		RecordID:   record.ID,
		RecordType: record.Type,
		UserID:     &userID,
		Action:     action,
		OldValues:  oldValues,
		NewValues:  newValues,
		Reason:     reason,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("record_id", record.ID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func (s *RecordService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// auditSink adapts the audit repository to the lifecycle manager's sink
// contract, shaping the status value pair the trail reader expects.
type auditSink struct {
	audit repository.AuditRepository
}

func (a *auditSink) RecordStatusChange(ctx context.Context, change lifecycle.StatusChange) error {
	if a.audit == nil {
		return nil
	}
	entry := &domain.AuditEntry{
		RecordID:   change.RecordID,
		RecordType: change.RecordType,
		UserID:     change.UserID,
		Action:     domain.AuditActionStatusChanged,
		OldValues:  map[string]any{"status": string(change.OldStatus)},
		NewValues:  map[string]any{"status": string(change.NewStatus)},
		Reason:     change.Reason,
	}
	return a.audit.Create(ctx, entry)
}

func strOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
