package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/site-safety-service/internal/domain"
	"github.com/spec-kit/site-safety-service/internal/events"
	"github.com/spec-kit/site-safety-service/internal/repository"
	apperrors "github.com/spec-kit/site-safety-service/pkg/util/errorutil"
)

// TemplateService manages per-user report templates.
type TemplateService struct {
	templates  repository.TemplateRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TemplateInput describes a template create or update.
type TemplateInput struct {
	Name       string
	RecordType domain.RecordType
	Fields     map[string]any
}

func NewTemplateService(templates repository.TemplateRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{templates: templates, dispatcher: dispatcher, logger: logger}
}

// SaveTemplate creates a template for the user.
func (s *TemplateService) SaveTemplate(ctx context.Context, userID string, input TemplateInput) (*domain.ReportTemplate, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("template name required", nil)
	}
	if input.Fields == nil {
		input.Fields = map[string]any{}
	}

	tmpl := &domain.ReportTemplate{
		UserID:     userID,
		Name:       strings.TrimSpace(input.Name),
		RecordType: input.RecordType,
		Fields:     input.Fields,
	}
	if err := s.templates.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventTemplateSaved, tmpl)
	return tmpl, nil
}

// ListTemplates returns the user's templates, optionally by record type.
func (s *TemplateService) ListTemplates(ctx context.Context, userID string, recordType *domain.RecordType) ([]domain.ReportTemplate, error) {
	return s.templates.ListByUser(ctx, userID, recordType)
}

// GetTemplate fetches one template ensuring ownership.
func (s *TemplateService) GetTemplate(ctx context.Context, userID, templateID string) (*domain.ReportTemplate, error) {
	tmpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl.UserID != userID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return tmpl, nil
}

// UpdateTemplate overwrites a template's name and fields.
func (s *TemplateService) UpdateTemplate(ctx context.Context, userID, templateID string, input TemplateInput) (*domain.ReportTemplate, error) {
	tmpl, err := s.GetTemplate(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) != "" {
		tmpl.Name = strings.TrimSpace(input.Name)
	}
	if input.Fields != nil {
		tmpl.Fields = input.Fields
	}
	if err := s.templates.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventTemplateSaved, tmpl)
	return tmpl, nil
}

// DeleteTemplate removes a template the user owns.
func (s *TemplateService) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	tmpl, err := s.GetTemplate(ctx, userID, templateID)
	if err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, templateID); err != nil {
		return err
	}
	s.publish(ctx, events.EventTemplateDeleted, tmpl)
	return nil
}

func (s *TemplateService) publish(ctx context.Context, eventType events.EventType, tmpl *domain.ReportTemplate) {
	if s.dispatcher == nil {
		return
	}
	userID := tmpl.UserID
	var payload any
	if eventType == events.EventTemplateDeleted {
		payload = events.TemplateDeletedPayload{TemplateID: tmpl.ID}
	} else {
		payload = events.TemplateSavedPayload{TemplateID: tmpl.ID, Name: tmpl.Name}
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		RecordType: tmpl.RecordType,
		UserID:     &userID,
		Timestamp:  time.Now(),
		Payload:    payload,
	})
}
