package dto

import (
	"time"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

// SaveTemplateRequest payload for create and update.
type SaveTemplateRequest struct {
	Name       string            `json:"name"`
	RecordType domain.RecordType `json:"record_type"`
	Fields     map[string]any    `json:"fields"`
}

// TemplateResponse provides full template info.
type TemplateResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	RecordType domain.RecordType `json:"record_type"`
	Fields     map[string]any    `json:"fields"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ToTemplateResponse maps a domain template onto the API shape.
func ToTemplateResponse(tmpl *domain.ReportTemplate) TemplateResponse {
	fields := tmpl.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return TemplateResponse{
		ID:         tmpl.ID,
		Name:       tmpl.Name,
		RecordType: tmpl.RecordType,
		Fields:     fields,
		CreatedAt:  tmpl.CreatedAt,
		UpdatedAt:  tmpl.UpdatedAt,
	}
}
