package dto

import (
	"time"

	"github.com/spec-kit/site-safety-service/internal/audittrail"
	"github.com/spec-kit/site-safety-service/internal/domain"
)

// AuditItemResponse is one rendered history entry.
type AuditItemResponse struct {
	ID        string            `json:"id"`
	Action    domain.AuditAction `json:"action"`
	Label     string            `json:"label"`
	Variant   string            `json:"variant"`
	FromLabel *string           `json:"from_label,omitempty"`
	ToLabel   *string           `json:"to_label,omitempty"`
	Reason    *string           `json:"reason,omitempty"`
	IsLast    bool              `json:"is_last"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToAuditResponse maps rendered trail items onto the API shape.
func ToAuditResponse(items []audittrail.Item) []AuditItemResponse {
	out := make([]AuditItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, AuditItemResponse{
			ID:        item.Entry.ID,
			Action:    item.Entry.Action,
			Label:     item.Display.Label,
			Variant:   item.Display.Variant,
			FromLabel: item.FromLabel,
			ToLabel:   item.ToLabel,
			Reason:    item.Entry.Reason,
			IsLast:    item.IsLast,
			CreatedAt: item.Entry.CreatedAt,
		})
	}
	return out
}
