package audittrail

import (
	"strings"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

// MissingValuePlaceholder is rendered for absent status values.
const MissingValuePlaceholder = "—"

// FormatStatusLabel turns a stored status value into a display label:
// separator characters become spaces and each word is title-cased, so
// "in_progress" renders as "In Progress". Missing input renders as the
// placeholder rather than erroring.
func FormatStatusLabel(value *string) string {
	if value == nil {
		return MissingValuePlaceholder
	}
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(*value)
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return MissingValuePlaceholder
	}
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

// ActionDisplay is the rendering configuration for an audit action.
type ActionDisplay struct {
	Label   string
	Variant string
}

// DisplayForAction maps an audit action to its display configuration.
// Unknown actions degrade to the updated configuration so new actions
// added to the log never break older readers.
func DisplayForAction(action domain.AuditAction) ActionDisplay {
	switch action {
	case domain.AuditActionCreated:
		return ActionDisplay{Label: "Created", Variant: "success"}
	case domain.AuditActionStatusChanged:
		return ActionDisplay{Label: "Status Changed", Variant: "info"}
	case domain.AuditActionDeleted:
		return ActionDisplay{Label: "Deleted", Variant: "destructive"}
	case domain.AuditActionExtended:
		return ActionDisplay{Label: "Extended", Variant: "info"}
	case domain.AuditActionClosed:
		return ActionDisplay{Label: "Closed", Variant: "success"}
	case domain.AuditActionCancelled:
		return ActionDisplay{Label: "Cancelled", Variant: "destructive"}
	case domain.AuditActionApproved:
		return ActionDisplay{Label: "Approved", Variant: "success"}
	case domain.AuditActionRejected:
		return ActionDisplay{Label: "Rejected", Variant: "destructive"}
	case domain.AuditActionUpdated:
		return ActionDisplay{Label: "Updated", Variant: "default"}
	default:
		return ActionDisplay{Label: "Updated", Variant: "default"}
	}
}
