// Package audittrail renders the append-only change log of a record.
// It only ever reads; entries are written by the mutation paths.
package audittrail

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

// Source supplies audit entries already in display order. The reader
// trusts the ordering and never re-sorts.
type Source interface {
	FetchAuditTrail(ctx context.Context, recordType domain.RecordType, recordID string) ([]domain.AuditEntry, error)
}

// Item is one renderable line of a record's audit trail. FromLabel and
// ToLabel are both set or both nil: a transition indicator is only shown
// when the entry carries both sides of the change.
type Item struct {
	Entry     domain.AuditEntry
	Display   ActionDisplay
	FromLabel *string
	ToLabel   *string
	IsLast    bool
}

// Reader loads and shapes audit trails for display.
type Reader struct {
	source Source
	logger *zap.Logger
}

// NewReader constructs a reader over the given source.
func NewReader(source Source, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{source: source, logger: logger}
}

// Load fetches the trail for a record and derives display data. An empty
// record id yields no fetch and no items. A fetch failure degrades to an
// empty trail; audit history is best effort and never blocks the page.
func (r *Reader) Load(ctx context.Context, recordType domain.RecordType, recordID string) []Item {
	if strings.TrimSpace(recordID) == "" {
		return nil
	}

	entries, err := r.source.FetchAuditTrail(ctx, recordType, recordID)
	if err != nil {
		r.logger.Warn("audit trail fetch failed",
			zap.String("record_type", string(recordType)),
			zap.String("record_id", recordID),
			zap.Error(err))
		return nil
	}

	items := make([]Item, 0, len(entries))
	for i, entry := range entries {
		item := Item{
			Entry:   entry,
			Display: DisplayForAction(entry.Action),
			IsLast:  i == len(entries)-1,
		}
		if entry.Action == domain.AuditActionStatusChanged {
			from := stringField(entry.OldValues, "status")
			to := stringField(entry.NewValues, "status")
			// Render the transition pair only when both sides are present;
			// a half-populated entry falls back to the action label alone.
			if from != nil && to != nil {
				fromLabel := FormatStatusLabel(from)
				toLabel := FormatStatusLabel(to)
				item.FromLabel = &fromLabel
				item.ToLabel = &toLabel
			}
		}
		items = append(items, item)
	}
	return items
}

func stringField(values map[string]any, key string) *string {
	if values == nil {
		return nil
	}
	raw, ok := values[key]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
