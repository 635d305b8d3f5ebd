package audittrail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

type fakeSource struct {
	entries []domain.AuditEntry
	err     error
	fetches int
}

func (f *fakeSource) FetchAuditTrail(ctx context.Context, recordType domain.RecordType, recordID string) ([]domain.AuditEntry, error) {
	f.fetches++
	return f.entries, f.err
}

func strPtr(s string) *string { return &s }

func TestFormatStatusLabel(t *testing.T) {
	assert.Equal(t, "In Progress", FormatStatusLabel(strPtr("in_progress")))
	assert.Equal(t, "Open", FormatStatusLabel(strPtr("open")))
	assert.Equal(t, "In Progress", FormatStatusLabel(strPtr("In Progress")), "already formatted input is stable")
	assert.Equal(t, MissingValuePlaceholder, FormatStatusLabel(nil))
	assert.Equal(t, MissingValuePlaceholder, FormatStatusLabel(strPtr("")))
	assert.Equal(t, MissingValuePlaceholder, FormatStatusLabel(strPtr("___")))
}

func TestDisplayForAction_UnknownDegradesToUpdated(t *testing.T) {
	known := DisplayForAction(domain.AuditActionStatusChanged)
	assert.Equal(t, "Status Changed", known.Label)

	unknown := DisplayForAction(domain.AuditAction("escalated"))
	assert.Equal(t, DisplayForAction(domain.AuditActionUpdated), unknown)
}

func TestLoad_EmptyRecordIDSkipsFetch(t *testing.T) {
	source := &fakeSource{}
	reader := NewReader(source, nil)

	assert.Nil(t, reader.Load(context.Background(), domain.RecordTypeNearMiss, ""))
	assert.Nil(t, reader.Load(context.Background(), domain.RecordTypeNearMiss, "   "))
	assert.Zero(t, source.fetches, "no fetch may be issued without a record id")
}

func TestLoad_FetchFailureRendersEmpty(t *testing.T) {
	source := &fakeSource{err: errors.New("upstream down")}
	reader := NewReader(source, nil)

	items := reader.Load(context.Background(), domain.RecordTypeObservation, "rec-1")
	assert.Empty(t, items)
}

func TestLoad_StatusChangeNeedsBothSides(t *testing.T) {
	source := &fakeSource{entries: []domain.AuditEntry{
		{
			ID:         "a1",
			RecordID:   "rec-1",
			RecordType: domain.RecordTypeNearMiss,
			Action:     domain.AuditActionStatusChanged,
			OldValues:  map[string]any{"status": "open"},
			NewValues:  map[string]any{"status": "in_progress"},
			CreatedAt:  time.Now(),
		},
		{
			ID:         "a2",
			RecordID:   "rec-1",
			RecordType: domain.RecordTypeNearMiss,
			Action:     domain.AuditActionStatusChanged,
			OldValues:  nil,
			NewValues:  map[string]any{"status": "closed"},
			CreatedAt:  time.Now(),
		},
	}}
	reader := NewReader(source, nil)

	items := reader.Load(context.Background(), domain.RecordTypeNearMiss, "rec-1")
	require.Len(t, items, 2)

	require.NotNil(t, items[0].FromLabel)
	require.NotNil(t, items[0].ToLabel)
	assert.Equal(t, "Open", *items[0].FromLabel)
	assert.Equal(t, "In Progress", *items[0].ToLabel)

	assert.Nil(t, items[1].FromLabel, "half-populated entry renders action label only")
	assert.Nil(t, items[1].ToLabel)
}

func TestLoad_PreservesOrderAndMarksLast(t *testing.T) {
	source := &fakeSource{entries: []domain.AuditEntry{
		{ID: "a1", Action: domain.AuditActionCreated},
		{ID: "a2", Action: domain.AuditActionUpdated},
		{ID: "a3", Action: domain.AuditAction("mystery")},
	}}
	reader := NewReader(source, nil)

	items := reader.Load(context.Background(), domain.RecordTypeNearMiss, "rec-1")
	require.Len(t, items, 3)
	assert.Equal(t, "a1", items[0].Entry.ID)
	assert.Equal(t, "a3", items[2].Entry.ID)
	assert.False(t, items[0].IsLast)
	assert.False(t, items[1].IsLast)
	assert.True(t, items[2].IsLast)
	assert.Equal(t, "Updated", items[2].Display.Label)
}
