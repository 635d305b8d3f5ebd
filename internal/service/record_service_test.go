package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/site-safety-service/internal/domain"
	"github.com/spec-kit/site-safety-service/internal/events"
	"github.com/spec-kit/site-safety-service/internal/lifecycle"
	"github.com/spec-kit/site-safety-service/internal/repository"
)

type memRecordRepo struct {
	records map[string]*domain.Record
	nextID  int
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{records: map[string]*domain.Record{}}
}

func (m *memRecordRepo) Create(_ context.Context, record *domain.Record) error {
	m.nextID++
	record.ID = "rec-" + string(rune('0'+m.nextID))
	clone := *record
	m.records[record.ID] = &clone
	return nil
}

func (m *memRecordRepo) Update(_ context.Context, record *domain.Record) error {
	clone := *record
	m.records[record.ID] = &clone
	return nil
}

func (m *memRecordRepo) GetByID(_ context.Context, _ domain.RecordType, id string) (*domain.Record, error) {
	stored, ok := m.records[id]
	if !ok {
		return nil, assert.AnError
	}
	clone := *stored
	return &clone, nil
}

func (m *memRecordRepo) ListByUser(_ context.Context, recordType domain.RecordType, userID string, _ repository.RecordFilter) ([]domain.Record, error) {
	out := []domain.Record{}
	for _, record := range m.records {
		if record.Type == recordType && record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (m *memRecordRepo) UpdateStatus(_ context.Context, _ domain.RecordType, recordID string, patch lifecycle.StatusPatch) error {
	stored, ok := m.records[recordID]
	if !ok {
		return assert.AnError
	}
	stored.Status = patch.Status
	if patch.TouchCompleted {
		stored.CompletedDate = patch.CompletedDate
	}
	return nil
}

type memAuditRepo struct {
	entries []domain.AuditEntry
}

func (m *memAuditRepo) Create(_ context.Context, entry *domain.AuditEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAuditRepo) FetchAuditTrail(_ context.Context, recordType domain.RecordType, recordID string) ([]domain.AuditEntry, error) {
	out := []domain.AuditEntry{}
	for _, entry := range m.entries {
		if entry.RecordType == recordType && entry.RecordID == recordID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type nopNotifier struct {
	sent []lifecycle.Notification
}

func (n *nopNotifier) Notify(_ context.Context, notification lifecycle.Notification) {
	n.sent = append(n.sent, notification)
}

func newTestRecordService() (*RecordService, *memRecordRepo, *memAuditRepo, *nopNotifier) {
	records := newMemRecordRepo()
	audit := &memAuditRepo{}
	notifier := &nopNotifier{}
	svc := NewRecordService(RecordDependencies{
		RecordRepo: records,
		AuditRepo:  audit,
		Notifier:   notifier,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	return svc, records, audit, notifier
}

func validCreateInput() RecordCreateInput {
	return RecordCreateInput{
		Type:        domain.RecordTypeNearMiss,
		Description: "Ladder slipped on wet floor",
		Category:    "slips_trips_falls",
		Severity:    domain.SeverityHigh,
		Location:    "Unit 4 switch room",
	}
}

func TestCreateRecordRequiresCoreFields(t *testing.T) {
	svc, _, _, _ := newTestRecordService()

	missing := validCreateInput()
	missing.Description = "   "
	_, err := svc.CreateRecord(context.Background(), "user-1", missing)
	assert.Error(t, err)

	missing = validCreateInput()
	missing.Category = ""
	_, err = svc.CreateRecord(context.Background(), "user-1", missing)
	assert.Error(t, err)

	missing = validCreateInput()
	missing.Location = ""
	_, err = svc.CreateRecord(context.Background(), "user-1", missing)
	assert.Error(t, err)
}

func TestCreateRecordRejectsInvalidSeverity(t *testing.T) {
	svc, _, _, _ := newTestRecordService()

	input := validCreateInput()
	input.Type = domain.RecordTypeObservation
	input.Severity = domain.SeverityCritical
	_, err := svc.CreateRecord(context.Background(), "user-1", input)
	assert.Error(t, err)
}

func TestCreateRecordWritesCreatedAuditEntry(t *testing.T) {
	svc, records, audit, _ := newTestRecordService()

	record, err := svc.CreateRecord(context.Background(), "user-1", validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, record.Status)
	assert.NotEmpty(t, record.ID)
	assert.Len(t, records.records, 1)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, domain.AuditActionCreated, entry.Action)
	assert.Equal(t, record.ID, entry.RecordID)
	assert.Equal(t, "open", entry.NewValues["status"])
}

func TestUpdateRecordAuditsOnlyChangedFields(t *testing.T) {
	svc, _, audit, _ := newTestRecordService()

	record, err := svc.CreateRecord(context.Background(), "user-1", validCreateInput())
	require.NoError(t, err)

	location := "Unit 5 plant room"
	updated, err := svc.UpdateRecord(context.Background(), record.Type, "user-1", record.ID, RecordUpdateInput{
		Location: &location,
	})
	require.NoError(t, err)
	assert.Equal(t, location, updated.Location)

	require.Len(t, audit.entries, 2)
	entry := audit.entries[1]
	assert.Equal(t, domain.AuditActionUpdated, entry.Action)
	assert.Equal(t, "Unit 4 switch room", entry.OldValues["location"])
	assert.Equal(t, location, entry.NewValues["location"])
	assert.NotContains(t, entry.NewValues, "description")
}

func TestUpdateRecordNoChangesSkipsAudit(t *testing.T) {
	svc, _, audit, _ := newTestRecordService()

	record, err := svc.CreateRecord(context.Background(), "user-1", validCreateInput())
	require.NoError(t, err)

	_, err = svc.UpdateRecord(context.Background(), record.Type, "user-1", record.ID, RecordUpdateInput{})
	require.NoError(t, err)
	assert.Len(t, audit.entries, 1)
}

func TestGetRecordDeniesOtherUsers(t *testing.T) {
	svc, _, _, _ := newTestRecordService()

	record, err := svc.CreateRecord(context.Background(), "user-1", validCreateInput())
	require.NoError(t, err)

	_, err = svc.GetRecord(context.Background(), record.Type, "user-2", record.ID)
	assert.Error(t, err)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newTestRecordService()

	record, err := svc.CreateRecord(context.Background(), "user-1", validCreateInput())
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), record.Type, "user-1", record.ID, "archived", nil)
	assert.Error(t, err)
}

func TestChangeStatusShapesAuditValuePair(t *testing.T) {
	svc, records, audit, notifier := newTestRecordService()

	record, err := svc.CreateRecord(context.Background(), "user-1", validCreateInput())
	require.NoError(t, err)

	updated, err := svc.ChangeStatus(context.Background(), record.Type, "user-1", record.ID, domain.StatusInProgress, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.Equal(t, domain.StatusInProgress, records.records[record.ID].Status)

	require.Len(t, audit.entries, 2)
	entry := audit.entries[1]
	assert.Equal(t, domain.AuditActionStatusChanged, entry.Action)
	assert.Equal(t, map[string]any{"status": "open"}, entry.OldValues)
	assert.Equal(t, map[string]any{"status": "in_progress"}, entry.NewValues)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "user-1", *entry.UserID)

	require.NotEmpty(t, notifier.sent)
	assert.Equal(t, lifecycle.VariantSuccess, notifier.sent[len(notifier.sent)-1].Variant)
}

func TestChangeStatusClosingStampsCompletedDate(t *testing.T) {
	svc, records, _, _ := newTestRecordService()

	record, err := svc.CreateRecord(context.Background(), "user-1", validCreateInput())
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), record.Type, "user-1", record.ID, domain.StatusInProgress, nil)
	require.NoError(t, err)

	closed, err := svc.ChangeStatus(context.Background(), record.Type, "user-1", record.ID, domain.StatusClosed, nil)
	require.NoError(t, err)
	require.NotNil(t, closed.CompletedDate)
	assert.Equal(t, *closed.CompletedDate, *records.records[record.ID].CompletedDate)
}
