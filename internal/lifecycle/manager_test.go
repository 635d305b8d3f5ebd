package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

type fakeStore struct {
	calls   []StatusPatch
	failErr error
	entered chan struct{}
	proceed chan struct{}
}

func (f *fakeStore) UpdateStatus(ctx context.Context, recordType domain.RecordType, recordID string, patch StatusPatch) error {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.proceed
	}
	f.calls = append(f.calls, patch)
	return f.failErr
}

type fakeSink struct {
	changes []StatusChange
	failErr error
}

func (f *fakeSink) RecordStatusChange(ctx context.Context, change StatusChange) error {
	f.changes = append(f.changes, change)
	return f.failErr
}

type fakeNotifier struct {
	sent []Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n Notification) {
	f.sent = append(f.sent, n)
}

func fixedClock(day string) func() time.Time {
	t, _ := time.Parse(CompletedDateLayout, day)
	return func() time.Time { return t }
}

func newTestManager(store *fakeStore, sink *fakeSink, notifier *fakeNotifier) *Manager {
	m := NewManager(store, sink, notifier, nil)
	m.SetClock(fixedClock("2026-09-01"))
	return m
}

func strPtr(s string) *string { return &s }

func TestComputeTransition_StartClearsCompletedDate(t *testing.T) {
	patch := ComputeTransition(domain.StatusOpen, domain.StatusInProgress, time.Now())
	assert.Equal(t, domain.StatusInProgress, patch.Status)
	assert.True(t, patch.TouchCompleted)
	assert.Nil(t, patch.CompletedDate)
}

func TestComputeTransition_CloseStampsToday(t *testing.T) {
	now, err := time.Parse(CompletedDateLayout, "2026-03-15")
	require.NoError(t, err)

	patch := ComputeTransition(domain.StatusInProgress, domain.StatusClosed, now)
	assert.Equal(t, domain.StatusClosed, patch.Status)
	require.True(t, patch.TouchCompleted)
	require.NotNil(t, patch.CompletedDate)
	assert.Equal(t, "2026-03-15", *patch.CompletedDate)
}

func TestComputeTransition_ReopenLeavesCompletedDateAlone(t *testing.T) {
	patch := ComputeTransition(domain.StatusInProgress, domain.StatusOpen, time.Now())
	assert.Equal(t, domain.StatusOpen, patch.Status)
	assert.False(t, patch.TouchCompleted)
}

func TestComputeTransition_MissingStatusDefaultsToOpen(t *testing.T) {
	patch := ComputeTransition("", domain.StatusInProgress, time.Now())
	assert.True(t, patch.TouchCompleted, "default open status should clear completed_date on start")
}

func TestComputeTransition_OutOfClosedIsPlainOverwrite(t *testing.T) {
	patch := ComputeTransition(domain.StatusClosed, domain.StatusOpen, time.Now())
	assert.Equal(t, domain.StatusOpen, patch.Status)
	assert.False(t, patch.TouchCompleted)
}

func TestChangeStatus_SuccessAdvancesRecordAndAudits(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	notifier := &fakeNotifier{}
	m := newTestManager(store, sink, notifier)

	record := &domain.Record{
		ID:     "rec-1",
		Type:   domain.RecordTypeNearMiss,
		UserID: "user-1",
		Status: domain.StatusInProgress,
	}

	err := m.ChangeStatus(context.Background(), record, domain.StatusClosed, nil)
	require.NoError(t, err)

	require.Len(t, store.calls, 1)
	assert.Equal(t, domain.StatusClosed, record.Status)
	require.NotNil(t, record.CompletedDate)
	assert.Equal(t, "2026-09-01", *record.CompletedDate)

	require.Len(t, sink.changes, 1)
	change := sink.changes[0]
	assert.Equal(t, domain.StatusInProgress, change.OldStatus)
	assert.Equal(t, domain.StatusClosed, change.NewStatus)
	assert.Equal(t, "rec-1", change.RecordID)
	require.NotNil(t, change.UserID)
	assert.Equal(t, "user-1", *change.UserID)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, VariantSuccess, notifier.sent[0].Variant)
}

func TestChangeStatus_StartClearsStaleCompletedDate(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store, &fakeSink{}, &fakeNotifier{})

	record := &domain.Record{
		ID:            "rec-2",
		Type:          domain.RecordTypeObservation,
		Status:        domain.StatusOpen,
		CompletedDate: strPtr("2026-01-01"),
	}

	require.NoError(t, m.ChangeStatus(context.Background(), record, domain.StatusInProgress, nil))
	assert.Equal(t, domain.StatusInProgress, record.Status)
	assert.Nil(t, record.CompletedDate)
}

func TestChangeStatus_ReopenKeepsStoredCompletedDate(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store, &fakeSink{}, &fakeNotifier{})

	record := &domain.Record{
		ID:            "rec-3",
		Type:          domain.RecordTypeNearMiss,
		Status:        domain.StatusInProgress,
		CompletedDate: strPtr("2026-02-02"),
	}

	require.NoError(t, m.ChangeStatus(context.Background(), record, domain.StatusOpen, nil))
	assert.Equal(t, domain.StatusOpen, record.Status)
	require.NotNil(t, record.CompletedDate)
	assert.Equal(t, "2026-02-02", *record.CompletedDate)
}

func TestChangeStatus_StoreFailureLeavesRecordUntouched(t *testing.T) {
	store := &fakeStore{failErr: errors.New("connection reset")}
	sink := &fakeSink{}
	notifier := &fakeNotifier{}
	m := newTestManager(store, sink, notifier)

	record := &domain.Record{
		ID:     "rec-4",
		Type:   domain.RecordTypeNearMiss,
		Status: domain.StatusInProgress,
	}

	err := m.ChangeStatus(context.Background(), record, domain.StatusClosed, nil)
	require.Error(t, err)

	assert.Equal(t, domain.StatusInProgress, record.Status)
	assert.Nil(t, record.CompletedDate)
	assert.Empty(t, sink.changes, "no audit entry on failed persistence")

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, VariantDestructive, notifier.sent[0].Variant)
}

func TestChangeStatus_GateRejectsConcurrentRequest(t *testing.T) {
	store := &fakeStore{
		entered: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	notifier := &fakeNotifier{}
	m := newTestManager(store, &fakeSink{}, notifier)

	first := &domain.Record{ID: "rec-5", Type: domain.RecordTypeNearMiss, Status: domain.StatusOpen}
	second := &domain.Record{ID: "rec-5", Type: domain.RecordTypeNearMiss, Status: domain.StatusOpen}

	done := make(chan error, 1)
	go func() {
		done <- m.ChangeStatus(context.Background(), first, domain.StatusInProgress, nil)
	}()
	<-store.entered

	err := m.ChangeStatus(context.Background(), second, domain.StatusInProgress, nil)
	assert.ErrorIs(t, err, ErrUpdateInFlight)

	close(store.proceed)
	require.NoError(t, <-done)

	assert.Len(t, store.calls, 1, "gated request must not reach the store")
	assert.Len(t, notifier.sent, 1, "gated request is not an attempt, no notification")
}

func TestChangeStatus_GateReleasedAfterFailure(t *testing.T) {
	store := &fakeStore{failErr: errors.New("boom")}
	m := newTestManager(store, &fakeSink{}, &fakeNotifier{})

	record := &domain.Record{ID: "rec-6", Type: domain.RecordTypeNearMiss, Status: domain.StatusOpen}

	require.Error(t, m.ChangeStatus(context.Background(), record, domain.StatusInProgress, nil))

	// The gate must not stay stuck; a retry goes through.
	store.failErr = nil
	require.NoError(t, m.ChangeStatus(context.Background(), record, domain.StatusInProgress, nil))
	assert.Len(t, store.calls, 2)
}

func TestChangeStatus_AuditFailureDoesNotFailOperation(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{failErr: errors.New("audit down")}
	notifier := &fakeNotifier{}
	m := newTestManager(store, sink, notifier)

	record := &domain.Record{ID: "rec-7", Type: domain.RecordTypeObservation, Status: domain.StatusInProgress}

	require.NoError(t, m.ChangeStatus(context.Background(), record, domain.StatusClosed, nil))
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, VariantSuccess, notifier.sent[0].Variant)
}
