package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

// ErrUpdateInFlight is returned when a status change is requested for a
// record that already has one outstanding. The request is a no-op: no
// store call is made and no notification is sent.
var ErrUpdateInFlight = errors.New("status update already in flight")

// RecordStore persists status patches. The store must apply the patch
// atomically; the manager only advances local state after it succeeds.
type RecordStore interface {
	UpdateStatus(ctx context.Context, recordType domain.RecordType, recordID string, patch StatusPatch) error
}

// StatusChange is the audit request emitted once per successful transition.
type StatusChange struct {
	RecordType domain.RecordType
	RecordID   string
	UserID     *string
	OldStatus  domain.RecordStatus
	NewStatus  domain.RecordStatus
	Reason     *string
}

// AuditSink receives one StatusChange per successful transition.
type AuditSink interface {
	RecordStatusChange(ctx context.Context, change StatusChange) error
}

// NotificationVariant selects the toast styling for a notification.
type NotificationVariant string

const (
	VariantSuccess     NotificationVariant = "success"
	VariantDestructive NotificationVariant = "destructive"
)

// Notification is the fire-and-forget user-facing message sent exactly
// once per status-change attempt.
type Notification struct {
	Title       string
	Description string
	Variant     NotificationVariant
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Manager enforces the record status state machine. Managers are
// independently constructible; each carries its own per-record gates and
// no package-level state.
type Manager struct {
	store    RecordStore
	audit    AuditSink
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewManager constructs a lifecycle manager.
func NewManager(store RecordStore, audit AuditSink, notifier Notifier, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:    store,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// SetClock overrides the time source. Intended for tests.
func (m *Manager) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// ChangeStatus moves the record to next, persisting first and mutating the
// record in memory only after the store write succeeds. Exactly one
// notification is sent per attempt, and one audit request per successful
// transition. A second call for the same record while one is outstanding
// returns ErrUpdateInFlight without touching the store.
func (m *Manager) ChangeStatus(ctx context.Context, record *domain.Record, next domain.RecordStatus, reason *string) error {
	if record == nil || record.ID == "" {
		return errors.New("record required")
	}

	if !m.acquire(record.ID) {
		return ErrUpdateInFlight
	}
	defer m.release(record.ID)

	oldStatus := domain.NormalizeStatus(record.Status)
	patch := ComputeTransition(oldStatus, next, m.now())

	if err := m.store.UpdateStatus(ctx, record.Type, record.ID, patch); err != nil {
		m.notify(ctx, Notification{
			Title:       "Update failed",
			Description: "Could not update the report status. Please try again.",
			Variant:     VariantDestructive,
		})
		return fmt.Errorf("update status: %w", err)
	}

	record.Status = patch.Status
	if patch.TouchCompleted {
		record.CompletedDate = patch.CompletedDate
	}

	if m.audit != nil {
		change := StatusChange{
			RecordType: record.Type,
			RecordID:   record.ID,
			OldStatus:  oldStatus,
			NewStatus:  next,
			Reason:     reason,
		}
		if record.UserID != "" {
			userID := record.UserID
			change.UserID = &userID
		}
		if err := m.audit.RecordStatusChange(ctx, change); err != nil {
			// Audit history is best effort; the status change already
			// persisted, so log and carry on.
			m.logger.Warn("audit write failed",
				zap.String("record_id", record.ID),
				zap.String("record_type", string(record.Type)),
				zap.Error(err))
		}
	}

	m.notify(ctx, Notification{
		Title:       "Status updated",
		Description: "Report moved to " + statusLabel(next) + ".",
		Variant:     VariantSuccess,
	})
	return nil
}

func (m *Manager) acquire(recordID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inFlight[recordID]; busy {
		return false
	}
	m.inFlight[recordID] = struct{}{}
	return true
}

func (m *Manager) release(recordID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, recordID)
}

func (m *Manager) notify(ctx context.Context, n Notification) {
	if m.notifier == nil {
		return
	}
	m.notifier.Notify(ctx, n)
}

func statusLabel(s domain.RecordStatus) string {
	switch s {
	case domain.StatusOpen:
		return "Open"
	case domain.StatusInProgress:
		return "In Progress"
	case domain.StatusClosed:
		return "Closed"
	}
	return string(s)
}
