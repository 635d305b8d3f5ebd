package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/site-safety-service/internal/config"
	"github.com/spec-kit/site-safety-service/internal/events"
	"github.com/spec-kit/site-safety-service/internal/lifecycle"
)

const feedCapacity = 50

// FeedItem is one delivered notification, retained for the recent feed.
type FeedItem struct {
	Title       string                        `json:"title"`
	Description string                        `json:"description"`
	Variant     lifecycle.NotificationVariant `json:"variant"`
	CreatedAt   time.Time                     `json:"created_at"`
}

// NotificationService delivers user-facing notifications. Every delivery
// lands in the in-memory feed; the webhook channel is best effort.
type NotificationService struct {
	cfg    config.NotificationConfig
	logger *zap.Logger
	client *http.Client

	mu   sync.Mutex
	feed []FeedItem
}

func NewNotificationService(cfg config.NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify records the notification and forwards it to the configured
// webhook when one is set.
func (s *NotificationService) Notify(ctx context.Context, n lifecycle.Notification) {
	item := FeedItem{
		Title:       n.Title,
		Description: n.Description,
		Variant:     n.Variant,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.feed = append(s.feed, item)
	if len(s.feed) > feedCapacity {
		s.feed = s.feed[len(s.feed)-feedCapacity:]
	}
	s.mu.Unlock()

	s.logger.Info("notification",
		zap.String("title", n.Title),
		zap.String("variant", string(n.Variant)))

	if s.cfg.WebhookURL != "" {
		s.deliverWebhook(ctx, item)
	}
}

// Recent returns the notification feed, newest last.
func (s *NotificationService) Recent() []FeedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FeedItem, len(s.feed))
	copy(out, s.feed)
	return out
}

// HandleRecordEvent translates a record event into a notification.
// Status changes are skipped here: the lifecycle manager already
// notifies per attempt and a second toast would double up.
func (s *NotificationService) HandleRecordEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventRecordCreated:
		s.Notify(ctx, lifecycle.Notification{
			Title:       "Report submitted",
			Description: "Your " + string(event.RecordType) + " report was saved.",
			Variant:     lifecycle.VariantSuccess,
		})
	case events.EventTemplateSaved:
		s.Notify(ctx, lifecycle.Notification{
			Title:       "Template saved",
			Description: "Your report template is ready to use.",
			Variant:     lifecycle.VariantSuccess,
		})
	case events.EventTemplateDeleted:
		s.Notify(ctx, lifecycle.Notification{
			Title:       "Template deleted",
			Description: "The report template was removed.",
			Variant:     lifecycle.VariantSuccess,
		})
	}
	return nil
}

func (s *NotificationService) deliverWebhook(ctx context.Context, item FeedItem) {
	body, err := json.Marshal(item)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		s.logger.Warn("webhook request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		s.logger.Warn("webhook rejected", zap.Int("status", resp.StatusCode))
	}
}
