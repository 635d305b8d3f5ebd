package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/site-safety-service/internal/observability"
	"github.com/spec-kit/site-safety-service/internal/repository"
	"github.com/spec-kit/site-safety-service/internal/smarttext"
)

// SmartTextService runs the correction engine per session, restoring
// dismissals from the session store so they survive across requests.
type SmartTextService struct {
	dismissals repository.DismissalStore
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func NewSmartTextService(dismissals repository.DismissalStore, metrics *observability.Metrics, logger *zap.Logger) *SmartTextService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SmartTextService{dismissals: dismissals, metrics: metrics, logger: logger}
}

// ProcessText corrects the word just completed at the cursor.
func (s *SmartTextService) ProcessText(ctx context.Context, sessionID, buffer string, cursor int) (smarttext.Result, error) {
	engine, err := s.engineFor(ctx, sessionID)
	if err != nil {
		return smarttext.Result{}, err
	}
	result := engine.ProcessText(buffer, cursor)
	if result.Applied > 0 {
		s.metrics.RecordCorrection("autocorrect")
	}
	return result, nil
}

// CheckForSuggestions scans the whole buffer, honoring the session's
// dismissed suggestions.
func (s *SmartTextService) CheckForSuggestions(ctx context.Context, sessionID, buffer string) ([]smarttext.Suggestion, error) {
	engine, err := s.engineFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return engine.CheckForSuggestions(buffer), nil
}

// ApplySuggestion replaces the suggestion's span in the buffer.
func (s *SmartTextService) ApplySuggestion(ctx context.Context, sessionID, buffer string, suggestion smarttext.Suggestion) (string, error) {
	engine, err := s.engineFor(ctx, sessionID)
	if err != nil {
		return buffer, err
	}
	out := engine.ApplySuggestion(buffer, suggestion)
	if out != buffer {
		s.metrics.RecordCorrection(string(suggestion.Kind))
	}
	return out, nil
}

// DismissSuggestion records a dismissal for the session.
func (s *SmartTextService) DismissSuggestion(ctx context.Context, sessionID string, suggestion smarttext.Suggestion) error {
	key := smarttext.DismissKey{Start: suggestion.Start, Original: suggestion.Original}
	if s.dismissals == nil {
		return nil
	}
	if err := s.dismissals.Add(ctx, sessionID, key); err != nil {
		s.logger.Warn("dismissal store write failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *SmartTextService) engineFor(ctx context.Context, sessionID string) (*smarttext.Engine, error) {
	engine := smarttext.NewEngine()
	if s.dismissals == nil || sessionID == "" {
		return engine, nil
	}
	keys, err := s.dismissals.Load(ctx, sessionID)
	if err != nil {
		// A cold session store should not block typing; run without
		// the dismissal history.
		s.logger.Warn("dismissal store read failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return engine, nil
	}
	engine.RestoreDismissals(keys)
	return engine, nil
}
