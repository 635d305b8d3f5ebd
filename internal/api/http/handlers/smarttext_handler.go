package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/site-safety-service/internal/api/dto"
	"github.com/spec-kit/site-safety-service/internal/auth"
	"github.com/spec-kit/site-safety-service/internal/service"
	"github.com/spec-kit/site-safety-service/internal/smarttext"
	apperrors "github.com/spec-kit/site-safety-service/pkg/util/errorutil"
)

// SmartTextHandler exposes the text correction engine. Dismissals are
// scoped per session; the session defaults to the authenticated user
// and can be narrowed with the X-Session-ID header.
type SmartTextHandler struct {
	smartText *service.SmartTextService
}

// NewSmartTextHandler constructs handler.
func NewSmartTextHandler(smartTextService *service.SmartTextService) *SmartTextHandler {
	return &SmartTextHandler{smartText: smartTextService}
}

// ProcessText POST /smart-text/process.
func (h *SmartTextHandler) ProcessText(c *fiber.Ctx) error {
	sessionID, err := sessionID(c)
	if err != nil {
		return err
	}
	var req dto.ProcessTextRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.smartText.ProcessText(c.Context(), sessionID, req.Text, req.CursorPosition)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProcessTextResponse{Text: result.Text, Applied: result.Applied}})
}

// CheckSuggestions POST /smart-text/suggestions.
func (h *SmartTextHandler) CheckSuggestions(c *fiber.Ctx) error {
	sessionID, err := sessionID(c)
	if err != nil {
		return err
	}
	var req dto.SuggestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	suggestions, err := h.smartText.CheckForSuggestions(c.Context(), sessionID, req.Text)
	if err != nil {
		return err
	}
	if suggestions == nil {
		suggestions = []smarttext.Suggestion{}
	}
	return c.JSON(fiber.Map{"data": dto.SuggestionsResponse{Suggestions: suggestions}})
}

// ApplySuggestion POST /smart-text/suggestions/apply.
func (h *SmartTextHandler) ApplySuggestion(c *fiber.Ctx) error {
	sessionID, err := sessionID(c)
	if err != nil {
		return err
	}
	var req dto.ApplySuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	text, err := h.smartText.ApplySuggestion(c.Context(), sessionID, req.Text, req.Suggestion)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ApplySuggestionResponse{Text: text}})
}

// DismissSuggestion POST /smart-text/suggestions/dismiss.
func (h *SmartTextHandler) DismissSuggestion(c *fiber.Ctx) error {
	sessionID, err := sessionID(c)
	if err != nil {
		return err
	}
	var req dto.DismissSuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.smartText.DismissSuggestion(c.Context(), sessionID, req.Suggestion); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"dismissed": true}})
}

func sessionID(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return "", apperrors.NewUnauthorized("user required")
	}
	if header := c.Get("X-Session-ID"); header != "" {
		return principal.User.ID + ":" + header, nil
	}
	return principal.User.ID, nil
}
