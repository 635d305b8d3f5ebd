package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/site-safety-service/internal/api/dto"
	"github.com/spec-kit/site-safety-service/internal/auth"
	"github.com/spec-kit/site-safety-service/internal/domain"
	"github.com/spec-kit/site-safety-service/internal/service"
	apperrors "github.com/spec-kit/site-safety-service/pkg/util/errorutil"
)

// TemplatesHandler manages report template endpoints.
type TemplatesHandler struct {
	templates *service.TemplateService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templateService *service.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{templates: templateService}
}

// SaveTemplate POST /templates.
func (h *TemplatesHandler) SaveTemplate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SaveTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tmpl, err := h.templates.SaveTemplate(c.Context(), principal.User.ID, service.TemplateInput{
		Name:       req.Name,
		RecordType: req.RecordType,
		Fields:     req.Fields,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToTemplateResponse(tmpl)})
}

// ListTemplates GET /templates.
func (h *TemplatesHandler) ListTemplates(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var recordType *domain.RecordType
	if typeStr := c.Query("record_type"); typeStr != "" {
		rt := domain.RecordType(typeStr)
		recordType = &rt
	}
	templates, err := h.templates.ListTemplates(c.Context(), principal.User.ID, recordType)
	if err != nil {
		return err
	}
	items := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		items = append(items, dto.ToTemplateResponse(&templates[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTemplate GET /templates/:id.
func (h *TemplatesHandler) GetTemplate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	tmpl, err := h.templates.GetTemplate(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTemplateResponse(tmpl)})
}

// UpdateTemplate PUT /templates/:id.
func (h *TemplatesHandler) UpdateTemplate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SaveTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tmpl, err := h.templates.UpdateTemplate(c.Context(), principal.User.ID, c.Params("id"), service.TemplateInput{
		Name:       req.Name,
		RecordType: req.RecordType,
		Fields:     req.Fields,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTemplateResponse(tmpl)})
}

// DeleteTemplate DELETE /templates/:id.
func (h *TemplatesHandler) DeleteTemplate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.templates.DeleteTemplate(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
