package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/site-safety-service/internal/api/dto"
	"github.com/spec-kit/site-safety-service/internal/audittrail"
	"github.com/spec-kit/site-safety-service/internal/auth"
	"github.com/spec-kit/site-safety-service/internal/domain"
	"github.com/spec-kit/site-safety-service/internal/repository"
	"github.com/spec-kit/site-safety-service/internal/service"
	apperrors "github.com/spec-kit/site-safety-service/pkg/util/errorutil"
)

// RecordsHandler manages incident record endpoints.
type RecordsHandler struct {
	records *service.RecordService
	trail   *audittrail.Reader
}

// NewRecordsHandler constructs handler.
func NewRecordsHandler(recordService *service.RecordService, trail *audittrail.Reader) *RecordsHandler {
	return &RecordsHandler{records: recordService, trail: trail}
}

// CreateRecord POST /records/:type.
func (h *RecordsHandler) CreateRecord(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	recordType, err := recordTypeFromParam(c)
	if err != nil {
		return err
	}
	var req dto.CreateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.RecordCreateInput{
		Type:                  recordType,
		Description:           req.Description,
		Category:              req.Category,
		Severity:              req.Severity,
		Location:              req.Location,
		ObservationType:       req.ObservationType,
		DueDate:               req.DueDate,
		Witnesses:             dto.ToWitnesses(req.Witnesses),
		ThirdPartyInvolved:    req.ThirdPartyInvolved,
		ThirdPartyDetails:     req.ThirdPartyDetails,
		EquipmentFaulty:       req.EquipmentFaulty,
		EquipmentFaultDetails: req.EquipmentFaultDetails,
		SupervisorNotified:    req.SupervisorNotified,
		SupervisorName:        req.SupervisorName,
		FollowUpRequired:      req.FollowUpRequired,
		AssignedTo:            req.AssignedTo,
		Photos:                req.Photos,
	}
	record, err := h.records.CreateRecord(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToRecordResponse(record)})
}

// ListRecords GET /records/:type.
func (h *RecordsHandler) ListRecords(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	recordType, err := recordTypeFromParam(c)
	if err != nil {
		return err
	}
	filter := parseRecordQuery(c)
	records, err := h.records.ListRecords(c.Context(), recordType, principal.User.ID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.RecordResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.ToRecordResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetRecord GET /records/:type/:id.
func (h *RecordsHandler) GetRecord(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	recordType, err := recordTypeFromParam(c)
	if err != nil {
		return err
	}
	record, err := h.records.GetRecord(c.Context(), recordType, principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToRecordResponse(record)})
}

// UpdateRecord PATCH /records/:type/:id.
func (h *RecordsHandler) UpdateRecord(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	recordType, err := recordTypeFromParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.RecordUpdateInput{
		Description:           req.Description,
		Category:              req.Category,
		Severity:              req.Severity,
		Location:              req.Location,
		DueDate:               req.DueDate,
		Witnesses:             dto.ToWitnesses(req.Witnesses),
		ThirdPartyInvolved:    req.ThirdPartyInvolved,
		ThirdPartyDetails:     req.ThirdPartyDetails,
		EquipmentFaulty:       req.EquipmentFaulty,
		EquipmentFaultDetails: req.EquipmentFaultDetails,
		SupervisorNotified:    req.SupervisorNotified,
		SupervisorName:        req.SupervisorName,
		FollowUpRequired:      req.FollowUpRequired,
		AssignedTo:            req.AssignedTo,
		Photos:                req.Photos,
	}
	record, err := h.records.UpdateRecord(c.Context(), recordType, principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToRecordResponse(record)})
}

// ChangeStatus POST /records/:type/:id/status.
func (h *RecordsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	recordType, err := recordTypeFromParam(c)
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.records.ChangeStatus(c.Context(), recordType, principal.User.ID, c.Params("id"), req.Status, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToRecordResponse(record)})
}

// GetAuditTrail GET /records/:type/:id/audit.
func (h *RecordsHandler) GetAuditTrail(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	recordType, err := recordTypeFromParam(c)
	if err != nil {
		return err
	}
	// Ownership check happens via the record fetch; the trail itself is
	// best effort and renders empty on fetch problems.
	if _, err := h.records.GetRecord(c.Context(), recordType, principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	items := h.trail.Load(c.Context(), recordType, c.Params("id"))
	return c.JSON(fiber.Map{"data": dto.ToAuditResponse(items)})
}

func recordTypeFromParam(c *fiber.Ctx) (domain.RecordType, error) {
	recordType := domain.RecordType(c.Params("type"))
	switch recordType {
	case domain.RecordTypeNearMiss, domain.RecordTypeObservation:
		return recordType, nil
	}
	return "", apperrors.NewValidationError("unknown record type", map[string]any{"type": c.Params("type")})
}

func parseRecordQuery(c *fiber.Ctx) repository.RecordFilter {
	filter := repository.RecordFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.RecordStatus(strings.TrimSpace(part)))
		}
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if severityStr := c.Query("severity"); severityStr != "" {
		severity := domain.Severity(severityStr)
		filter.Severity = &severity
	}
	if followUp := c.Query("follow_up_required"); followUp != "" {
		parsed, err := strconv.ParseBool(followUp)
		if err == nil {
			filter.FollowUpRequired = &parsed
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
