package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/service"
	"github.com/atlasworks/atlas-api/internal/utils"
)

// RequestHandler serves client service requests. Clients only ever see their
// own submissions; staff see everything.
type RequestHandler struct {
	service service.RequestService
	logger  zerolog.Logger
}

// NewRequestHandler constructs the handler.
func NewRequestHandler(svc service.RequestService, logger zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		service: svc,
		logger:  logger.With().Str("component", "request_handler").Logger(),
	}
}

// Register wires the request routes under the provided router group. The
// workflow routes take an extra guard because only staff move or remove
// requests; everything else is scoped inside the service.
func (h *RequestHandler) Register(router fiber.Router, staffOnly fiber.Handler) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id/status", staffOnly, h.updateStatus)
	router.Delete("/:id", staffOnly, h.remove)
}

func (h *RequestHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	req := dto.RequestListRequest{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}

	result, err := h.service.List(c.Context(), actorFromContext(c), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list requests")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "requests retrieved", result)
}

func (h *RequestHandler) create(c *fiber.Ctx) error {
	var req dto.RequestCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.Create(c.Context(), actorFromContext(c), req)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to create request")
		}
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "request submitted", created)
}

func (h *RequestHandler) get(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	request, err := h.service.Get(c.Context(), actorFromContext(c), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "request retrieved", request)
}

func (h *RequestHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.RequestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.UpdateStatus(c.Context(), actorFromContext(c), id, req)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to update request status")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "request status updated", updated)
}

func (h *RequestHandler) remove(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to delete request")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "request deleted", nil)
}
