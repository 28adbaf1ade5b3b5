package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/atlasworks/atlas-api/internal/service"
	"github.com/atlasworks/atlas-api/internal/utils"
)

// UploadHandler handles media uploads for content editors.
type UploadHandler struct {
	service service.UploadService
	logger  zerolog.Logger
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(svc service.UploadService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		service: svc,
		logger:  logger.With().Str("component", "upload_handler").Logger(),
	}
}

// Register wires upload routes.
func (h *UploadHandler) Register(router fiber.Router) {
	router.Post("", h.upload)
	router.Get("", h.recent)
}

func (h *UploadHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	var userID *uint
	if id := userIDFromContext(c); id > 0 {
		userID = &id
	}

	result, err := h.service.Upload(c.Context(), file, userID)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("upload failed")
		}
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "upload successful", result)
}

func (h *UploadHandler) recent(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	uploads, err := h.service.Recent(c.Context(), userIDFromContext(c), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list uploads")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "uploads retrieved", uploads)
}
