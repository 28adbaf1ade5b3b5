package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/service"
	"github.com/atlasworks/atlas-api/internal/utils"
)

// StatsHandler serves the public headline metrics and their admin upsert.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(svc service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: svc,
		logger:  logger.With().Str("component", "stats_handler").Logger(),
	}
}

// RegisterPublic wires the read-only stats route.
func (h *StatsHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.get)
}

// RegisterAdmin wires the stats upsert route.
func (h *StatsHandler) RegisterAdmin(router fiber.Router) {
	router.Put("", h.upsert)
}

func (h *StatsHandler) get(c *fiber.Ctx) error {
	stats, err := h.service.Get(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load stats")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "stats retrieved", stats)
}

func (h *StatsHandler) upsert(c *fiber.Ctx) error {
	var req dto.StatsUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	stats, err := h.service.Upsert(c.Context(), actorFromContext(c), req)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to upsert stats")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "stats updated", stats)
}
