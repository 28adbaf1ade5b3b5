package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/service"
	"github.com/atlasworks/atlas-api/internal/utils"
)

// ActivityHandler serves the audit trail endpoints and the live stream.
type ActivityHandler struct {
	service service.ActivityService
	broker  *service.ActivityBroker
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(svc service.ActivityService, broker *service.ActivityBroker, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: svc,
		broker:  broker,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires the activity routes under the provided router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.handleStream))

	router.Get("", h.list)
	router.Get("/:entityType/:id", h.listByEntity)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	actorID, err := parseQueryInt(c, "actor_id")
	if err != nil || actorID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor id")
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		Action:     strings.TrimSpace(c.Query("action")),
		EntityType: strings.TrimSpace(c.Query("entity_type")),
		ActorID:    uint(actorID),
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list activity")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "activity retrieved", result)
}

func (h *ActivityHandler) listByEntity(c *fiber.Ctx) error {
	entityType := strings.TrimSpace(c.Params("entityType"))
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	entries, err := h.service.ListByEntity(c.Context(), entityType, id)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list entity history")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "entity history retrieved", entries)
}

// handleStream pushes newly recorded activity to the connected admin client
// until the peer closes the socket.
func (h *ActivityHandler) handleStream(conn *websocket.Conn) {
	actor := fmt.Sprint(conn.Locals("user_id"))
	h.logger.Info().Str("actor", actor).Msg("activity stream connected")

	events := h.broker.Subscribe()
	defer h.broker.Unsubscribe(events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case record, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(record); err != nil {
				h.logger.Debug().Err(err).Msg("activity stream write failed")
				return
			}
		case <-done:
			h.logger.Info().Str("actor", actor).Msg("activity stream disconnected")
			return
		}
	}
}
