package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/service"
	"github.com/atlasworks/atlas-api/internal/utils"
)

// TaskHandler serves the staff task board endpoints.
type TaskHandler struct {
	service service.TaskService
	logger  zerolog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(svc service.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service: svc,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register wires the task routes under the provided router group.
func (h *TaskHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *TaskHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	assigneeID, err := parseQueryInt(c, "assignee_id")
	if err != nil || assigneeID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignee id")
	}

	req := dto.TaskListRequest{
		Page:       page,
		PageSize:   pageSize,
		Status:     strings.TrimSpace(c.Query("status")),
		AssigneeID: uint(assigneeID),
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list tasks")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "tasks retrieved", result)
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.Create(c.Context(), actorFromContext(c), req)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to create task")
		}
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "task created", created)
}

func (h *TaskHandler) get(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	task, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "task retrieved", task)
}

func (h *TaskHandler) update(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.TaskUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.Update(c.Context(), actorFromContext(c), id, req)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to update task")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "task updated", updated)
}

func (h *TaskHandler) remove(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to delete task")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "task deleted", nil)
}
