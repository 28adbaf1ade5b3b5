package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/repository"
	"github.com/atlasworks/atlas-api/internal/service"
	"github.com/atlasworks/atlas-api/internal/utils"
)

// ContentCodec binds and renders one content variant. The generic handler
// stays payload-agnostic; everything variant-specific lives here.
type ContentCodec[T any, P repository.ContentPtr[T]] struct {
	// Singular names the variant in log lines and response messages.
	Singular string
	// DecodeCreate parses and validates a create payload into a fresh model.
	DecodeCreate func(c *fiber.Ctx) (P, error)
	// DecodeUpdate parses a patch payload into an apply callback plus the
	// caller-supplied change snapshot.
	DecodeUpdate func(c *fiber.Ctx) (func(P) error, *dto.ChangeSet, error)
	// Encode converts a model into its response DTO.
	Encode func(P) interface{}
}

// ContentHandler serves one content variant over the shared route shape.
type ContentHandler[T any, P repository.ContentPtr[T]] struct {
	service service.ContentService[T, P]
	codec   ContentCodec[T, P]
	logger  zerolog.Logger
}

// NewContentHandler constructs the handler for a single content variant.
func NewContentHandler[T any, P repository.ContentPtr[T]](svc service.ContentService[T, P], codec ContentCodec[T, P], logger zerolog.Logger) *ContentHandler[T, P] {
	return &ContentHandler[T, P]{
		service: svc,
		codec:   codec,
		logger:  logger.With().Str("component", strings.ReplaceAll(codec.Singular, " ", "_")+"_handler").Logger(),
	}
}

// RegisterPublic wires the read-only routes. Only published rows are served.
func (h *ContentHandler[T, P]) RegisterPublic(router fiber.Router) {
	router.Get("", h.listPublic)
	router.Get("/:slug", h.getBySlug)
}

// RegisterAdmin wires the authenticated management routes.
func (h *ContentHandler[T, P]) RegisterAdmin(router fiber.Router) {
	router.Get("", h.listAdmin)
	router.Post("", h.create)
	router.Get("/:id", h.getByID)
	router.Patch("/:id", h.update)
	router.Patch("/:id/published", h.setPublished)
	router.Delete("/:id", h.remove)
}

func (h *ContentHandler[T, P]) listPublic(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *ContentHandler[T, P]) listAdmin(c *fiber.Ctx) error {
	includeUnpublished := strings.EqualFold(c.Query("include_unpublished"), "true")
	return h.list(c, includeUnpublished)
}

func (h *ContentHandler[T, P]) list(c *fiber.Ctx, includeUnpublished bool) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	req := dto.ContentListRequest{
		Page:               page,
		PageSize:           pageSize,
		Search:             strings.TrimSpace(c.Query("search")),
		IncludeUnpublished: includeUnpublished,
	}

	items, pagination, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list content")
		return sendServiceError(c, err)
	}

	rendered := make([]interface{}, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, h.codec.Encode(item))
	}

	return utils.SendSuccess(c, h.codec.Singular+" list retrieved", dto.ContentListResponse[interface{}]{
		Items:      rendered,
		Pagination: pagination,
	})
}

func (h *ContentHandler[T, P]) getBySlug(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	item, err := h.service.GetBySlug(c.Context(), slug, false)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, h.codec.Singular+" retrieved", h.codec.Encode(item))
}

func (h *ContentHandler[T, P]) getByID(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}
	item, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, h.codec.Singular+" retrieved", h.codec.Encode(item))
}

func (h *ContentHandler[T, P]) create(c *fiber.Ctx) error {
	item, err := h.codec.DecodeCreate(c)
	if err != nil {
		return sendServiceError(c, err)
	}

	created, err := h.service.Create(c.Context(), actorFromContext(c), item)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to create content")
		}
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, h.codec.Singular+" created", h.codec.Encode(created))
}

func (h *ContentHandler[T, P]) update(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	apply, changes, err := h.codec.DecodeUpdate(c)
	if err != nil {
		return sendServiceError(c, err)
	}

	updated, err := h.service.Update(c.Context(), actorFromContext(c), id, apply, changes)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to update content")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, h.codec.Singular+" updated", h.codec.Encode(updated))
}

func (h *ContentHandler[T, P]) setPublished(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.SetPublishedRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.SetPublished(c.Context(), actorFromContext(c), id, req.Published)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to toggle published flag")
		}
		return sendServiceError(c, err)
	}

	message := h.codec.Singular + " unpublished"
	if req.Published {
		message = h.codec.Singular + " published"
	}
	return utils.SendSuccess(c, message, h.codec.Encode(updated))
}

func (h *ContentHandler[T, P]) remove(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to delete content")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, h.codec.Singular+" deleted", nil)
}
