package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/service"
	"github.com/atlasworks/atlas-api/internal/utils"
)

// AuthHandler serves login and profile endpoints.
type AuthHandler struct {
	service   service.AuthService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc service.AuthService, validator *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:   svc,
		validator: validator,
		logger:    logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated auth routes.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/login", h.login)
}

// RegisterProtected wires the routes that require a valid token.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/me", h.me)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Login(c.Context(), req)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("login failed")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	if actor.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	profile, err := h.service.CurrentUser(c.Context(), actor.ID)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to load profile")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}
