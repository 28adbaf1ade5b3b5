package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/atlasworks/atlas-api/internal/service"
	"github.com/atlasworks/atlas-api/internal/utils"
)

// errInvalidBody marks unparseable request payloads.
var errInvalidBody = errors.New("invalid request body")

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseParamID(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(parsed), nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok && id >= 0 {
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:   userIDFromContext(c),
		Role: userRoleFromContext(c),
	}
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// isInternal reports whether an error has no dedicated HTTP mapping and will
// surface as a 500. Handlers log these; expected errors stay quiet.
func isInternal(err error) bool {
	if err == nil {
		return false
	}
	if isValidationError(err) {
		return false
	}
	for _, known := range []error{
		errInvalidBody,
		service.ErrInvalidChanges,
		service.ErrActorRequired,
		service.ErrInvalidCredentials,
		service.ErrAccountDisabled,
		service.ErrContentNotFound,
		service.ErrTaskNotFound,
		service.ErrRequestNotFound,
		service.ErrUserNotFound,
		service.ErrSlugTaken,
		service.ErrUploadTooLarge,
		service.ErrUploadTypeNotAllowed,
	} {
		if errors.Is(err, known) {
			return false
		}
	}
	return true
}

// sendServiceError maps service sentinels onto HTTP statuses. Unknown errors
// become 500s with a generic message.
func sendServiceError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err), errors.Is(err, errInvalidBody), errors.Is(err, service.ErrInvalidChanges):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrActorRequired):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrAccountDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "account disabled")
	case errors.Is(err, service.ErrContentNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSlugTaken):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal error")
	}
}
