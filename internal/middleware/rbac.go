package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/atlasworks/atlas-api/internal/utils"
)

// RequireRole gates a route to the given roles. The current role is read from
// the "user_role" local populated by JWTProtected; tokens minted by this API
// always carry a single string role.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, _ := c.Locals("user_role").(string)
		current = strings.ToLower(strings.TrimSpace(current))
		if current != "" {
			for _, role := range roles {
				if strings.EqualFold(strings.TrimSpace(role), current) {
					return c.Next()
				}
			}
		}
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
}
