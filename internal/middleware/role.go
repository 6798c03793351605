package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aramvn/task-tracker/internal/model"
)

// RequireRole enforces that the authenticated caller holds one of the
// given roles. Requests with a missing or disallowed role get 403. It
// assumes JWTAuth already ran and stored the role in context.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxRole).(model.Role)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
