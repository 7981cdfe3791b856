package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/pkg/roles"
)

// RequireRoles lets the request through when the caller holds at least one
// of the required roles. It must run after Auth.
func RequireRoles(required ...roles.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var bits any
			if user, ok := c.Get(UserKey).(domain.UserMetadata); ok {
				bits = user.Roles
			}
			if !roles.Authorized(required, bits) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
