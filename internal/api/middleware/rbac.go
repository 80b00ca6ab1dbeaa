package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// RBAC restricts a route to the given roles. It must run after Auth.
// An unresolved role matches nothing: accounts without a role row are
// refused here, never treated as customers.
func RBAC(allowed ...domain.Role) echo.MiddlewareFunc {
	roles := make(map[domain.Role]struct{}, len(allowed))
	for _, r := range allowed {
		roles[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state, ok := c.Get(StateKey).(domain.AuthState)
			if !ok || !state.Authenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication state")
			}
			if _, ok := roles[state.Role]; !ok || !state.RoleKnown() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
