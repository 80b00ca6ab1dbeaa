package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/web"
)

// StateKey is the one context slot the auth middleware writes. Handlers
// read it back through a narrow helper; no other identity state rides
// on the request.
const StateKey = "auth_state"

// Auth resolves the request's session and requires an authenticated user.
// The token comes from the Authorization header or the session cookie.
// A session whose role store kept failing after retries surfaces the
// account-issue error instead of being downgraded to guest.
func Auth(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := web.TokenFromRequest(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed authorization")
			}

			state := sessions.Resolve(c.Request().Context(), token)
			if state.Phase == domain.PhaseError {
				if state.Err != nil {
					return state.Err
				}
				return domain.ErrRoleUnavailable
			}
			if !state.Authenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(StateKey, state)
			return next(c)
		}
	}
}
