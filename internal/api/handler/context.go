package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

// stateKey mirrors middleware.StateKey: both packages name the single
// context slot the auth middleware writes.
const stateKey = "auth_state"

// ctxState extracts the resolved auth state injected by the Auth
// middleware. Absence means the route was wired without Auth; that is a
// server bug surfaced as 401 rather than a nil dereference further down.
func ctxState(c echo.Context) (domain.AuthState, error) {
	state, ok := c.Get(stateKey).(domain.AuthState)
	if !ok || !state.Authenticated || state.User == nil {
		return domain.AuthState{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication state")
	}
	return state, nil
}

// ctxActor reduces the auth state to the explicit actor services take.
func ctxActor(c echo.Context) (ports.Actor, error) {
	state, err := ctxState(c)
	if err != nil {
		return ports.Actor{}, err
	}
	return ports.Actor{UserID: state.User.ID, Role: state.Role}, nil
}
