package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/metrics"
)

// SessionCookie carries the token for browser page loads. API calls use
// the Authorization header instead; the gate accepts both.
const SessionCookie = "wcg_session"

const pageShell = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Cart Galaxy</title></head>
<body><div id="root" data-page="%s"></div><script src="/assets/app.js"></script></body>
</html>
`

const accountIssueShell = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Cart Galaxy</title></head>
<body><div id="root" data-page="account-issue" data-repair="/v1/account/repair"></div><script src="/assets/app.js"></script></body>
</html>
`

// Gate resolves the session once per page request and applies the
// redirect policy before serving the shell.
type Gate struct {
	sessions ports.SessionService
	logger   zerolog.Logger
}

func NewGate(sessions ports.SessionService, logger zerolog.Logger) *Gate {
	return &Gate{sessions: sessions, logger: logger}
}

// Register mounts every page route on the echo instance.
func (g *Gate) Register(e *echo.Echo) {
	for _, route := range Pages {
		e.GET(route.Path, g.Page(route))
	}
}

// Page returns the handler for one route of the page table.
func (g *Gate) Page(route Route) echo.HandlerFunc {
	return func(c echo.Context) error {
		state := g.sessions.Resolve(c.Request().Context(), TokenFromRequest(c))
		decision := Decide(state, route, c.Request().URL.Path)

		switch decision.Outcome {
		case Redirect:
			metrics.PageRedirectsTotal.WithLabelValues(string(decision.Target)).Inc()
			g.logger.Debug().
				Str("path", c.Request().URL.Path).
				Str("location", decision.Location).
				Msg("page redirect")
			return c.Redirect(http.StatusFound, decision.Location)
		case AccountIssue:
			g.logger.Warn().
				Str("path", c.Request().URL.Path).
				Str("user_id", state.User.ID).
				Msg("serving account-issue page")
			return c.HTML(http.StatusOK, accountIssueShell)
		default:
			return c.HTML(http.StatusOK, fmt.Sprintf(pageShell, pageName(route.Path)))
		}
	}
}

// TokenFromRequest extracts the bearer token, preferring the
// Authorization header over the session cookie.
func TokenFromRequest(c echo.Context) string {
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func pageName(path string) string {
	if path == "/" {
		return "landing"
	}
	name := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	return name
}
