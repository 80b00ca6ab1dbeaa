package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

type stubSessions struct {
	states map[string]domain.AuthState
}

func (s *stubSessions) Resolve(_ context.Context, token string) domain.AuthState {
	if state, ok := s.states[token]; ok {
		return state
	}
	return domain.Guest()
}

func newGateServer(states map[string]domain.AuthState) *echo.Echo {
	e := echo.New()
	gate := NewGate(&stubSessions{states: states}, zerolog.Nop())
	gate.Register(e)
	return e
}

func TestGate_GuestRendersLanding(t *testing.T) {
	e := newGateServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `data-page="landing"`) {
		t.Fatalf("body = %q, want the landing shell", rec.Body.String())
	}
}

func TestGate_GuestRedirectedFromGatedPage(t *testing.T) {
	e := newGateServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/delivery", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != "/login?next=%2Fdelivery" {
		t.Fatalf("location = %q, want /login?next=%%2Fdelivery", got)
	}
}

func TestGate_SessionCookieAuthenticates(t *testing.T) {
	e := newGateServer(map[string]domain.AuthState{
		"tok-customer": domain.Ready(&domain.User{ID: "u-1"}, domain.RoleCustomer),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-customer"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302 off the landing page", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != "/home" {
		t.Fatalf("location = %q, want /home", got)
	}
}

func TestGate_BearerHeaderAuthenticates(t *testing.T) {
	e := newGateServer(map[string]domain.AuthState{
		"tok-admin": domain.Ready(&domain.User{ID: "u-1"}, domain.RoleAdmin),
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer tok-admin")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `data-page="admin"`) {
		t.Fatalf("body = %q, want the admin shell", rec.Body.String())
	}
}

func TestGate_WrongRoleSentToWelcome(t *testing.T) {
	e := newGateServer(map[string]domain.AuthState{
		"tok-seller": domain.Ready(&domain.User{ID: "u-1"}, domain.RoleSeller),
	})

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-seller"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != "/welcome" {
		t.Fatalf("location = %q, want /welcome", got)
	}
}

func TestGate_AccountIssueRendersInPlace(t *testing.T) {
	e := newGateServer(map[string]domain.AuthState{
		"tok-broken": domain.AccountError(&domain.User{ID: "u-1"}, domain.ErrRoleUnavailable),
	})

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-broken"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, account issues render in place, never redirect", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `data-page="account-issue"`) {
		t.Fatalf("body = %q, want the account-issue shell", rec.Body.String())
	}
}

func TestPageName(t *testing.T) {
	cases := map[string]string{
		"/":                   "landing",
		"/cart":               "cart",
		"/product/:id":        "product",
		"/category/:category": "category",
	}
	for path, want := range cases {
		if got := pageName(path); got != want {
			t.Errorf("pageName(%q) = %q, want %q", path, got, want)
		}
	}
}
