package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/web"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	accountFn        func(ctx context.Context, userID string) (*ports.Account, error)
	updatePasswordFn func(ctx context.Context, input ports.UpdatePasswordInput) error
	repairRoleFn     func(ctx context.Context, userID string) error
	applyForRoleFn   func(ctx context.Context, input ports.ApplyRoleInput) (*domain.RoleApplication, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Account(ctx context.Context, userID string) (*ports.Account, error) {
	return s.accountFn(ctx, userID)
}

func (s *stubAuthService) UpdatePassword(ctx context.Context, input ports.UpdatePasswordInput) error {
	return s.updatePasswordFn(ctx, input)
}

func (s *stubAuthService) RepairRole(ctx context.Context, userID string) error {
	return s.repairRoleFn(ctx, userID)
}

func (s *stubAuthService) ApplyForRole(ctx context.Context, input ports.ApplyRoleInput) (*domain.RoleApplication, error) {
	return s.applyForRoleFn(ctx, input)
}

// authedContext builds a request context carrying a resolved auth state,
// the way the Auth middleware leaves it.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, user *domain.User, role domain.Role) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(stateKey, domain.Ready(user, role))
	return c
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Email != "alice@example.com" || input.Role != "seller" || input.StoreName != "Alice Goods" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u-1", Email: input.Email, Name: input.Name}, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"name":"Alice","email":"alice@example.com","password":"secret1","role":"seller","store_name":"Alice Goods"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role"] != "seller" {
		t.Fatalf("expected role in response, got %v", resp["role"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Register_AdminRoleRejected(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"name":"Eve","email":"eve@example.com","password":"secret1","role":"admin"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"name":"Bob","email":"bob@example.com","password":"secret1","role":"customer"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				Token: "token123",
				User:  &domain.User{ID: "u-1", Email: email, Name: "Alice"},
				Role:  domain.RoleCustomer,
			}, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"email":"alice@example.com","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["role"] != "customer" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	var session *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == web.SessionCookie {
			session = cookie
		}
	}
	if session == nil {
		t.Fatalf("session cookie not set")
	}
	if session.Value != "token123" || !session.HttpOnly || session.Path != "/" {
		t.Fatalf("unexpected cookie: %+v", session)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"email":"alice@example.com","password":"bad-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		accountFn: func(ctx context.Context, userID string) (*ports.Account, error) {
			if userID != "u-1" {
				t.Fatalf("unexpected user id %q", userID)
			}
			return &ports.Account{
				User:         &domain.User{ID: "u-1", Name: "Alice"},
				Role:         domain.RoleCustomer,
				RoleResolved: true,
				Profile:      &domain.Profile{UserID: "u-1", City: "Springfield"},
			}, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{ID: "u-1"}, domain.RoleCustomer)

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role"] != "customer" || resp["role_resolved"] != true {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Me_UnresolvedRoleNotDefaulted(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		accountFn: func(ctx context.Context, userID string) (*ports.Account, error) {
			return &ports.Account{
				User:         &domain.User{ID: "u-1"},
				Role:         domain.RoleUnresolved,
				RoleResolved: false,
			}, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{ID: "u-1"}, domain.RoleUnresolved)

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role_resolved"] != false {
		t.Fatalf("expected role_resolved=false, got %+v", resp)
	}
	if role, ok := resp["role"]; ok && role != "" {
		t.Fatalf("unresolved role must not surface a role, got %v", role)
	}
}

func TestAuthHandler_Me_MissingAuthState(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(&stubAuthService{}, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		updatePasswordFn: func(ctx context.Context, input ports.UpdatePasswordInput) error {
			if input.UserID != "u-1" || input.CurrentPassword != "old-pass" || input.NewPassword != "new-pass" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"current_password":"old-pass","new_password":"new-pass"}`)
	req := httptest.NewRequest(http.MethodPut, "/v1/auth/password", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{ID: "u-1"}, domain.RoleCustomer)

	if err := h.UpdatePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAuthHandler_RepairRole(t *testing.T) {
	e := echo.New()
	repaired := false
	stub := &stubAuthService{
		repairRoleFn: func(ctx context.Context, userID string) error {
			repaired = userID == "u-1"
			return nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/v1/account/repair", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{ID: "u-1"}, domain.RoleUnresolved)

	if err := h.RepairRole(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !repaired {
		t.Fatalf("repair not invoked for caller")
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role"] != "customer" {
		t.Fatalf("expected customer role, got %q", resp["role"])
	}
}

func TestAuthHandler_ApplyRole(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		applyForRoleFn: func(ctx context.Context, input ports.ApplyRoleInput) (*domain.RoleApplication, error) {
			if input.UserID != "u-1" || input.Role != "delivery" || input.Vehicle != "bike" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.RoleApplication{ID: "app-1", UserID: "u-1", RequestedRole: domain.RoleDelivery, Status: domain.ApplicationPending}, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"role":"delivery","vehicle":"bike"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/account/apply-role", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{ID: "u-1"}, domain.RoleCustomer)

	if err := h.ApplyRole(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "pending" || resp["requested_role"] != "delivery" {
		t.Fatalf("unexpected application: %+v", resp)
	}
}

func TestAuthHandler_ApplyRole_CustomerRoleRejected(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		applyForRoleFn: func(ctx context.Context, input ports.ApplyRoleInput) (*domain.RoleApplication, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := strings.NewReader(`{"role":"customer"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/account/apply-role", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{ID: "u-1"}, domain.RoleCustomer)

	err := h.ApplyRole(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
