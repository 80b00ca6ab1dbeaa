package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/web"
)

// AuthHandler handles account endpoints: registration, login, the
// self-view and the account-repair actions.
type AuthHandler struct {
	authService ports.AuthService
	tokenTTL    time.Duration
}

func NewAuthHandler(authService ports.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, tokenTTL: tokenTTL}
}

type registerRequest struct {
	Name      string `json:"name"       validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=6"`
	Role      string `json:"role"       validate:"required,oneof=customer seller delivery"`
	Phone     string `json:"phone"`
	StoreName string `json:"store_name"`
	Vehicle   string `json:"vehicle"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

type applyRoleRequest struct {
	Role      string `json:"role" validate:"required,oneof=seller delivery"`
	StoreName string `json:"store_name"`
	Vehicle   string `json:"vehicle"`
	Message   string `json:"message"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
	Role  string       `json:"role,omitempty"`
}

type accountResponse struct {
	User         *domain.User    `json:"user"`
	Role         string          `json:"role,omitempty"`
	RoleResolved bool            `json:"role_resolved"`
	Profile      *domain.Profile `json:"profile,omitempty"`
}

// Register creates a new account with its role row and profile.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Sign-up details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Phone:     req.Phone,
		StoreName: req.StoreName,
		Vehicle:   req.Vehicle,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user, Role: req.Role})
}

// Login authenticates a user and returns a JWT token. The token is also
// set as the session cookie so page navigations authenticate without a
// header.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     web.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, authResponse{
		Token: result.Token,
		User:  result.User,
		Role:  string(result.Role),
	})
}

// Me returns the current user with the resolved role and profile.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	account, err := h.authService.Account(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountResponse{
		User:         account.User,
		Role:         string(account.Role),
		RoleResolved: account.RoleResolved,
		Profile:      account.Profile,
	})
}

// UpdatePassword verifies the current password and swaps in a new one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  updatePasswordRequest  true  "Current and new password"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/password [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.UpdatePassword(c.Request().Context(), ports.UpdatePasswordInput{
		UserID:          actor.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// RepairRole assigns the customer role to an account that has no role
// row. It backs the account-issue screen's explicit repair action.
//
// @Summary      Repair a role-less account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/account/repair [post]
func (h *AuthHandler) RepairRole(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.authService.RepairRole(c.Request().Context(), actor.UserID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"role": string(domain.RoleCustomer)})
}

// ApplyRole files a pending seller or delivery application for review.
//
// @Summary      Apply for the seller or delivery role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      applyRoleRequest  true  "Requested role and answers"
// @Success      201   {object}  domain.RoleApplication
// @Failure      409   {object}  map[string]string
// @Router       /v1/account/apply-role [post]
func (h *AuthHandler) ApplyRole(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req applyRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	application, err := h.authService.ApplyForRole(c.Request().Context(), ports.ApplyRoleInput{
		UserID:    actor.UserID,
		Role:      req.Role,
		StoreName: req.StoreName,
		Vehicle:   req.Vehicle,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, application)
}
