package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

// AdminFunctionsHandler dispatches the admin function-call endpoint.
type AdminFunctionsHandler struct {
	admin ports.AdminService
}

func NewAdminFunctionsHandler(admin ports.AdminService) *AdminFunctionsHandler {
	return &AdminFunctionsHandler{admin: admin}
}

// userAccountResponse joins a user with its role and profile. Accounts
// without a role row report role_resolved=false and an empty role; the
// admin UI shows them as unresolved, not as customers.
type userAccountResponse struct {
	User         *domain.User    `json:"user"`
	Role         string          `json:"role,omitempty"`
	RoleResolved bool            `json:"role_resolved"`
	Profile      *domain.Profile `json:"profile,omitempty"`
}

type userListResponse struct {
	Data       []userAccountResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}

type orderWithCustomerResponse struct {
	Order         *domain.Order `json:"order"`
	CustomerName  string        `json:"customer_name,omitempty"`
	CustomerEmail string        `json:"customer_email,omitempty"`
}

type adminOrderListResponse struct {
	Data       []orderWithCustomerResponse `json:"data"`
	Pagination paginationResponse          `json:"pagination"`
}

type analyticsResponse struct {
	TotalUsers         int64                             `json:"total_users"`
	TotalProducts      int64                             `json:"total_products"`
	TotalOrders        int64                             `json:"total_orders"`
	Revenue            float64                           `json:"revenue"`
	OrdersByStatus     map[domain.OrderStatus]int64      `json:"orders_by_status"`
	AssignmentsByState map[domain.AssignmentStatus]int64 `json:"assignments_by_status"`
	RecentOrders       []*domain.Order                   `json:"recent_orders"`
}

type pagedParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type updateUserRoleParams struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role"    validate:"required"`
}

type assignDeliveryParams struct {
	OrderReference string `json:"order_reference" validate:"required"`
	CourierID      string `json:"courier_id"      validate:"required"`
}

type applicationsParams struct {
	Status string `json:"status"`
}

type applicationIDParams struct {
	ApplicationID string `json:"application_id" validate:"required"`
}

type updateSettingsParams struct {
	StoreName             string  `json:"store_name"              validate:"required"`
	SupportEmail          string  `json:"support_email"           validate:"required,email"`
	Currency              string  `json:"currency"                validate:"required"`
	ShippingFee           float64 `json:"shipping_fee"            validate:"gte=0"`
	FreeShippingThreshold float64 `json:"free_shipping_threshold" validate:"gte=0"`
	MaintenanceMode       bool    `json:"maintenance_mode"`
}

// Dispatch handles POST /v1/functions/admin_functions.
//
// Actions: get_users, update_user_role, get_orders_with_users,
// assign_delivery, get_role_applications, approve_application,
// reject_application, get_analytics, get_store_settings,
// update_store_settings.
//
// @Summary      Admin function call
// @Tags         functions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      map[string]any  true  "{action, ...params}"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/functions/admin_functions [post]
func (h *AdminFunctionsHandler) Dispatch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	action, body, err := decodeFunctionCall(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	switch action {
	case "get_users":
		var p pagedParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		result, err := h.admin.Users(ctx, p.Page, p.Limit)
		if err != nil {
			return err
		}
		items := make([]userAccountResponse, 0, len(result.Items))
		for _, a := range result.Items {
			items = append(items, userAccountResponse{
				User:         a.User,
				Role:         string(a.Role),
				RoleResolved: a.RoleResolved,
				Profile:      a.Profile,
			})
		}
		return c.JSON(http.StatusOK, userListResponse{
			Data: items,
			Pagination: paginationResponse{
				Total:      result.Total,
				Page:       result.Page,
				Limit:      result.Limit,
				TotalPages: result.TotalPages,
			},
		})

	case "update_user_role":
		var p updateUserRoleParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		if err := h.admin.UpdateUserRole(ctx, p.UserID, p.Role); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]string{"user_id": p.UserID, "role": p.Role})

	case "get_orders_with_users":
		var p pagedParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		result, err := h.admin.OrdersWithUsers(ctx, p.Page, p.Limit)
		if err != nil {
			return err
		}
		items := make([]orderWithCustomerResponse, 0, len(result.Items))
		for _, o := range result.Items {
			items = append(items, orderWithCustomerResponse{
				Order:         o.Order,
				CustomerName:  o.CustomerName,
				CustomerEmail: o.CustomerEmail,
			})
		}
		return c.JSON(http.StatusOK, adminOrderListResponse{
			Data: items,
			Pagination: paginationResponse{
				Total:      result.Total,
				Page:       result.Page,
				Limit:      result.Limit,
				TotalPages: result.TotalPages,
			},
		})

	case "assign_delivery":
		var p assignDeliveryParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		assignment, err := h.admin.AssignDelivery(ctx, actor.UserID, p.OrderReference, p.CourierID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, assignment)

	case "get_role_applications":
		var p applicationsParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		applications, err := h.admin.Applications(ctx, p.Status)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, applications)

	case "approve_application":
		var p applicationIDParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		application, err := h.admin.ApproveApplication(ctx, actor.UserID, p.ApplicationID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, application)

	case "reject_application":
		var p applicationIDParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		application, err := h.admin.RejectApplication(ctx, actor.UserID, p.ApplicationID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, application)

	case "get_analytics":
		analytics, err := h.admin.Analytics(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, analyticsResponse{
			TotalUsers:         analytics.TotalUsers,
			TotalProducts:      analytics.TotalProducts,
			TotalOrders:        analytics.TotalOrders,
			Revenue:            analytics.Revenue,
			OrdersByStatus:     analytics.OrdersByStatus,
			AssignmentsByState: analytics.AssignmentsByState,
			RecentOrders:       analytics.RecentOrders,
		})

	case "get_store_settings":
		settings, err := h.admin.StoreSettings(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, settings)

	case "update_store_settings":
		var p updateSettingsParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		settings, err := h.admin.UpdateStoreSettings(ctx, ports.UpdateSettingsInput{
			StoreName:             p.StoreName,
			SupportEmail:          p.SupportEmail,
			Currency:              p.Currency,
			ShippingFee:           p.ShippingFee,
			FreeShippingThreshold: p.FreeShippingThreshold,
			MaintenanceMode:       p.MaintenanceMode,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, settings)
	}

	return unknownAction(action)
}
