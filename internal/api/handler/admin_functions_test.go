package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

type stubAdminService struct {
	usersFn          func(ctx context.Context, page, limit int) (*ports.UserAccountPage, error)
	updateRoleFn     func(ctx context.Context, userID, role string) error
	ordersFn         func(ctx context.Context, page, limit int) (*ports.OrderWithCustomerPage, error)
	assignFn         func(ctx context.Context, adminID, orderReference, courierID string) (*domain.DeliveryAssignment, error)
	applicationsFn   func(ctx context.Context, status string) ([]*domain.RoleApplication, error)
	approveFn        func(ctx context.Context, adminID, applicationID string) (*domain.RoleApplication, error)
	rejectFn         func(ctx context.Context, adminID, applicationID string) (*domain.RoleApplication, error)
	analyticsFn      func(ctx context.Context) (*ports.Analytics, error)
	settingsFn       func(ctx context.Context) (*domain.StoreSettings, error)
	updateSettingsFn func(ctx context.Context, input ports.UpdateSettingsInput) (*domain.StoreSettings, error)
}

func (s *stubAdminService) Users(ctx context.Context, page, limit int) (*ports.UserAccountPage, error) {
	return s.usersFn(ctx, page, limit)
}

func (s *stubAdminService) UpdateUserRole(ctx context.Context, userID, role string) error {
	return s.updateRoleFn(ctx, userID, role)
}

func (s *stubAdminService) OrdersWithUsers(ctx context.Context, page, limit int) (*ports.OrderWithCustomerPage, error) {
	return s.ordersFn(ctx, page, limit)
}

func (s *stubAdminService) AssignDelivery(ctx context.Context, adminID, orderReference, courierID string) (*domain.DeliveryAssignment, error) {
	return s.assignFn(ctx, adminID, orderReference, courierID)
}

func (s *stubAdminService) Applications(ctx context.Context, status string) ([]*domain.RoleApplication, error) {
	return s.applicationsFn(ctx, status)
}

func (s *stubAdminService) ApproveApplication(ctx context.Context, adminID, applicationID string) (*domain.RoleApplication, error) {
	return s.approveFn(ctx, adminID, applicationID)
}

func (s *stubAdminService) RejectApplication(ctx context.Context, adminID, applicationID string) (*domain.RoleApplication, error) {
	return s.rejectFn(ctx, adminID, applicationID)
}

func (s *stubAdminService) Analytics(ctx context.Context) (*ports.Analytics, error) {
	return s.analyticsFn(ctx)
}

func (s *stubAdminService) StoreSettings(ctx context.Context) (*domain.StoreSettings, error) {
	return s.settingsFn(ctx)
}

func (s *stubAdminService) UpdateStoreSettings(ctx context.Context, input ports.UpdateSettingsInput) (*domain.StoreSettings, error) {
	return s.updateSettingsFn(ctx, input)
}

func dispatchAdmin(t *testing.T, stub *stubAdminService, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	h := NewAdminFunctionsHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/functions/admin_functions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{ID: "adm-1"}, domain.RoleAdmin)

	return rec, h.Dispatch(c)
}

func TestAdminFunctions_GetUsers(t *testing.T) {
	stub := &stubAdminService{
		usersFn: func(ctx context.Context, page, limit int) (*ports.UserAccountPage, error) {
			if page != 2 || limit != 25 {
				t.Fatalf("pagination not forwarded: page=%d limit=%d", page, limit)
			}
			return &ports.UserAccountPage{
				Items: []ports.UserAccount{
					{User: &domain.User{ID: "u-1", Email: "ana@example.com"}, Role: domain.RoleSeller, RoleResolved: true},
					{User: &domain.User{ID: "u-2", Email: "bo@example.com"}, RoleResolved: false},
				},
				Total:      52,
				Page:       2,
				Limit:      25,
				TotalPages: 3,
			}, nil
		},
	}

	rec, err := dispatchAdmin(t, stub, `{"action":"get_users","page":2,"limit":25}`)
	if err != nil {
		t.Fatalf("dispatch error: %v", err)
	}

	var resp struct {
		Data []struct {
			Role         string `json:"role"`
			RoleResolved bool   `json:"role_resolved"`
		} `json:"data"`
		Pagination struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 2 || resp.Pagination.Total != 52 || resp.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected page: %+v", resp)
	}
	if resp.Data[0].Role != "seller" || !resp.Data[0].RoleResolved {
		t.Fatalf("resolved account mangled: %+v", resp.Data[0])
	}
	if resp.Data[1].Role != "" || resp.Data[1].RoleResolved {
		t.Fatalf("unresolved account must not default to a role: %+v", resp.Data[1])
	}
}

func TestAdminFunctions_UpdateUserRole(t *testing.T) {
	stub := &stubAdminService{
		updateRoleFn: func(ctx context.Context, userID, role string) error {
			if userID != "u-7" || role != "delivery" {
				t.Fatalf("unexpected update: user=%q role=%q", userID, role)
			}
			return nil
		},
	}

	rec, err := dispatchAdmin(t, stub, `{"action":"update_user_role","user_id":"u-7","role":"delivery"}`)
	if err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"role":"delivery"`) {
		t.Fatalf("role not echoed: %s", rec.Body.String())
	}
}

func TestAdminFunctions_UpdateUserRole_Invalid(t *testing.T) {
	stub := &stubAdminService{
		updateRoleFn: func(ctx context.Context, userID, role string) error {
			return domain.ErrInvalidRole
		},
	}

	_, err := dispatchAdmin(t, stub, `{"action":"update_user_role","user_id":"u-7","role":"superuser"}`)
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAdminFunctions_AssignDelivery(t *testing.T) {
	stub := &stubAdminService{
		assignFn: func(ctx context.Context, adminID, orderReference, courierID string) (*domain.DeliveryAssignment, error) {
			if adminID != "adm-1" {
				t.Fatalf("admin identity must come from auth state, got %q", adminID)
			}
			return &domain.DeliveryAssignment{
				OrderReference: orderReference,
				CourierID:      courierID,
				AssignedBy:     adminID,
				Status:         domain.AssignmentAssigned,
			}, nil
		},
	}

	rec, err := dispatchAdmin(t, stub, `{"action":"assign_delivery","order_reference":"WCG-AB12CD34","courier_id":"d-3"}`)
	if err != nil {
		t.Fatalf("dispatch error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["courier_id"] != "d-3" || resp["assigned_by"] != "adm-1" {
		t.Fatalf("unexpected assignment: %+v", resp)
	}
}

func TestAdminFunctions_ApproveApplication(t *testing.T) {
	stub := &stubAdminService{
		approveFn: func(ctx context.Context, adminID, applicationID string) (*domain.RoleApplication, error) {
			return &domain.RoleApplication{
				ID:            applicationID,
				RequestedRole: domain.RoleSeller,
				Status:        domain.ApplicationApproved,
				ReviewedBy:    adminID,
			}, nil
		},
	}

	rec, err := dispatchAdmin(t, stub, `{"action":"approve_application","application_id":"app-1"}`)
	if err != nil {
		t.Fatalf("dispatch error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "approved" || resp["reviewed_by"] != "adm-1" {
		t.Fatalf("unexpected application: %+v", resp)
	}
}

func TestAdminFunctions_ApproveApplication_Closed(t *testing.T) {
	stub := &stubAdminService{
		approveFn: func(ctx context.Context, adminID, applicationID string) (*domain.RoleApplication, error) {
			return nil, domain.ErrApplicationClosed
		},
	}

	_, err := dispatchAdmin(t, stub, `{"action":"approve_application","application_id":"app-1"}`)
	if !errors.Is(err, domain.ErrApplicationClosed) {
		t.Fatalf("expected ErrApplicationClosed, got %v", err)
	}
}

func TestAdminFunctions_GetAnalytics(t *testing.T) {
	stub := &stubAdminService{
		analyticsFn: func(ctx context.Context) (*ports.Analytics, error) {
			return &ports.Analytics{
				TotalUsers:    120,
				TotalProducts: 48,
				TotalOrders:   310,
				Revenue:       15230.40,
				OrdersByStatus: map[domain.OrderStatus]int64{
					domain.OrderPaid:      12,
					domain.OrderDelivered: 280,
				},
			}, nil
		},
	}

	rec, err := dispatchAdmin(t, stub, `{"action":"get_analytics"}`)
	if err != nil {
		t.Fatalf("dispatch error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total_users"] != float64(120) || resp["revenue"] != 15230.40 {
		t.Fatalf("unexpected analytics: %+v", resp)
	}
	byStatus, ok := resp["orders_by_status"].(map[string]any)
	if !ok || byStatus["delivered"] != float64(280) {
		t.Fatalf("orders_by_status mangled: %+v", resp["orders_by_status"])
	}
}

func TestAdminFunctions_UpdateStoreSettings(t *testing.T) {
	stub := &stubAdminService{
		updateSettingsFn: func(ctx context.Context, input ports.UpdateSettingsInput) (*domain.StoreSettings, error) {
			if input.StoreName != "Web Cart Galaxy" || input.Currency != "EUR" || input.ShippingFee != 4.5 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.StoreSettings{
				StoreName:             input.StoreName,
				SupportEmail:          input.SupportEmail,
				Currency:              input.Currency,
				ShippingFee:           input.ShippingFee,
				FreeShippingThreshold: input.FreeShippingThreshold,
				MaintenanceMode:       input.MaintenanceMode,
			}, nil
		},
	}

	body := `{"action":"update_store_settings","store_name":"Web Cart Galaxy","support_email":"help@webcartgalaxy.dev","currency":"EUR","shipping_fee":4.5,"free_shipping_threshold":50,"maintenance_mode":false}`
	rec, err := dispatchAdmin(t, stub, body)
	if err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"currency":"EUR"`) {
		t.Fatalf("settings not echoed: %s", rec.Body.String())
	}
}

func TestAdminFunctions_UpdateStoreSettings_BadEmail(t *testing.T) {
	stub := &stubAdminService{
		updateSettingsFn: func(ctx context.Context, input ports.UpdateSettingsInput) (*domain.StoreSettings, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	body := `{"action":"update_store_settings","store_name":"Web Cart Galaxy","support_email":"not-an-email","currency":"EUR"}`
	_, err := dispatchAdmin(t, stub, body)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAdminFunctions_UnknownAction(t *testing.T) {
	_, err := dispatchAdmin(t, &stubAdminService{}, `{"action":"drop_all_tables"}`)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
