package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

// OrderHandler handles customer-facing order endpoints.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type checkoutRequest struct {
	Recipient     string `json:"recipient"      validate:"required"`
	Phone         string `json:"phone"          validate:"required"`
	Address       string `json:"address"        validate:"required"`
	City          string `json:"city"           validate:"required"`
	ZipCode       string `json:"zip_code"       validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type orderListResponse struct {
	Data       []*domain.Order    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// Create handles POST /v1/orders: turns the caller's cart into an order.
// Stock is re-validated as the final gate; insufficient stock aborts the
// whole checkout naming the offending product.
//
// @Summary      Place an order from the cart
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkoutRequest  true  "Shipping and payment details"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.PlaceOrder(c.Request().Context(), ports.CheckoutInput{
		UserID:        actor.UserID,
		Recipient:     req.Recipient,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		ZipCode:       req.ZipCode,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}

// List handles GET /v1/orders: the caller's own orders, newest first.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  orderListResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.orders.ListMine(c.Request().Context(), actor.UserID, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderListResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /v1/orders/:reference. Access is limited to the
// purchaser, involved sellers, the assigned courier and admins.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        reference  path      string  true  "Order reference"
// @Success      200        {object}  domain.Order
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /v1/orders/{reference} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	order, err := h.orders.GetOrder(c.Request().Context(), c.Param("reference"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
