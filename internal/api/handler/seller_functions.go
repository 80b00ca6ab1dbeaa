package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

// SellerFunctionsHandler dispatches the seller function-call endpoint.
type SellerFunctionsHandler struct {
	seller ports.SellerService
}

func NewSellerFunctionsHandler(seller ports.SellerService) *SellerFunctionsHandler {
	return &SellerFunctionsHandler{seller: seller}
}

type sellerSalesResponse struct {
	Revenue    float64 `json:"revenue"`
	UnitsSold  int     `json:"units_sold"`
	OrderCount int     `json:"order_count"`
}

// sellerOrderResponse is one order restricted to the caller's lines.
type sellerOrderResponse struct {
	Reference      string                 `json:"reference"`
	Status         domain.OrderStatus     `json:"status"`
	DeliveryStatus domain.DeliveryStatus  `json:"delivery_status"`
	Items          []domain.OrderItem     `json:"items"`
	ItemsTotal     float64                `json:"items_total"`
	Shipping       domain.ShippingAddress `json:"shipping"`
	CreatedAt      time.Time              `json:"created_at"`
}

func toSellerOrderResponses(orders []ports.SellerOrder) []sellerOrderResponse {
	out := make([]sellerOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, sellerOrderResponse{
			Reference:      o.Reference,
			Status:         o.Status,
			DeliveryStatus: o.DeliveryStatus,
			Items:          o.Items,
			ItemsTotal:     o.ItemsTotal,
			Shipping:       o.Shipping,
			CreatedAt:      o.CreatedAt,
		})
	}
	return out
}

type updateOrderStatusParams struct {
	OrderReference string `json:"order_reference" validate:"required"`
	Status         string `json:"status"          validate:"required"`
}

// Dispatch handles POST /v1/functions/seller_functions.
//
// Actions: get_seller_sales, get_seller_pending_orders,
// get_seller_orders, update_order_status.
//
// @Summary      Seller function call
// @Tags         functions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      map[string]any  true  "{action, ...params}"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/functions/seller_functions [post]
func (h *SellerFunctionsHandler) Dispatch(c echo.Context) error {
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
	case "get_seller_sales":
		sales, err := h.seller.Sales(ctx, actor.UserID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, sellerSalesResponse{
			Revenue:    sales.Revenue,
			UnitsSold:  sales.UnitsSold,
			OrderCount: sales.OrderCount,
		})

	case "get_seller_pending_orders":
		orders, err := h.seller.PendingOrders(ctx, actor.UserID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toSellerOrderResponses(orders))

	case "get_seller_orders":
		orders, err := h.seller.Orders(ctx, actor.UserID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toSellerOrderResponses(orders))

	case "update_order_status":
		var p updateOrderStatusParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		order, err := h.seller.UpdateOrderStatus(ctx, ports.UpdateOrderStatusInput{
			SellerID:  actor.UserID,
			Reference: p.OrderReference,
			Status:    p.Status,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, order)
	}

	return unknownAction(action)
}
