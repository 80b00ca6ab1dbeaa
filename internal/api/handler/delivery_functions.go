package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

// DeliveryFunctionsHandler dispatches the courier function-call endpoint.
type DeliveryFunctionsHandler struct {
	delivery ports.DeliveryService
}

func NewDeliveryFunctionsHandler(delivery ports.DeliveryService) *DeliveryFunctionsHandler {
	return &DeliveryFunctionsHandler{delivery: delivery}
}

type availableOrderResponse struct {
	Reference string    `json:"reference"`
	ItemCount int       `json:"item_count"`
	Total     float64   `json:"total"`
	City      string    `json:"city"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type deliveryStatsResponse struct {
	Counts          map[domain.AssignmentStatus]int64 `json:"counts"`
	RecentDelivered []*domain.DeliveryAssignment      `json:"recent_delivered"`
}

type onlineStatusResponse struct {
	Online bool `json:"online"`
}

type acceptOrderParams struct {
	OrderReference string `json:"order_reference" validate:"required"`
}

type updateDeliveryStatusParams struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	Status       string `json:"status"        validate:"required"`
	Notes        string `json:"notes"`
}

type setOnlineStatusParams struct {
	Online bool `json:"online"`
}

// Dispatch handles POST /v1/functions/delivery_functions.
//
// Actions: get_available_orders, accept_delivery_order,
// get_delivery_assignments, update_delivery_status, get_stats,
// get_online_status, set_online_status.
//
// @Summary      Delivery function call
// @Tags         functions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      map[string]any  true  "{action, ...params}"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/functions/delivery_functions [post]
func (h *DeliveryFunctionsHandler) Dispatch(c echo.Context) error {
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
	case "get_available_orders":
		orders, err := h.delivery.AvailableOrders(ctx)
		if err != nil {
			return err
		}
		out := make([]availableOrderResponse, 0, len(orders))
		for _, o := range orders {
			out = append(out, availableOrderResponse{
				Reference: o.Reference,
				ItemCount: o.ItemCount,
				Total:     o.Total,
				City:      o.City,
				Address:   o.Address,
				CreatedAt: o.CreatedAt,
			})
		}
		return c.JSON(http.StatusOK, out)

	case "accept_delivery_order":
		var p acceptOrderParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		assignment, err := h.delivery.Claim(ctx, actor.UserID, actor.UserID, p.OrderReference)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, assignment)

	case "get_delivery_assignments":
		assignments, err := h.delivery.Assignments(ctx, actor.UserID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, assignments)

	case "update_delivery_status":
		var p updateDeliveryStatusParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		assignment, err := h.delivery.UpdateStatus(ctx, ports.UpdateAssignmentInput{
			CourierID:    actor.UserID,
			AssignmentID: p.AssignmentID,
			Status:       p.Status,
			Notes:        p.Notes,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, assignment)

	case "get_stats":
		stats, err := h.delivery.Stats(ctx, actor.UserID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, deliveryStatsResponse{
			Counts:          stats.Counts,
			RecentDelivered: stats.RecentDelivered,
		})

	case "get_online_status":
		online, err := h.delivery.OnlineStatus(ctx, actor.UserID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, onlineStatusResponse{Online: online})

	case "set_online_status":
		var p setOnlineStatusParams
		if err := bindParams(c, body, &p); err != nil {
			return err
		}
		if err := h.delivery.SetOnlineStatus(ctx, actor.UserID, p.Online); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, onlineStatusResponse{Online: p.Online})
	}

	return unknownAction(action)
}
