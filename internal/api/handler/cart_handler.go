package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

// CartHandler handles the authenticated user's cart.
type CartHandler struct {
	cart ports.CartService
}

func NewCartHandler(cart ports.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
	// Capped flags that a requested quantity was reduced to the
	// available stock; the client renders it as a notice, not an error.
	Capped        bool   `json:"capped,omitempty"`
	CappedProduct string `json:"capped_product,omitempty"`
	CappedAt      int    `json:"capped_at,omitempty"`
}

func toCartResponse(view *ports.CartView) cartResponse {
	items := view.Cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartResponse{
		Items:         items,
		Total:         view.Total,
		Count:         view.Count,
		Capped:        view.Capped,
		CappedProduct: view.CappedProduct,
		CappedAt:      view.CappedAt,
	}
}

// Get handles GET /v1/cart.
//
// @Summary      Get the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Router       /v1/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	view, err := h.cart.Get(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// AddItem handles POST /v1/cart/items. The quantity is capped at live
// stock rather than rejected.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addItemRequest  true  "Product and quantity"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.cart.AddItem(c.Request().Context(), actor.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// UpdateQuantity handles PUT /v1/cart/items/:product_id. A zero or
// negative quantity removes the line.
//
// @Summary      Set a cart line's quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  path      string                 true  "Product id"
// @Param        body        body      updateQuantityRequest  true  "New quantity"
// @Success      200         {object}  cartResponse
// @Failure      404         {object}  map[string]string
// @Router       /v1/cart/items/{product_id} [put]
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.cart.UpdateQuantity(c.Request().Context(), actor.UserID, c.Param("product_id"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// RemoveItem handles DELETE /v1/cart/items/:product_id.
//
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  path      string  true  "Product id"
// @Success      200         {object}  cartResponse
// @Router       /v1/cart/items/{product_id} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	view, err := h.cart.RemoveItem(c.Request().Context(), actor.UserID, c.Param("product_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// Clear handles DELETE /v1/cart.
//
// @Summary      Empty the cart
// @Tags         cart
// @Security     BearerAuth
// @Success      204
// @Router       /v1/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.cart.Clear(c.Request().Context(), actor.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
