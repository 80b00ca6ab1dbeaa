package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

// CatalogHandler handles product browsing, seller CRUD, reviews and
// wishlists.
type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type productRequest struct {
	Name          string   `json:"name"           validate:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category"       validate:"required"`
	Price         float64  `json:"price"          validate:"required,gt=0"`
	DiscountPrice *float64 `json:"discount_price" validate:"omitempty,gt=0"`
	Stock         int      `json:"stock"          validate:"gte=0"`
	ImageURL      string   `json:"image_url"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

type wishlistRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type productListResponse struct {
	Data       []*domain.Product  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// List handles GET /v1/products with optional category, seller, text
// query and pagination parameters.
//
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Param        seller    query     string  false  "Filter by seller id"
// @Param        q         query     string  false  "Free-text search"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  productListResponse
// @Router       /v1/products [get]
func (h *CatalogHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.catalog.ListProducts(c.Request().Context(), ports.ProductFilter{
		Category: c.QueryParam("category"),
		SellerID: c.QueryParam("seller"),
		Query:    c.QueryParam("q"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, productListResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /v1/products/:id.
//
// @Summary      Get a product
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  map[string]string
// @Router       /v1/products/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	product, err := h.catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Categories handles GET /v1/categories.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  domain.Category
// @Router       /v1/categories [get]
func (h *CatalogHandler) Categories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Create handles POST /v1/products for sellers.
//
// @Summary      Create a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product fields"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  map[string]string
// @Router       /v1/products [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), ports.ProductInput{
		SellerID:      actor.UserID,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Stock:         req.Stock,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

// Update handles PUT /v1/products/:id; only the owning seller may edit.
//
// @Summary      Update a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Product fields"
// @Success      200   {object}  domain.Product
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/products/{id} [put]
func (h *CatalogHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.catalog.UpdateProduct(c.Request().Context(), c.Param("id"), ports.ProductInput{
		SellerID:      actor.UserID,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Stock:         req.Stock,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /v1/products/:id; only the owning seller may
// remove a product.
//
// @Summary      Delete a product
// @Tags         catalog
// @Security     BearerAuth
// @Param        id  path  string  true  "Product id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /v1/products/{id} [delete]
func (h *CatalogHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteProduct(c.Request().Context(), c.Param("id"), actor.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Reviews handles GET /v1/products/:id/reviews.
//
// @Summary      List product reviews
// @Tags         catalog
// @Produce      json
// @Param        id   path     string  true  "Product id"
// @Success      200  {array}  domain.Review
// @Router       /v1/products/{id}/reviews [get]
func (h *CatalogHandler) Reviews(c echo.Context) error {
	reviews, err := h.catalog.ListReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// AddReview handles POST /v1/products/:id/reviews. One review per user
// per product.
//
// @Summary      Review a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Product id"
// @Param        body  body      reviewRequest  true  "Rating and comment"
// @Success      201   {object}  domain.Review
// @Failure      409   {object}  map[string]string
// @Router       /v1/products/{id}/reviews [post]
func (h *CatalogHandler) AddReview(c echo.Context) error {
	state, err := ctxState(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.catalog.AddReview(c.Request().Context(), ports.ReviewInput{
		ProductID: c.Param("id"),
		UserID:    state.User.ID,
		UserName:  state.User.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, review)
}

// Wishlist handles GET /v1/wishlist.
//
// @Summary      List wishlist products
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Product
// @Router       /v1/wishlist [get]
func (h *CatalogHandler) Wishlist(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	products, err := h.catalog.Wishlist(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// AddToWishlist handles POST /v1/wishlist.
//
// @Summary      Add a product to the wishlist
// @Tags         catalog
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  wishlistRequest  true  "Product id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/wishlist [post]
func (h *CatalogHandler) AddToWishlist(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req wishlistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.catalog.AddToWishlist(c.Request().Context(), actor.UserID, req.ProductID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveFromWishlist handles DELETE /v1/wishlist/:product_id.
//
// @Summary      Remove a product from the wishlist
// @Tags         catalog
// @Security     BearerAuth
// @Param        product_id  path  string  true  "Product id"
// @Success      204
// @Router       /v1/wishlist/{product_id} [delete]
func (h *CatalogHandler) RemoveFromWishlist(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.catalog.RemoveFromWishlist(c.Request().Context(), actor.UserID, c.Param("product_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
