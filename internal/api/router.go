package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ali-ezz/web-cart-galaxy/docs"
	"github.com/ali-ezz/web-cart-galaxy/internal/api/handler"
	"github.com/ali-ezz/web-cart-galaxy/internal/api/middleware"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/web"
)

// Deps carries everything the router wires together. Services come in as
// ports so tests and commands can swap implementations.
type Deps struct {
	Logger   zerolog.Logger
	Sessions ports.SessionService
	Auth     ports.AuthService
	Catalog  ports.CatalogService
	Cart     ports.CartService
	Orders   ports.OrderService
	Seller   ports.SellerService
	Delivery ports.DeliveryService
	Admin    ports.AdminService
	Mongo    *mongo.Database
	Redis    *redis.Client
	TokenTTL time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)
	e.GET("/healthz", healthHandler.Liveness)
	e.GET("/readyz", readinessHandler.Readiness)

	// --- SPA shell pages with server-side redirects ---
	web.NewGate(d.Sessions, d.Logger).Register(e)

	// --- Route guards ---
	authn := middleware.Auth(d.Sessions)
	customerOnly := middleware.RBAC(domain.RoleCustomer)
	sellerOnly := middleware.RBAC(domain.RoleSeller)
	deliveryOnly := middleware.RBAC(domain.RoleDelivery)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/v1")

	// --- Accounts ---
	authHandler := handler.NewAuthHandler(d.Auth, d.TokenTTL)
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/me", authHandler.Me, authn)
	v1.PUT("/auth/password", authHandler.UpdatePassword, authn)
	v1.POST("/account/repair", authHandler.RepairRole, authn)
	v1.POST("/account/apply-role", authHandler.ApplyRole, authn)

	// --- Catalog ---
	catalogHandler := handler.NewCatalogHandler(d.Catalog)
	v1.GET("/products", catalogHandler.List)
	v1.GET("/products/:id", catalogHandler.Get)
	v1.GET("/categories", catalogHandler.Categories)
	v1.POST("/products", catalogHandler.Create, authn, sellerOnly)
	v1.PUT("/products/:id", catalogHandler.Update, authn, sellerOnly)
	v1.DELETE("/products/:id", catalogHandler.Delete, authn, sellerOnly)
	v1.GET("/products/:id/reviews", catalogHandler.Reviews)
	v1.POST("/products/:id/reviews", catalogHandler.AddReview, authn, customerOnly)
	v1.GET("/wishlist", catalogHandler.Wishlist, authn, customerOnly)
	v1.POST("/wishlist", catalogHandler.AddToWishlist, authn, customerOnly)
	v1.DELETE("/wishlist/:product_id", catalogHandler.RemoveFromWishlist, authn, customerOnly)

	// --- Cart ---
	cartHandler := handler.NewCartHandler(d.Cart)
	v1.GET("/cart", cartHandler.Get, authn)
	v1.POST("/cart/items", cartHandler.AddItem, authn)
	v1.PUT("/cart/items/:product_id", cartHandler.UpdateQuantity, authn)
	v1.DELETE("/cart/items/:product_id", cartHandler.RemoveItem, authn)
	v1.DELETE("/cart", cartHandler.Clear, authn)

	// --- Orders ---
	orderHandler := handler.NewOrderHandler(d.Orders)
	v1.POST("/orders", orderHandler.Create, authn, customerOnly)
	v1.GET("/orders", orderHandler.List, authn)
	v1.GET("/orders/:reference", orderHandler.Get, authn)

	// --- Role function endpoints ---
	v1.POST("/functions/seller_functions",
		handler.NewSellerFunctionsHandler(d.Seller).Dispatch, authn, sellerOnly)
	v1.POST("/functions/delivery_functions",
		handler.NewDeliveryFunctionsHandler(d.Delivery).Dispatch, authn, deliveryOnly)
	v1.POST("/functions/admin_functions",
		handler.NewAdminFunctionsHandler(d.Admin).Dispatch, authn, adminOnly)

	return e
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil || v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
