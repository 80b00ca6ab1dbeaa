package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ali-ezz/web-cart-galaxy/internal/api"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/service"
	"github.com/ali-ezz/web-cart-galaxy/internal/infrastructure/config"
	mongodb "github.com/ali-ezz/web-cart-galaxy/internal/infrastructure/db/mongo"
	redisdb "github.com/ali-ezz/web-cart-galaxy/internal/infrastructure/db/redis"
	"github.com/ali-ezz/web-cart-galaxy/internal/infrastructure/queue"
	"github.com/ali-ezz/web-cart-galaxy/internal/infrastructure/search"
	"github.com/ali-ezz/web-cart-galaxy/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the marketplace API server",
	Long:  "Start the HTTP API server for all four roles: customer, seller, delivery and admin.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "api",
		Pretty:  cfg.IsDevelopment(),
	})

	db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// The search index is optional: when it is absent or unreachable the
	// catalog falls back to repository queries.
	var searchIndex ports.SearchIndex
	if len(cfg.Search.Addresses) > 0 {
		es, esErr := search.NewElasticIndex(search.Config{Addresses: cfg.Search.Addresses, Index: cfg.Search.Index})
		if esErr != nil {
			log.Warn().Err(esErr).Msg("elasticsearch unavailable, catalog search degrades to repository queries")
		} else {
			searchIndex = es
		}
	}

	users := mongodb.NewUserRepository(db)
	roles := mongodb.NewRoleRepository(db)
	profiles := mongodb.NewProfileRepository(db)
	products := mongodb.NewProductRepository(db)
	categories := mongodb.NewCategoryRepository(db)
	reviews := mongodb.NewReviewRepository(db)
	wishlists := mongodb.NewWishlistRepository(db)
	orders := mongodb.NewOrderRepository(db)
	assignments := mongodb.NewAssignmentRepository(db)
	applications := mongodb.NewApplicationRepository(db)
	settings := mongodb.NewSettingsRepository(db)
	events := mongodb.NewEventRepository(db)

	cartStore := redisdb.NewCartStore(redisClient)
	dedup := redisdb.NewDedupChecker(redisClient)

	eventService := service.NewEventService(events, dedup, log)
	dispatcher := queue.NewDispatcher(cfg.Queue.Workers, eventService, log)
	dispatcher.Start()

	authService := service.NewAuthService(users, roles, profiles, applications, cfg.JWTSecret, cfg.TokenTTL, log)
	sessionService := service.NewSessionService(roles, cfg.JWTSecret, log)
	catalogService := service.NewCatalogService(products, categories, reviews, wishlists, searchIndex, log)
	cartService := service.NewCartService(cartStore, products, log)
	orderService := service.NewOrderService(orders, products, cartStore, assignments, settings, dispatcher, log)
	sellerService := service.NewSellerService(orders, dispatcher, log)
	deliveryService := service.NewDeliveryService(assignments, orders, profiles, dispatcher, log)
	adminService := service.NewAdminService(users, roles, profiles, orders, products, assignments, applications, settings, deliveryService, log)

	e := api.NewRouter(api.Deps{
		Logger:   log,
		Sessions: sessionService,
		Auth:     authService,
		Catalog:  catalogService,
		Cart:     cartService,
		Orders:   orderService,
		Seller:   sellerService,
		Delivery: deliveryService,
		Admin:    adminService,
		Mongo:    db,
		Redis:    redisClient,
		TokenTTL: cfg.TokenTTL,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}

		// No handler is producing events any more; drain what is queued.
		dispatcher.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("api server stopped")
	return nil
}
