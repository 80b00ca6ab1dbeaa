package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ali-ezz/web-cart-galaxy/internal/infrastructure/config"
	mongodb "github.com/ali-ezz/web-cart-galaxy/internal/infrastructure/db/mongo"
	"github.com/ali-ezz/web-cart-galaxy/pkg/logger"
)

var indexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create the Mongo indexes every collection relies on",
	Long:  "Idempotent; run once per deploy before starting the server.",
	RunE:  runEnsureIndexes,
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}

func runEnsureIndexes(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "ensure-indexes",
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

	ensurers := map[string]interface {
		EnsureIndexes(ctx context.Context) error
	}{
		"users":                mongodb.NewUserRepository(db),
		"profiles":             mongodb.NewProfileRepository(db),
		"products":             mongodb.NewProductRepository(db),
		"reviews":              mongodb.NewReviewRepository(db),
		"wishlist_items":       mongodb.NewWishlistRepository(db),
		"orders":               mongodb.NewOrderRepository(db),
		"delivery_assignments": mongodb.NewAssignmentRepository(db),
		"role_applications":    mongodb.NewApplicationRepository(db),
		"order_events":         mongodb.NewEventRepository(db),
	}

	for name, repo := range ensurers {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Error().Err(err).Str("collection", name).Msg("index creation failed")
			return err
		}
		log.Info().Str("collection", name).Msg("indexes ensured")
	}

	log.Info().Int("collections", len(ensurers)).Msg("all indexes in place")
	return nil
}
