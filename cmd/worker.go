package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/service"
	"github.com/ali-ezz/web-cart-galaxy/internal/infrastructure/config"
	mongodb "github.com/ali-ezz/web-cart-galaxy/internal/infrastructure/db/mongo"
	"github.com/ali-ezz/web-cart-galaxy/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background reconciliation worker",
	Long:  "Periodically repairs orders whose delivery status drifted from their assignment.",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "worker",
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

	reconciler := service.NewReconcileService(
		mongodb.NewAssignmentRepository(db),
		mongodb.NewOrderRepository(db),
		log,
	)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Reconcile.Interval),
		gocron.NewTask(func() {
			if err := reconciler.Run(ctx); err != nil {
				log.Error().Err(err).Msg("reconcile pass failed")
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	log.Info().Dur("interval", cfg.Reconcile.Interval).Msg("reconciliation worker started")

	<-ctx.Done()

	if err := scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown failed")
	}
	log.Info().Msg("reconciliation worker stopped")
	return nil
}
