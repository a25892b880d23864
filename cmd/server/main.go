package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oggyb/muzz-matching/internal/app"
	"github.com/oggyb/muzz-matching/internal/cache"
	"github.com/oggyb/muzz-matching/internal/config"
	"github.com/oggyb/muzz-matching/internal/db"
	"github.com/oggyb/muzz-matching/internal/logger"
	"github.com/oggyb/muzz-matching/internal/messaging"
	"github.com/oggyb/muzz-matching/internal/metrics"
	"github.com/oggyb/muzz-matching/internal/seed"
	"github.com/oggyb/muzz-matching/internal/server"
	"github.com/oggyb/muzz-matching/internal/service/explore"
	"github.com/oggyb/muzz-matching/internal/tracing"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Matching and ranking gRPC service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC server (default)",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:       "migrate up|down [steps]",
		Short:     "Apply or roll back SQL migrations",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"up", "down"},
		RunE:      runMigrate,
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(cfg)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	database, err := db.NewDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}

	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisCache.Close()

	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.NATS.URL != "" {
		nc, err := messaging.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, log.With("component", "nats"))
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		defer nc.Close()
		publisher = nc
	}

	appCtx, err := app.New(cfg, database, redisCache, publisher, log)
	if err != nil {
		return err
	}

	if cfg.App.ENV == "development" {
		if _, err := seed.Run(ctx, database, seed.DefaultOptions, log.With("component", "seed")); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	if cfg.Metrics.Addr != "" {
		metricsSrv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info("serving metrics", "addr", cfg.Metrics.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", "err", err)
			}
		}()
		defer metricsSrv.Close()
	}

	return server.StartGRPCServer(ctx, cfg, log, explore.NewRegistrar(appCtx, nil))
}

func runMigrate(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger.InitFromConfig(cfg)

	// migrations are driven explicitly here
	cfg.DB.Migrations = "none"
	database, err := db.NewDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}

	switch args[0] {
	case "up":
		err = db.MigrateUp(database, cfg.DB.Driver)
	case "down":
		steps := 0
		if len(args) == 2 {
			if steps, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid steps %q: %w", args[1], err)
			}
		}
		err = db.MigrateDown(database, cfg.DB.Driver, steps)
	default:
		return fmt.Errorf("unknown direction %q, want up or down", args[0])
	}
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "direction", args[0])
	return nil
}
