package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/compound-analyzer/internal/analyzer"
	"github.com/turtacn/compound-analyzer/internal/application/analysis"
	"github.com/turtacn/compound-analyzer/internal/chem"
	"github.com/turtacn/compound-analyzer/internal/config"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/database/postgres"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/database/redis"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/prometheus"
	httpiface "github.com/turtacn/compound-analyzer/internal/interfaces/http"
	"github.com/turtacn/compound-analyzer/internal/interfaces/http/handlers"
)

// NewServeCommand creates the serve subcommand: the full HTTP API with
// whatever optional infrastructure the configuration enables.
func NewServeCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			return RunServer(cmd.Context(), cfg, log, root.ConfigPath)
		},
	}
}

// RunServer assembles the configured infrastructure and serves the HTTP API
// until the context is cancelled or a termination signal arrives.  Shared by
// the serve subcommand and the standalone apiserver binary.  When configPath
// is non-empty the file is watched and the log level follows edits to it;
// other settings require a restart.
func RunServer(ctx context.Context, cfg *config.Config, log logging.Logger, configPath string) error {
	metrics := prometheus.NewMetrics()

	if configPath != "" {
		if setter, ok := log.(logging.LevelSetter); ok {
			level := cfg.Log.Level
			config.Watch(configPath, func(next *config.Config) {
				if next.Log.Level == level {
					return
				}
				level = next.Log.Level
				setter.SetLevel(level)
				log.Info("log level changed", logging.String("level", level))
			})
		}
	}

	analyzerOpts := []analyzer.Option{
		analyzer.WithLogger(log.Named("analyzer")),
		analyzer.WithMetrics(metrics),
	}
	serviceOpts := []analysis.ServiceOption{
		analysis.WithLogger(log.Named("analysis")),
	}
	var checkers []handlers.HealthChecker

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis, log.Named("redis"))
		if err != nil {
			return err
		}
		defer client.Close()

		cacheOpts := []redis.DescriptorCacheOption{}
		if cfg.Redis.KeyPrefix != "" {
			cacheOpts = append(cacheOpts, redis.WithKeyPrefix(cfg.Redis.KeyPrefix))
		}
		if cfg.Redis.DefaultTTL > 0 {
			cacheOpts = append(cacheOpts, redis.WithTTL(cfg.Redis.DefaultTTL))
		}
		analyzerOpts = append(analyzerOpts,
			analyzer.WithCache(redis.NewDescriptorCache(client, log, cacheOpts...)))
		checkers = append(checkers, handlers.CheckerFunc{CheckerName: "redis", Fn: client.Ping})
	}

	if cfg.Database.Enabled {
		dsn := postgres.BuildDSN(cfg.Database)
		if cfg.Database.MigrationPath != "" {
			if err := postgres.RunMigrations(dsn, cfg.Database.MigrationPath); err != nil {
				return err
			}
		}
		conn, err := postgres.NewConnection(ctx, cfg.Database, log.Named("postgres"))
		if err != nil {
			return err
		}
		defer conn.Close()

		serviceOpts = append(serviceOpts,
			analysis.WithStore(postgres.NewAnalysisStore(conn, log)))
		checkers = append(checkers, handlers.CheckerFunc{CheckerName: "database", Fn: conn.Ping})
	}

	svc := analysis.NewService(
		analyzer.New(chem.NewToolkit(), analyzerOpts...),
		analyzer.Options{
			Workers:           cfg.Analysis.Workers,
			ParallelThreshold: cfg.Analysis.ParallelThreshold,
			MaxBatchSize:      cfg.Analysis.MaxBatchSize,
		},
		serviceOpts...,
	)

	router := httpiface.NewRouter(httpiface.RouterConfig{
		Service:  svc,
		Logger:   log,
		Metrics:  metrics,
		Version:  Version,
		Mode:     cfg.Server.Mode,
		Checkers: checkers,
	})
	server := httpiface.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutdown signal received", logging.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("context cancelled, shutting down")
	}

	if err := server.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}
