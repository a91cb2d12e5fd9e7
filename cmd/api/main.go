// Package main provides the entry point for the Paddock AI backend.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pranjalekhande/paddock-ai/internal/agent"
	"github.com/pranjalekhande/paddock-ai/internal/cache"
	"github.com/pranjalekhande/paddock-ai/internal/config"
	"github.com/pranjalekhande/paddock-ai/internal/database"
	"github.com/pranjalekhande/paddock-ai/internal/f1data"
	"github.com/pranjalekhande/paddock-ai/internal/health"
	"github.com/pranjalekhande/paddock-ai/internal/knowledge"
	"github.com/pranjalekhande/paddock-ai/internal/livetiming"
	"github.com/pranjalekhande/paddock-ai/internal/llm"
	"github.com/pranjalekhande/paddock-ai/internal/logger"
	"github.com/pranjalekhande/paddock-ai/internal/metrics"
	"github.com/pranjalekhande/paddock-ai/internal/repository"
	"github.com/pranjalekhande/paddock-ai/internal/schedule"
	"github.com/pranjalekhande/paddock-ai/internal/scheduler"
	"github.com/pranjalekhande/paddock-ai/internal/server"
	"github.com/pranjalekhande/paddock-ai/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "paddock-ai",
	Short: "F1 race engineer assistant backend",
	Long:  `Runs the Paddock AI HTTP API: conversational F1 assistant, race weekend timing, strategy analysis and the knowledge base pipeline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Paddock AI backend starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.InitRegistry()
	if cfg.Metrics.Enabled {
		startMetricsServer(ctx, cfg.Metrics, appLog)
	}

	// The snapshot store is the middle tier of the source chain; the API can
	// run without it on the live tiers plus the static fallback.
	var db *database.DB
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Warn("Snapshot store unavailable, continuing without it")
		db = nil
	} else {
		defer db.Close()
		appLog.Info("Snapshot store connected")
	}

	store := schedule.NewStore(cfg.Schedule.Path, appLog)
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load season schedule: %w", err)
	}
	metrics.UpdateScheduleEvents(len(store.Events()))

	httpClient := f1data.NewRateLimitedHTTPClient(f1data.HTTPClientConfig{
		Timeout:           time.Duration(cfg.DataSources.TimeoutSeconds) * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		RateLimit:         cfg.DataSources.RateLimit,
		CircuitBreakerMax: 5,
	}, appLog)

	sources := []f1data.Source{
		f1data.NewOpenF1Client(httpClient, cfg.DataSources.OpenF1.BaseURL, cfg.DataSources.OpenF1.Enabled, appLog),
		f1data.NewErgastClient(httpClient, cfg.DataSources.Ergast.BaseURL, cfg.DataSources.Ergast.Enabled, appLog),
	}

	var ingestor *repository.Ingestor
	if db != nil {
		repo := repository.NewPostgresSnapshotRepository(db)
		sources = append(sources, repository.NewSnapshotSource(repo, 24*time.Hour))
		ingestor = repository.NewIngestor(repo)
	}
	sources = append(sources, f1data.NewStaticSource())

	chain := f1data.NewChain(appLog, sources...)
	svc := service.NewF1Service(store, chain, cache.NewResponseCache(1000), ingestor, cfg.Schedule.Season, appLog)

	llmClient := llm.NewClient(&cfg.OpenAI, appLog)
	pinecone := knowledge.NewPineconeClient(&cfg.Pinecone, appLog)
	updater := service.NewKnowledgeUpdater(svc, llmClient, pinecone, appLog)

	registry := agent.NewDefaultRegistry(svc, llmClient, pinecone, agent.NewCurrentDataSearcher(llmClient))
	assistant := agent.New(llmClient, registry, appLog)

	var live server.LiveFeed
	if cfg.LiveTiming.Enabled {
		feed := livetiming.NewClient(cfg.LiveTiming, appLog)
		go feed.Run(ctx)
		live = feed
	}

	jobs := scheduler.New(appLog)
	if err := jobs.RegisterJobs(cfg.Jobs, updater, svc, store); err != nil {
		return fmt.Errorf("failed to register scheduled jobs: %w", err)
	}
	if err := jobs.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer jobs.Stop()

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Server.HealthPort,
		Logger:      appLog,
		Schedule:    scheduleChecker{store},
	}
	if db != nil {
		healthCfg.DB = db
	}
	healthSrv := health.NewServer(healthCfg)
	if err := healthSrv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	healthSrv.SetReady(true)

	api := server.New(cfg.Server, svc, assistant, updater, live, appLog)
	return api.Start(ctx)
}

// scheduleChecker adapts the schedule store for the readiness probe.
type scheduleChecker struct {
	store *schedule.Store
}

func (c scheduleChecker) Events() int {
	return len(c.store.Events())
}

// startMetricsServer serves the Prometheus registry on its own port.
func startMetricsServer(ctx context.Context, cfg config.MetricsConfig, appLog *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, metrics.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		appLog.WithFields(logrus.Fields{
			"port": cfg.Port,
			"path": cfg.Path,
		}).Info("Metrics server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}
