// Package main provides the one-shot knowledge base update command.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pranjalekhande/paddock-ai/internal/cache"
	"github.com/pranjalekhande/paddock-ai/internal/config"
	"github.com/pranjalekhande/paddock-ai/internal/f1data"
	"github.com/pranjalekhande/paddock-ai/internal/knowledge"
	"github.com/pranjalekhande/paddock-ai/internal/llm"
	"github.com/pranjalekhande/paddock-ai/internal/logger"
	"github.com/pranjalekhande/paddock-ai/internal/metrics"
	"github.com/pranjalekhande/paddock-ai/internal/schedule"
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
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "kb-update",
	Short: "Refresh the F1 knowledge base once",
	Long:  `Fetches current standings, results and schedule, embeds them and upserts the vectors into the Pinecone index. Intended for cron or manual runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kb-update %s (%s)\n", Version, GitCommit)
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
	metrics.InitRegistry()

	store := schedule.NewStore(cfg.Schedule.Path, appLog)
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load season schedule: %w", err)
	}

	httpClient := f1data.NewRateLimitedHTTPClient(f1data.HTTPClientConfig{
		Timeout:           time.Duration(cfg.DataSources.TimeoutSeconds) * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		RateLimit:         cfg.DataSources.RateLimit,
		CircuitBreakerMax: 5,
	}, appLog)

	chain := f1data.NewChain(appLog,
		f1data.NewOpenF1Client(httpClient, cfg.DataSources.OpenF1.BaseURL, cfg.DataSources.OpenF1.Enabled, appLog),
		f1data.NewErgastClient(httpClient, cfg.DataSources.Ergast.BaseURL, cfg.DataSources.Ergast.Enabled, appLog),
		f1data.NewStaticSource(),
	)

	svc := service.NewF1Service(store, chain, cache.NewResponseCache(100), nil, cfg.Schedule.Season, appLog)
	llmClient := llm.NewClient(&cfg.OpenAI, appLog)
	pinecone := knowledge.NewPineconeClient(&cfg.Pinecone, appLog)
	updater := service.NewKnowledgeUpdater(svc, llmClient, pinecone, appLog)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := updater.Run(ctx)
	if err != nil {
		return fmt.Errorf("knowledge base update failed: %w", err)
	}

	appLog.WithFields(logrus.Fields{
		"status":       result.Status,
		"vector_count": result.VectorCount,
		"updated_data": result.UpdatedData,
	}).Info("Knowledge base update finished")
	fmt.Println(result.Message)
	return nil
}
