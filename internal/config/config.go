// Package config provides configuration management for the Paddock AI backend.
package config

import "fmt"

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Schedule    ScheduleConfig    `mapstructure:"schedule" validate:"required"`
	OpenAI      OpenAIConfig      `mapstructure:"openai" validate:"required"`
	Pinecone    PineconeConfig    `mapstructure:"pinecone" validate:"required"`
	DataSources DataSourcesConfig `mapstructure:"data_sources" validate:"required"`
	LiveTiming  LiveTimingConfig  `mapstructure:"live_timing"`
	Jobs        JobsConfig        `mapstructure:"jobs" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the public HTTP API configuration
type ServerConfig struct {
	Port            int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort      int      `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	ReadTimeoutSec  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSec int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig represents the snapshot store connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ScheduleConfig locates the season schedule file
type ScheduleConfig struct {
	Path   string `mapstructure:"path" validate:"required"`
	Season int    `mapstructure:"season" validate:"required,gt=1949"`
}

// OpenAIConfig represents the LLM provider configuration
type OpenAIConfig struct {
	APIKey                string `mapstructure:"api_key" validate:"required"`
	BaseURL               string `mapstructure:"base_url" validate:"required,url"`
	ChatModel             string `mapstructure:"chat_model" validate:"required"`
	EmbeddingModel        string `mapstructure:"embedding_model" validate:"required"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	MaxTokens             int    `mapstructure:"max_tokens" validate:"required,gt=0"`
	Temperature           float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// PineconeConfig represents the vector knowledge base configuration
type PineconeConfig struct {
	APIKey                string `mapstructure:"api_key" validate:"required"`
	IndexHost             string `mapstructure:"index_host" validate:"required,url"`
	Namespace             string `mapstructure:"namespace"`
	TopK                  int    `mapstructure:"top_k" validate:"required,gt=0"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// DataSourcesConfig represents the F1 data source chain configuration
type DataSourcesConfig struct {
	OpenF1    SourceConfig `mapstructure:"openf1" validate:"required"`
	Ergast    SourceConfig `mapstructure:"ergast" validate:"required"`
	RateLimit float64      `mapstructure:"rate_limit" validate:"required,gt=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// SourceConfig represents a single upstream F1 API
type SourceConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	Enabled bool   `mapstructure:"enabled"`
}

// LiveTimingConfig represents the F1 live timing push feed configuration
type LiveTimingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	HTTPBaseURL string `mapstructure:"http_base_url"`
	WSBaseURL   string `mapstructure:"ws_base_url"`
}

// JobsConfig represents scheduled background jobs
type JobsConfig struct {
	KnowledgeRefreshCron    string `mapstructure:"knowledge_refresh_cron" validate:"required"`
	SnapshotIngestCron      string `mapstructure:"snapshot_ingest_cron" validate:"required"`
	ScheduleReloadCron      string `mapstructure:"schedule_reload_cron" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
