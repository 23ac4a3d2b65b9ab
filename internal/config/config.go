package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/bichat-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration (composed into a Postgres DSN)
	DatabaseCfg DatabaseConfig `envPrefix:"DB_"`

	// AI configuration
	AICfg AIConfig `envPrefix:"AI_"`

	// Chart artifact configuration
	ChartCfg ChartConfig `envPrefix:"CHART_"`

	// Document ingestion configuration
	IngestCfg IngestConfig `envPrefix:"INGEST_"`

	// Sandbox (code execution) service configuration
	SandboxConnectorCfg SandboxConnectorConfig `envPrefix:"SANDBOX_"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// DatabaseConfig holds the discrete connection settings for the sales
// database. They are kept separate (rather than a single URL) because
// the same pieces feed both the pool DSN and the migration URL.
type DatabaseConfig struct {
	Host     string `env:"HOST,notEmpty"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER,notEmpty"`
	Password string `env:"PASSWORD,notEmpty"`
	Name     string `env:"NAME,notEmpty"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"`

	MaxConns          int           `env:"MAX_CONNS" envDefault:"25"`
	MinConns          int           `env:"MIN_CONNS" envDefault:"5"`
	MaxConnLifetime   time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime   time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"30m"`
	HealthCheckPeriod time.Duration `env:"HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// URL builds the Postgres connection string used by both the pgx pool
// and golang-migrate.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// AIConfig selects the hosted models. The GEMINI_API_KEY credential is
// read by the googlegenai plugin itself and is not mirrored here.
type AIConfig struct {
	AgentModel    string `env:"AGENT_MODEL" envDefault:"googleai/gemini-2.5-pro"`
	DocQAModel    string `env:"DOCQA_MODEL" envDefault:"googleai/gemini-2.5-flash"`
	EmbedderModel string `env:"EMBEDDER_MODEL" envDefault:"text-embedding-004"`
	AgentMaxTurns int    `env:"AGENT_MAX_TURNS" envDefault:"8"`
	RetrievalTopK int    `env:"RETRIEVAL_TOP_K" envDefault:"4"`
}

// ChartConfig describes the shared artifact directory contract between
// this service and the sandbox that renders charts into it.
type ChartConfig struct {
	ArtifactDir string `env:"ARTIFACT_DIR" envDefault:"artifacts"`
	Filename    string `env:"FILENAME" envDefault:"chart.png"`
}

// IngestConfig controls text chunking.
type IngestConfig struct {
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"200"`
}

// SandboxConnectorConfig configures the external code-execution service.
type SandboxConnectorConfig struct {
	HTTPClientConfig
	ExecuteEndpoint string               `env:"EXECUTE_ENDPOINT" envDefault:"/execute"`
	Retry           pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"120s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize  int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`  // 10 MiB
	MaxTotalSize int64 `env:"MAX_TOTAL_SIZE" envDefault:"52428800"` // 50 MiB
	MaxFileCount int   `env:"MAX_FILE_COUNT" envDefault:"16"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.DatabaseCfg.MaxConns < 1 || cfg.DatabaseCfg.MaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DatabaseCfg.MaxConns))
	}
	if cfg.DatabaseCfg.MinConns < 0 || cfg.DatabaseCfg.MinConns > cfg.DatabaseCfg.MaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d",
			cfg.DatabaseCfg.MaxConns, cfg.DatabaseCfg.MinConns))
	}
	if cfg.IngestCfg.ChunkSize < 1 {
		errs = append(errs, fmt.Sprintf("INGEST_CHUNK_SIZE must be positive, got %d", cfg.IngestCfg.ChunkSize))
	}
	if cfg.IngestCfg.ChunkOverlap < 0 || cfg.IngestCfg.ChunkOverlap >= cfg.IngestCfg.ChunkSize {
		errs = append(errs, fmt.Sprintf("INGEST_CHUNK_OVERLAP must be in [0, chunk size), got %d", cfg.IngestCfg.ChunkOverlap))
	}
	if cfg.AICfg.AgentMaxTurns < 1 || cfg.AICfg.AgentMaxTurns > 32 {
		errs = append(errs, fmt.Sprintf("AI_AGENT_MAX_TURNS must be between 1 and 32, got %d", cfg.AICfg.AgentMaxTurns))
	}
	if cfg.AICfg.RetrievalTopK < 1 || cfg.AICfg.RetrievalTopK > 20 {
		errs = append(errs, fmt.Sprintf("AI_RETRIEVAL_TOP_K must be between 1 and 20, got %d", cfg.AICfg.RetrievalTopK))
	}
	if !cfg.EnableMocks && cfg.SandboxConnectorCfg.Url == "" {
		errs = append(errs, "SANDBOX_SERVICE_URL is required when mocks are disabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
