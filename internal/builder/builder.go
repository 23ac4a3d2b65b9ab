package builder

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/futig/bichat-backend/internal/agent"
	"github.com/futig/bichat-backend/internal/api"
	chatapi "github.com/futig/bichat-backend/internal/api/chat"
	"github.com/futig/bichat-backend/internal/config"
	"github.com/futig/bichat-backend/internal/docqa"
	"github.com/futig/bichat-backend/internal/index"
	"github.com/futig/bichat-backend/internal/ingest"
	"github.com/futig/bichat-backend/internal/integration/sandbox"
	"github.com/futig/bichat-backend/internal/pkg/formatter"
	"github.com/futig/bichat-backend/internal/pkg/validator"
	"github.com/futig/bichat-backend/internal/repository"
	"github.com/futig/bichat-backend/internal/usecase/chat"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseCfg.URL()); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	salesRepo := repository.NewSalesPostgres(db)
	logger.Info("Repositories initialized")

	// The sandbox writes chart files here; make sure it exists before
	// the first answer verifies an artifact path.
	if err := os.MkdirAll(cfg.ChartCfg.ArtifactDir, 0o755); err != nil {
		db.Close()
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	// Initialize the AI runtime
	g, embedder, err := setupGenkit(ctx, cfg.AICfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setup genkit: %w", err)
	}
	logger.Info("Genkit initialized",
		zap.String("agent_model", cfg.AICfg.AgentModel),
		zap.String("docqa_model", cfg.AICfg.DocQAModel),
		zap.String("embedder_model", cfg.AICfg.EmbedderModel),
	)

	// Initialize the sandbox connector (with mock support)
	var sandboxConn agent.Executor
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the sandbox service")
		sandboxConn = sandbox.NewMockConnector(cfg.ChartCfg, logger)
	} else {
		logger.Info("Using real connector for the sandbox service")
		sandboxConn = sandbox.NewConnector(cfg.SandboxConnectorCfg, logger)
	}

	// Initialize answer producers
	chartAgent := agent.New(g, cfg.AICfg, cfg.ChartCfg, salesRepo, sandboxConn, logger)
	docAnswerer := docqa.NewAnswerer(g, cfg.AICfg, logger)
	logger.Info("Answer producers initialized")

	// Initialize ingestion and indexing
	extractor := ingest.NewExtractor(cfg.IngestCfg, logger)
	indexBuilder := index.NewBuilder(embedder, logger)

	// Initialize validators
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	// Initialize use cases
	chatUC := chat.NewUsecase(
		chat.NewSessionStore(),
		chartAgent,
		docAnswerer,
		extractor,
		indexBuilder,
		formatter.NewFactory(),
		cfg.ChartCfg,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(chatUC, fileValidator)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 200 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
