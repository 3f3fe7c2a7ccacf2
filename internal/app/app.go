package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"inkflow/backend/internal/api"
	"inkflow/backend/internal/config"
	"inkflow/backend/internal/database"
	"inkflow/backend/internal/llm"
	"inkflow/backend/internal/promptcache"
	"inkflow/backend/internal/repository"
	"inkflow/backend/internal/service"
)

// App holds the wired application: the open database and the configured
// HTTP server.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Server *http.Server
}

// NewApp builds the full dependency graph from configuration.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)

	repo := repository.NewSQLiteRepository(db)

	var cacheStore promptcache.Store
	if strings.EqualFold(cfg.CacheBackend, "redis") {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cacheStore = promptcache.NewRedisStore(rdb)
		slog.Info("Prompt cache backed by Redis.", "addr", cfg.RedisAddr)
	} else {
		cacheStore = promptcache.NewSQLiteStore(db)
		slog.Info("Prompt cache backed by SQLite.")
	}

	provider := llm.NewOllamaProvider(cfg.OllamaURL)

	contextService := service.NewContextService(repo)
	checkpointService := service.NewCheckpointService(repo, repo)
	migrationService := service.NewMigrationService(repo, repository.CollisionPolicy(cfg.MigrationCollisionPolicy))
	generationService := service.NewGenerationService(cacheStore, provider, cfg.GenerationModel)

	router := api.NewRouter(
		cfg.JWTSecret,
		api.NewContextHandler(contextService),
		api.NewCheckpointHandler(checkpointService),
		api.NewMigrationHandler(migrationService),
		api.NewGenerateHandler(generationService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      150 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{Config: cfg, DB: db, Server: server}, nil
}

// Run loads configuration, wires the application and serves until failure.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	a, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := a.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
