package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/analysis"
	"recruit-backend/internal/llm"
	"recruit-backend/internal/llm/gemini"
	"recruit-backend/internal/llm/ollama"
	"recruit-backend/internal/llm/openai"
	"recruit-backend/internal/profiles"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/scoring"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/server"
	"recruit-backend/internal/shared/storage/db"
	"recruit-backend/internal/shared/storage/object"
	localstore "recruit-backend/internal/shared/storage/object/local"
	s3store "recruit-backend/internal/shared/storage/object/s3"
	"recruit-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Cache  analysis.Cache
	Chain  *llm.Chain
	Worker *queue.Worker

	ProfilesRepo    profiles.Repo
	AnalysisService *analysis.Service
	ScoringService  *scoring.Service
	AnalysisHandler *analysis.Handler
	ScoringHandler  *scoring.Handler
	ProfilesHandler *profiles.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cache, err := buildCache(ctx, cfg, store)
	if err != nil {
		return nil, err
	}

	chain := buildChain(ctx, cfg)
	worker := queue.NewWorker(ctx, cfg.QueueCapacity)

	var profileRepo profiles.Repo
	if sqlDB != nil {
		profileRepo = &profiles.PGRepo{DB: sqlDB}
	} else {
		profileRepo = profiles.NewObjectRepo(store)
	}

	analysisSvc := &analysis.Service{
		Cache: cache,
		Chain: chain,
		Store: store,
		Models: map[string]string{
			"openai": cfg.OpenAIModel,
			"gemini": cfg.GeminiModel,
			"ollama": cfg.OllamaModel,
		},
	}
	scoringSvc := &scoring.Service{Chain: chain}

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Store:           store,
		Cache:           cache,
		Chain:           chain,
		Worker:          worker,
		ProfilesRepo:    profileRepo,
		AnalysisService: analysisSvc,
		ScoringService:  scoringSvc,
		AnalysisHandler: analysis.NewHandler(analysisSvc, worker),
		ScoringHandler:  scoring.NewHandler(scoringSvc, profileRepo, analysisSvc),
		ProfilesHandler: profiles.NewHandler(profileRepo),
	}
	app.Router = server.NewEngine(cfg.CORSAllowOrigin,
		app.AnalysisHandler,
		app.ScoringHandler,
		app.ProfilesHandler,
	)
	return app, nil
}

// Close releases background resources.
func (a *App) Close() {
	if a.Worker != nil {
		a.Worker.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if closer, ok := a.Cache.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("build s3 store: %w", err)
		}
		return store, nil
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("db.disabled", map[string]any{"reason": "DATABASE_URL not set"})
		return nil, nil
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildCache(ctx context.Context, cfg config.Config, store object.ObjectStore) (analysis.Cache, error) {
	if cfg.CacheBackend == "redis" {
		cache, err := analysis.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("build redis cache: %w", err)
		}
		return cache, nil
	}
	return analysis.NewObjectCache(store), nil
}

// buildChain assembles the provider chain in configured priority order.
// Providers missing their configuration are skipped, not fatal: the
// heuristic analyzer backs an empty chain.
func buildChain(ctx context.Context, cfg config.Config) *llm.Chain {
	var clients []llm.Client
	for _, name := range cfg.Providers {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "openai":
			client, err := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.LLMTimeout)
			if err == nil {
				clients = append(clients, client)
				continue
			}
			logProviderSkipped("openai", err)
		case "gemini":
			client, err := gemini.NewClient(ctx, cfg.GeminiKey, cfg.GeminiModel, cfg.LLMTimeout)
			if err == nil {
				clients = append(clients, client)
				continue
			}
			logProviderSkipped("gemini", err)
		case "ollama":
			client, err := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.LLMTimeout)
			if err == nil {
				clients = append(clients, client)
				continue
			}
			logProviderSkipped("ollama", err)
		default:
			logProviderSkipped(name, fmt.Errorf("unknown provider"))
		}
	}
	return llm.NewChain(clients...)
}

func logProviderSkipped(name string, err error) {
	telemetry.Info("llm.provider_skipped", map[string]any{
		"provider": name,
		"reason":   err.Error(),
	})
}
