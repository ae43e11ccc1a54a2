package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/db"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/http"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	shutdownOTel func(context.Context) error
}

// OpenDB loads config and connects to the store without wiring the HTTP
// stack. The migrate and seed commands use it directly.
func OpenDB(log *logger.Logger) (*gorm.DB, Config, error) {
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, Config{}, err
	}
	conn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, Config{}, fmt.Errorf("init database: %w", err)
	}
	return conn, cfg, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	theDB, cfg, err := OpenDB(log)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
	})
	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	clientset, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, metrics, reposet, clientset)
	if err != nil {
		clientset.Close()
		return nil, err
	}

	sqlDB, err := theDB.DB()
	if err != nil {
		clientset.Close()
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	handlerset := wireHandlers(log, sqlDB, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset)

	log.Info("App wired",
		"resolver_mode", cfg.Wizard.ResolverMode,
		"llm", clientset.LLM != nil,
		"events", clientset.Events != nil,
		"speech", clientset.Speech != nil,
		"delivery", clientset.DoorDash != nil,
	)
	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clientset,
		shutdownOTel: shutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	srv := &http.Server{Engine: a.Router}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
	return srv.Run(ctx, a.Cfg.Addr(), a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.shutdownOTel != nil {
		_ = a.shutdownOTel(context.Background())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
