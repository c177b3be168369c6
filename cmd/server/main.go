package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mcoot/bowlscore/internal/api"
	"github.com/mcoot/bowlscore/internal/config"
	"github.com/mcoot/bowlscore/internal/factory"
	redisstorage "github.com/mcoot/bowlscore/internal/storage/redis"
	"github.com/mcoot/bowlscore/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	level, _ := cfg.Level()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage,
		Lanes:       cfg.Lanes,
		MaxPlayers:  cfg.MaxPlayers,
	}
	if cfg.Storage == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.MatchTTL = cfg.MatchTTL
		redisCfg.ScorecardTTL = cfg.MatchTTL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		LaneController:  app.LaneController,
		MatchController: app.MatchController,
		StatsService:    app.StatsService,
		HubManager:      app.HubManager,
		StorageType:     app.StorageType,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:          logger,
		LaneController:  app.LaneController,
		MatchController: app.MatchController,
		StatsService:    app.StatsService,
		HubManager:      app.HubManager,
		MaxPlayers:      app.MaxPlayers,
		StaticDir:       findStaticDir(),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, app.HubManager, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", app.StorageType),
		slog.Int("lanes", app.LaneController.LaneCount()),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
