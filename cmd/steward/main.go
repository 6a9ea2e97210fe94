package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"steward/internal/analytics"
	"steward/internal/bot"
	"steward/internal/catalog"
	"steward/internal/config"
	"steward/internal/dashboard"
	"steward/internal/forge"
	"steward/internal/modlog"
	"steward/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	modLogger := modlog.NewLogger(store, logger)
	analyticsService := analytics.New(store)
	pluginCatalog := catalog.New(
		cfg.Catalog.FeedURL,
		time.Duration(cfg.Catalog.RefreshMinutes)*time.Minute,
		logger,
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	githubClient := forge.NewGitHubClient(rootCtx, cfg.GitHubToken)
	giteaClient := forge.NewGiteaClient()

	botSvc, err := bot.New(cfg, logger, store, modLogger, pluginCatalog, githubClient, giteaClient)
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}

	if err := botSvc.Start(); err != nil {
		logger.Fatal("bot start failed", zap.Error(err))
	}
	logger.Info("bot started")

	var server *dashboard.Server
	if cfg.Dashboard.Enabled {
		server = dashboard.New(cfg.Dashboard.Addr, store, analyticsService, pluginCatalog, botSvc, logger)
		server.Start()
	}

	if cfg.RetentionDays > 0 {
		go runRetention(rootCtx, store, logger, cfg.RetentionDays)
	}

	<-rootCtx.Done()
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if server != nil {
		server.Shutdown(ctx)
	}
	botSvc.Close(ctx)
}

// runRetention prunes old moderation records once at startup and then
// daily until shutdown.
func runRetention(ctx context.Context, store *storage.Store, logger *zap.Logger, retentionDays int) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		deleted, err := store.CleanupModActions(ctx, retentionDays)
		if err != nil {
			logger.Warn("mod action cleanup failed", zap.Error(err))
		} else if deleted > 0 {
			logger.Info("mod action cleanup", zap.Int64("deleted", deleted))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
