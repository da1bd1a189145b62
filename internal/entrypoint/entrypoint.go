package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/mrlokans/gong/internal/backup"
	"github.com/mrlokans/gong/internal/config"
	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/database/books"
	"github.com/mrlokans/gong/internal/database/entries"
	"github.com/mrlokans/gong/internal/database/settings"
	http_controllers "github.com/mrlokans/gong/internal/http"
	"github.com/mrlokans/gong/internal/logger"
	"github.com/mrlokans/gong/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	log := logger.WithComponent("server")
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info("starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	// SIGKILL cannot be caught, so only INT and TERM are handled.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("err", err))
	}

	// Stop background work only after in-flight requests have drained.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info("server exiting")
}

// Run wires the store, the backup scheduler and the HTTP API, then serves
// until the process is signalled.
func Run(cfg *config.Config, version string) {
	log := logger.Init(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	log.Info("starting gong", slog.String("version", version))

	db, err := database.Open(context.Background(), cfg.Database.Path, database.Options{
		Logger:   log,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		log.Error("failed to open database", slog.String("path", cfg.Database.Path), slog.Any("err", err))
		os.Exit(1)
	}

	backupService := backup.NewService(db, log)

	routerCfg := http_controllers.RouterConfig{
		Books:          books.NewRepository(db.DB),
		Entries:        entries.NewRepository(db.DB),
		Settings:       settings.NewRepository(db.DB),
		Backups:        backupService,
		Health:         db,
		ReadOnly:       cfg.HTTP.ReadOnly,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Version:        version,
	}
	if cfg.HTTP.RestoresPerMinute > 0 {
		routerCfg.RestoreLimit = rate.NewLimiter(rate.Limit(cfg.HTTP.RestoresPerMinute/60), 1)
	}
	if cfg.HTTP.ReadOnly {
		log.Warn("read-only mode enabled, writes are rejected")
	}

	schedCtx, schedCancel := context.WithCancel(context.Background())
	backupScheduler := scheduler.NewBackupScheduler(backupService, cfg.Backup, log)
	if err := backupScheduler.Start(schedCtx); err != nil {
		log.Error("failed to start backup scheduler", slog.Any("err", err))
		schedCancel()
		_ = db.Close()
		os.Exit(1)
	}
	if cfg.Backup.ScheduleEnabled {
		routerCfg.Scheduler = backupScheduler
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		backupScheduler.Stop()
		schedCancel()
		if err := db.Close(); err != nil {
			log.Error("failed to close database", slog.Any("err", err))
		}
	}

	Serve(router, cfg, onShutdown)
}
