package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studio-api/core/cache"
	"studio-api/core/config"
	"studio-api/core/database"
	"studio-api/core/logger"
	"studio-api/core/storage"
	"studio-api/core/worker"
	"studio-api/modules/auth"
	calService "studio-api/modules/calendar/service"
	"studio-api/modules/cleanup"
	"studio-api/modules/client"
	"studio-api/modules/session"
	"studio-api/modules/shoot"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run boots the whole process: config, logger, database, redis, the
// calendar client, the HTTP surface, and the background worker. It blocks
// until SIGINT/SIGTERM and then shuts both servers down.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	redisCache, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Calendar.Timezone, err)
	}

	// One calendar client for the whole process. Token refresh lives in
	// the provider, results are shared through the cache.
	tokens := calService.NewTokenProvider(cfg.GoogleAPI, redisCache)
	cal := calService.NewGoogleClient(cfg.GoogleAPI.CalendarID, tokens)

	store := storage.NewS3Store(cfg.Storage)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth.Init(e, db, redisCache)
	client.Init(e, db)
	shoot.Init(e, db, store, cal, loc, cfg.Calendar)
	session.Init(e, db, cal, loc, cfg.Calendar)
	cleanupSvc := cleanup.Init(e, db, store, cal, loc, cfg.Cleanup)

	w := worker.New(cfg.Redis, cfg.Cleanup, cleanupSvc)
	go func() {
		if err := w.Run(); err != nil {
			logger.Error("Server:Run:WorkerStopped", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Run:HTTPStopped", "error", err)
		}
	}()
	logger.Info("Server:Run:Started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server:Run:ShuttingDown")
	w.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
