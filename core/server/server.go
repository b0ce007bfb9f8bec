package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"meetquorum/core/cache"
	"meetquorum/core/config"
	"meetquorum/core/database"
	"meetquorum/core/logger"
	"meetquorum/core/middleware"
	"meetquorum/core/queue"
	"meetquorum/modules/availability"
	"meetquorum/modules/notify"
	"meetquorum/modules/roster"
	"meetquorum/modules/thread"
)

// Run boots the whole service: config, logging, storage, cache, queue
// worker, and the HTTP server. It blocks until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	// Redis is an accelerator, not a dependency: when it is down we run
	// without the slot cache.
	resultCache, err := cache.New(cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, slot cache disabled", "error", err)
		resultCache = nil
	}

	queueClient := queue.NewClient(cfg.Redis)
	defer queueClient.Close()

	// Background worker for post-finalize tasks.
	worker := queue.NewServer(cfg.Redis)
	mux := asynq.NewServeMux()
	notify.InitWorker(mux, &db, queueClient)
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("asynq worker stopped", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())

	mw := middleware.New(cfg)

	thread.Init(e, &db, mw, resultCache, queueClient, cfg)
	availability.Init(e, &db, mw, resultCache, cfg)
	roster.Init(e, &db, mw)
	notify.Init(e, &db, mw, queueClient)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", err)
		}
	}()
	logger.Info("server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if resultCache != nil {
		if err := resultCache.Close(); err != nil {
			logger.Warn("close cache", "error", err)
		}
	}
	return nil
}
