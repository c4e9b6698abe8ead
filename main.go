package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahilmate/multi-agent-form-processing-system/config"
	"github.com/sahilmate/multi-agent-form-processing-system/handler"
	"github.com/sahilmate/multi-agent-form-processing-system/middleware"
	"github.com/sahilmate/multi-agent-form-processing-system/pkg/logger"
	"github.com/sahilmate/multi-agent-form-processing-system/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded", "backend", cfg.Backend.URL)

	backendSvc := service.NewBackendService(cfg.Backend.URL, cfg.BackendTimeout())

	var archive service.UploadArchiver
	if cfg.Archive.Enabled {
		archiveSvc, err := service.NewArchiveService(&cfg.Archive)
		if err != nil {
			slog.Error("failed to initialize upload archive", "error", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = archiveSvc.EnsureBucket(ctx)
		cancel()
		if err != nil {
			slog.Error("failed to ensure archive bucket", "bucket", cfg.Archive.Bucket, "error", err)
			os.Exit(1)
		}
		slog.Info("upload archive enabled", "endpoint", cfg.Archive.Endpoint, "bucket", cfg.Archive.Bucket)
		archive = archiveSvc
	}

	proxy := handler.NewProxy(backendSvc)
	adminHandler := handler.NewAdminHandler(proxy)
	citizenHandler := handler.NewCitizenHandler(proxy, archive)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.CORS.AllowOrigins))
	router.Use(middleware.NoCache())
	router.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	limit := middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimitWindow())
	handler.RegisterRoutes(router, adminHandler, citizenHandler, limit)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
