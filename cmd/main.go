package main

import (
	"context"
	"errors"
	logg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pollroom/internal/api"
	"pollroom/internal/config"
	"pollroom/internal/registry"
	"pollroom/internal/service"
	"pollroom/internal/storage"
	"pollroom/pkg/logger"
)

func main() {
	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		logg.Fatalf("failed to load config: %s", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		logg.Fatalf("failed to initialize logger: %s", err)
	}

	store := storage.New(cfg.StoragePath, log)
	reg := registry.New(store, log)
	svc := service.New(store, reg, log)
	handler := api.New(svc, reg, log)

	r := gin.Default()
	api.RegisterRoutes(r, handler)

	server := &http.Server{
		Addr:    ":" + cfg.RestPort,
		Handler: r,
	}

	go func() {
		log.Info("server started",
			zap.String("port", cfg.RestPort),
			zap.String("storage_path", cfg.StoragePath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatalf("server failed: %s", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down server", zap.Error(err))
	}
	logg.Println("server graceful stopped")
}
