package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/mortgage-calculator/internal/logging"
	"github.com/iwvelando/mortgage-calculator/internal/server"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := logging.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cache, err := server.NewCache(cfg.Cache)
	if err != nil {
		logger.Fatal("failed to create cache",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if pinger, ok := cache.(interface{ Ping(context.Context) error }); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := pinger.Ping(ctx); err != nil {
			logger.Warn("cache unreachable, calculations will not be cached until it recovers",
				zap.String("op", "main"),
				zap.String("backend", cfg.Cache.Backend),
				zap.String("address", cfg.Cache.Address),
				zap.Error(err),
			)
		}
		cancel()
	}
	if closer, ok := cache.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn("failed to close cache", zap.String("op", "main"), zap.Error(err))
			}
		}()
	}

	var limiter *server.RateLimiter
	if !cfg.RateLimit.Disabled {
		limiter = server.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.WindowDuration())
		defer limiter.Stop()
	}

	handler := server.NewHandler(logger, server.HandlerOptions{
		MaxUploadSize: cfg.UploadSizeBytes(),
		Version:       version,
		Cache:         cache,
		RateLimiter:   limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
			zap.String("cache", cfg.Cache.Backend),
			zap.Int64("max_upload_size", cfg.UploadSizeBytes()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return
	case sig := <-quit:
		logger.Info("shutting down server",
			zap.String("op", "main"),
			zap.String("signal", sig.String()),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during server shutdown",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	logger.Info("server exited", zap.String("op", "main"))
}
