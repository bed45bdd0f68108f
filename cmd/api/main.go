package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dualspace/launcher/internal/config"
	"github.com/dualspace/launcher/internal/infra"
	"github.com/dualspace/launcher/internal/logging"
	"github.com/dualspace/launcher/internal/routes"
	"github.com/dualspace/launcher/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	deps := routes.Deps{Cfg: cfg, Logger: logger}

	switch {
	case cfg.DatabaseURL != "":
		db, repo, err := infra.NewPostgresProfiles(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		deps.DB, deps.Profiles = db, repo
	case cfg.SQLitePath != "":
		repo, err := infra.NewSQLiteProfiles(cfg.SQLitePath)
		if err != nil {
			logger.Error("open sqlite", "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		deps.Profiles = repo
	}

	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		deps.Cache = cache
	}

	images, err := infra.NewImageStore(ctx, cfg.Images)
	if err != nil {
		logger.Error("open image store", "error", err)
		os.Exit(1)
	}
	deps.Images = images

	generator, err := infra.NewGenerator(ctx, cfg.Gemini)
	if err != nil {
		logger.Warn("generative text disabled", "error", err)
	} else if generator != nil {
		if closer, ok := generator.(io.Closer); ok {
			defer closer.Close()
		}
		deps.Generator = generator
	}

	srv, err := server.New(deps)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
