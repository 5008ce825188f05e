package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nepfy/nepfy-backend/config"
	"github.com/nepfy/nepfy-backend/internal/agents"
	"github.com/nepfy/nepfy-backend/internal/auth"
	"github.com/nepfy/nepfy-backend/internal/bootstrap"
	"github.com/nepfy/nepfy-backend/internal/generator"
	"github.com/nepfy/nepfy-backend/internal/logging"
	"github.com/nepfy/nepfy-backend/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(cfg.App.Environment, cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	manager, err := bootstrap.LoadAgents(ctx, agents.NewRedisStore(rdb))
	if err != nil {
		return err
	}

	deps := bootstrap.RouterDeps{
		Config: cfg,
		SQL:    sqlDB,
		Pool:   pool,
		Redis:  rdb,
		Agents: manager,
	}

	if cfg.Firebase.CredentialsPath != "" {
		client, err := auth.InitializeFirebase(ctx, cfg.Firebase)
		if err != nil {
			return err
		}
		deps.Verifier = client
	} else {
		slog.Warn("firebase not configured, trusting X-User-Id headers")
	}

	if cfg.AI.APIKey != "" {
		model, err := generator.NewGenAIModel(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return err
		}
		deps.Model = model
	} else {
		slog.Warn("AI generation disabled, GEMINI_API_KEY is not set")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr, "env", cfg.App.Environment, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
