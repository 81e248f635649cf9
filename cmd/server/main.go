package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/99minutos/task-tracker/internal/app"
	"github.com/99minutos/task-tracker/internal/pkg/config"
	"github.com/99minutos/task-tracker/pkg/logger"
)

// @title                       Task Tracker API
// @version                     1.0
// @description                 Personal task tracking with JWT sessions and per-user task isolation.
// @host                        localhost:4000
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "task-tracker",
	})
	if cfg.UsesDevSecret() {
		log.Warn().Msg("JWT_SECRET not set, using the development signing key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return err
	}

	if err := a.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	return nil
}
