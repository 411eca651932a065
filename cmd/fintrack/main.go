package main

import (
	"context"
	"os"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/session"
)

func main() {
	cfg, logger := cli.Init()

	factory := backend.NewFactory(logger)
	result, err := factory.Open(backend.FromAppConfig(cfg))
	if err != nil {
		logger.Error("Failed to initialize storage backend",
			log.FieldBackend, cfg.Backend, log.FieldError, err)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	logger.Info("Starting fintrack", log.FieldBackend, cfg.Backend)

	controller := session.New(os.Stdin, os.Stdout, result.Credentials, result.Ledgers, logger)
	if err := controller.Run(context.Background()); err != nil {
		logger.Error("Session ended with error", log.FieldError, err)
		os.Exit(1)
	}
}
