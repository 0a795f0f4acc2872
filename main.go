package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"moneyviz/internal/config"
	"moneyviz/internal/logger"
	"moneyviz/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	logger.Info("Starting MoneyViz dashboard service", logger.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"storage":     cfg.StorageMode,
		"version":     config.GetVersion(),
	})

	srv, err := server.Build(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to create server", err)
	}
	defer srv.Close()

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server stopped with error", err)
		srv.Close()
		os.Exit(1)
	}
}
