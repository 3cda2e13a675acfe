package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/amiibo-connect/internal/app"
	"github.com/samvad-hq/amiibo-connect/internal/config"
	"github.com/samvad-hq/amiibo-connect/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "amiibo collector failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sugar, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("amiibo collector starting", "config", map[string]any{
		"app_name":      cfg.AppName,
		"env":           cfg.Env,
		"api_host":      cfg.APIHost,
		"debug":         cfg.Debug,
		"poll_interval": cfg.PollInterval.String(),
		"storage_type":  cfg.StorageType,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, err := app.NewCollector(ctx, cfg, logger.Zap{S: sugar}, sugar.Desugar())
	if err != nil {
		logger.ErrorObj("failed to initialize collector", "error", err.Error())
		return err
	}

	if err := collector.Run(ctx); err != nil {
		return fmt.Errorf("collector run: %w", err)
	}

	return nil
}
