package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"HNSummarizer/internal/app"
	"HNSummarizer/internal/config"
	"HNSummarizer/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	top := flag.Int("top", 0, "number of top stories to fetch (overrides config)")
	deliveryMethod := flag.String("delivery", "", "delivery method override (email, slack, line, or comma-separated)")
	debug := flag.Bool("debug", false, "enable debug logging")
	once := flag.Bool("once", false, "run a single batch even when a cron schedule is configured")
	flag.Parse()

	// Optional .env for local runs; absence is not an error.
	_ = godotenv.Load()

	cfg := config.Load(*configPath)
	if *top > 0 {
		cfg.Fetcher.Limit = *top
	}
	if *deliveryMethod != "" {
		cfg.Delivery.Method = *deliveryMethod
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}

	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Scheduler.CronExpression != "" && !*once {
		if err := application.RunScheduled(ctx); err != nil {
			logger.Error("scheduler stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
