package app

import (
	"context"
	"fmt"
	"log/slog"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/delivery"
	"HNSummarizer/internal/infrastructure/channel"
	"HNSummarizer/internal/infrastructure/extractor"
	"HNSummarizer/internal/infrastructure/hackernews"
	"HNSummarizer/internal/infrastructure/llm"
	"HNSummarizer/internal/infrastructure/scheduler"
	"HNSummarizer/internal/logging"
	"HNSummarizer/internal/ports"
	"HNSummarizer/internal/provider"
	"HNSummarizer/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance. Provider and channel
// selection happen here, so misconfiguration fails before the first
// network call.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	providers := provider.NewRegistry()
	providers.Register("gemini", llm.NewGeminiProvider)
	providers.Register("openai", llm.NewOpenAIProvider)

	summaryProvider, err := providers.Resolve(cfg.Summarizer)
	if err != nil {
		return nil, fmt.Errorf("configure summarizer: %w", err)
	}

	channels := delivery.NewRegistry()
	channels.Register("email", func(d config.DeliveryConfig, log *slog.Logger) (ports.DeliveryChannel, error) {
		return channel.NewEmailChannel(d.Email, log)
	})
	channels.Register("slack", func(d config.DeliveryConfig, log *slog.Logger) (ports.DeliveryChannel, error) {
		return channel.NewSlackChannel(d.Slack, log)
	})
	channels.Register("line", func(d config.DeliveryConfig, log *slog.Logger) (ports.DeliveryChannel, error) {
		return channel.NewLineChannel(d.Line, log)
	})

	deliverer, err := delivery.NewService(channels, cfg.Delivery, baseLogger.With("component", "delivery"))
	if err != nil {
		return nil, fmt.Errorf("configure delivery: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    hackernews.NewFetcher(cfg.Fetcher, baseLogger.With("component", "fetcher")),
		Extractor: extractor.New(cfg.Extractor, baseLogger.With("component", "extractor")),
		Provider:  summaryProvider,
		Deliverer: deliverer,
		Limit:     cfg.Fetcher.Limit,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger}, nil
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	return a.pipeline.Run(ctx)
}

// RunScheduled starts the cron-driven recurring mode and blocks until
// the context is canceled.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline)

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression)

	<-ctx.Done()
	return sched.Stop(context.Background())
}
