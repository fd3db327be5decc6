package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"HNSummarizer/internal/domain"
	"HNSummarizer/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source    ports.StorySource
	Extractor ports.ContentExtractor
	Provider  ports.SummaryProvider
	Deliverer ports.Deliverer
	Limit     int
	Logger    *slog.Logger
}

// Pipeline implements the fetch -> extract -> summarize -> deliver run.
//
// Per-story failures are fail-soft: an unreadable page or a backend
// hiccup degrades that one entry to a placeholder record but never
// aborts the batch. Only the feed fetch itself is fatal.
type Pipeline struct {
	source    ports.StorySource
	extractor ports.ContentExtractor
	provider  ports.SummaryProvider
	deliverer ports.Deliverer
	limit     int
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:    deps.Source,
		extractor: deps.Extractor,
		provider:  deps.Provider,
		deliverer: deps.Deliverer,
		limit:     deps.Limit,
		logger:    deps.Logger,
	}
}

// Run executes one batch: fetch stories, build a summary record per
// story, deliver the batch once.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.source == nil {
		return fmt.Errorf("story source is not configured")
	}

	stories, err := p.source.FetchTop(ctx, p.limit)
	if err != nil {
		return fmt.Errorf("fetch top stories: %w", err)
	}
	p.info("fetched stories", "count", len(stories))

	records := make([]domain.SummaryRecord, 0, len(stories))
	for _, story := range stories {
		records = append(records, p.processStory(ctx, story))
	}

	if len(records) == 0 {
		p.info("no records to deliver")
		return nil
	}

	if p.deliverer == nil {
		return fmt.Errorf("delivery service is not configured")
	}

	p.info("delivering records", "count", len(records))
	if !p.deliverer.Deliver(ctx, records) {
		p.warn("some deliveries failed")
	}
	return nil
}

// processStory always yields a record: extraction or summarization
// failure downgrades to the restricted placeholder.
func (p *Pipeline) processStory(ctx context.Context, story domain.Story) domain.SummaryRecord {
	p.debug("extracting content", "url", story.URL)
	content := p.extractor.Extract(ctx, story.URL)

	if content.AccessRestricted {
		p.info("access restricted, including without summary", "title", story.Title)
		return domain.RestrictedRecord(story, content.Domain)
	}

	p.debug("summarizing", "title", story.Title)
	summary, err := p.provider.GenerateSummary(ctx, story, content)
	if err != nil {
		p.warn("summarization failed, including placeholder", "title", story.Title, "error", err)
		return domain.RestrictedRecord(story, content.Domain)
	}

	return domain.SummaryRecord{
		Story: story,
		Content: domain.ContentMeta{
			Title:         content.Title,
			URL:           content.URL,
			Domain:        domainOf(content),
			ContentLength: len(content.Text),
		},
		Summary:      summary,
		SummarizedAt: time.Now().UTC(),
	}
}

func domainOf(content domain.ExtractedContent) string {
	if content.Domain != "" {
		return content.Domain
	}
	parsed, err := url.Parse(content.URL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
