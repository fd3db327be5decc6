package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/domain"
	"HNSummarizer/internal/ports"
)

const requestTimeout = 10 * time.Second

// Fetcher retrieves ranked stories from the Hacker News API.
//
// API docs: https://github.com/HackerNews/API
type Fetcher struct {
	baseURL string
	delay   time.Duration
	client  *resty.Client
	logger  *slog.Logger
}

var _ ports.StorySource = (*Fetcher)(nil)

// NewFetcher wires a resty client against the configured API base URL.
func NewFetcher(cfg config.FetcherConfig, log *slog.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json")

	return &Fetcher{
		baseURL: cfg.BaseURL,
		delay:   cfg.RequestDelay(),
		client:  client,
		logger:  log,
	}
}

// item mirrors the wire shape of a Hacker News story entry.
type item struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	By          string `json:"by"`
}

// FetchTop returns up to limit top stories that carry a URL. The feed
// listing failure is fatal; a single bad item lookup is skipped.
func (f *Fetcher) FetchTop(ctx context.Context, limit int) ([]domain.Story, error) {
	ids, err := f.fetchTopIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch top story ids: %w", err)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	f.debug("fetched top story ids", "count", len(ids))

	stories := make([]domain.Story, 0, len(ids))
	for i, id := range ids {
		story, err := f.fetchStory(ctx, id)
		if err != nil {
			f.warn("skipping story", "id", id, "error", err)
		} else if story.URL != "" {
			stories = append(stories, story)
		}

		// Throttle between item lookups to respect the API's implicit
		// rate limit.
		if i < len(ids)-1 && f.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.delay):
			}
		}
	}

	f.debug("fetched stories with urls", "count", len(stories))
	return stories, nil
}

func (f *Fetcher) fetchTopIDs(ctx context.Context) ([]int64, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.baseURL + "/topstories.json")
	if err != nil {
		return nil, fmt.Errorf("request top stories: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("top stories returned %s", resp.Status())
	}

	var ids []int64
	if err := json.Unmarshal(resp.Body(), &ids); err != nil {
		return nil, fmt.Errorf("decode top stories: %w", err)
	}
	return ids, nil
}

func (f *Fetcher) fetchStory(ctx context.Context, id int64) (domain.Story, error) {
	resp, err := f.client.R().SetContext(ctx).Get(fmt.Sprintf("%s/item/%d.json", f.baseURL, id))
	if err != nil {
		return domain.Story{}, fmt.Errorf("request item %d: %w", id, err)
	}
	if resp.IsError() {
		return domain.Story{}, fmt.Errorf("item %d returned %s", id, resp.Status())
	}

	var it item
	if err := json.Unmarshal(resp.Body(), &it); err != nil {
		return domain.Story{}, fmt.Errorf("decode item %d: %w", id, err)
	}

	return domain.Story{
		ID:          it.ID,
		Title:       it.Title,
		URL:         it.URL,
		Score:       it.Score,
		Descendants: it.Descendants,
		By:          it.By,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func (f *Fetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
