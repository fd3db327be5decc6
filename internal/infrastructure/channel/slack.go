package channel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/delivery"
	"HNSummarizer/internal/domain"
	"HNSummarizer/internal/ports"
)

const (
	slackTimeout      = 10 * time.Second
	slackBatchDelay   = time.Second
	slackMaxBlockText = 3000
)

// SlackChannel posts record batches to a Slack incoming webhook as
// Block Kit messages.
type SlackChannel struct {
	webhookURL    string
	channel       string
	username      string
	iconEmoji     string
	maxPerMessage int
	batchDelay    time.Duration
	client        *resty.Client
	logger        *slog.Logger
}

var _ ports.DeliveryChannel = (*SlackChannel)(nil)

// NewSlackChannel validates the webhook URL eagerly.
func NewSlackChannel(cfg config.SlackConfig, log *slog.Logger) (*SlackChannel, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("slack webhook URL is required")
	}

	maxPerMessage := cfg.MaxPerMessage
	if maxPerMessage <= 0 {
		maxPerMessage = 3
	}
	username := cfg.Username
	if username == "" {
		username = "HN Summarizer Bot"
	}
	iconEmoji := cfg.IconEmoji
	if iconEmoji == "" {
		iconEmoji = ":newspaper:"
	}

	return &SlackChannel{
		webhookURL:    cfg.WebhookURL,
		channel:       cfg.Channel,
		username:      username,
		iconEmoji:     iconEmoji,
		maxPerMessage: maxPerMessage,
		batchDelay:    slackBatchDelay,
		client:        resty.New().SetTimeout(slackTimeout),
		logger:        log,
	}, nil
}

// Name identifies the channel inside the registry.
func (c *SlackChannel) Name() string {
	return "slack"
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type slackPayload struct {
	Channel   string       `json:"channel,omitempty"`
	Username  string       `json:"username"`
	IconEmoji string       `json:"icon_emoji"`
	Blocks    []slackBlock `json:"blocks"`
}

// Send splits records into webhook posts of at most maxPerMessage
// records and transmits them in order, pausing between posts to stay
// inside the webhook rate limit.
func (c *SlackChannel) Send(ctx context.Context, records []domain.SummaryRecord) bool {
	batches := delivery.BatchRecords(records, c.maxPerMessage)
	date := time.Now().Format(emailDateFormat)

	for i, batch := range batches {
		payload := slackPayload{
			Channel:   c.channel,
			Username:  c.username,
			IconEmoji: c.iconEmoji,
			Blocks:    buildSlackBlocks(batch, date),
		}

		resp, err := c.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(c.webhookURL)
		if err != nil {
			c.warn("slack post failed", "batch", i+1, "error", err)
			return false
		}
		if resp.IsError() {
			c.warn("slack post rejected", "batch", i+1, "status", resp.Status())
			return false
		}

		if i < len(batches)-1 {
			select {
			case <-ctx.Done():
				c.warn("slack delivery canceled", "error", ctx.Err())
				return false
			case <-time.After(c.batchDelay):
			}
		}
	}

	c.info("slack delivery done", "records", len(records), "posts", len(batches))
	return true
}

// buildSlackBlocks renders records into a header, then per record a
// title section and either the restricted notice or the summary split
// into sections of at most slackMaxBlockText characters.
func buildSlackBlocks(records []domain.SummaryRecord, date string) []slackBlock {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "Hacker News Top Stories - " + date, Emoji: true},
		},
		{Type: "divider"},
	}

	for _, record := range records {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*<%s|%s>*", record.Story.URL, record.Story.Title),
			},
		})

		if record.AccessRestricted {
			blocks = append(blocks, slackBlock{
				Type: "section",
				Text: &slackText{Type: "mrkdwn", Text: "_" + domain.RestrictedSummary + "_"},
			})
		} else {
			for _, part := range delivery.ChunkRunes(record.Summary, slackMaxBlockText) {
				blocks = append(blocks, slackBlock{
					Type: "section",
					Text: &slackText{Type: "mrkdwn", Text: part},
				})
			}
		}

		blocks = append(blocks, slackBlock{Type: "divider"})
	}

	return blocks
}

func (c *SlackChannel) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *SlackChannel) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
