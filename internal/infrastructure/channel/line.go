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
	linePushEndpoint = "https://api.line.me/v2/bot/message/push"
	lineTimeout      = 10 * time.Second
	linePushDelay    = 500 * time.Millisecond
	lineMaxTextLen   = 5000
)

// LineChannel pushes one text message per record (or per chunk of an
// oversized summary) through the LINE Messaging API.
type LineChannel struct {
	endpoint     string
	channelToken string
	recipientID  string
	maxPerPush   int
	pushDelay    time.Duration
	client       *resty.Client
	logger       *slog.Logger
}

var _ ports.DeliveryChannel = (*LineChannel)(nil)

// NewLineChannel validates the channel token and recipient eagerly.
func NewLineChannel(cfg config.LineConfig, log *slog.Logger) (*LineChannel, error) {
	if cfg.ChannelToken == "" {
		return nil, fmt.Errorf("line channel token is required")
	}
	if cfg.RecipientID == "" {
		return nil, fmt.Errorf("line recipient id is required")
	}

	maxPerPush := cfg.MaxPerPush
	if maxPerPush <= 0 || maxPerPush > 5 {
		maxPerPush = 5
	}

	return &LineChannel{
		endpoint:     linePushEndpoint,
		channelToken: cfg.ChannelToken,
		recipientID:  cfg.RecipientID,
		maxPerPush:   maxPerPush,
		pushDelay:    linePushDelay,
		client:       resty.New().SetTimeout(lineTimeout),
		logger:       log,
	}, nil
}

// Name identifies the channel inside the registry.
func (c *LineChannel) Name() string {
	return "line"
}

type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type linePushPayload struct {
	To       string        `json:"to"`
	Messages []lineMessage `json:"messages"`
}

// Send renders every record to one or more text messages and pushes
// them in order, at most maxPerPush messages per request with a fixed
// delay between requests.
func (c *LineChannel) Send(ctx context.Context, records []domain.SummaryRecord) bool {
	messages := buildLineMessages(records)

	pushes := 0
	for start := 0; start < len(messages); start += c.maxPerPush {
		end := min(start+c.maxPerPush, len(messages))

		if pushes > 0 {
			select {
			case <-ctx.Done():
				c.warn("line delivery canceled", "error", ctx.Err())
				return false
			case <-time.After(c.pushDelay):
			}
		}

		payload := linePushPayload{To: c.recipientID, Messages: messages[start:end]}
		resp, err := c.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetHeader("Authorization", "Bearer "+c.channelToken).
			SetBody(payload).
			Post(c.endpoint)
		if err != nil {
			c.warn("line push failed", "error", err)
			return false
		}
		if resp.IsError() {
			c.warn("line push rejected", "status", resp.Status())
			return false
		}
		pushes++
	}

	c.info("line delivery done", "records", len(records), "pushes", pushes)
	return true
}

func buildLineMessages(records []domain.SummaryRecord) []lineMessage {
	messages := make([]lineMessage, 0, len(records))
	for _, record := range records {
		text := renderLineText(record)
		for _, part := range delivery.ChunkRunes(text, lineMaxTextLen) {
			messages = append(messages, lineMessage{Type: "text", Text: part})
		}
	}
	return messages
}

func renderLineText(record domain.SummaryRecord) string {
	if record.AccessRestricted {
		return fmt.Sprintf("%s\n%s\n\n%s", record.Story.Title, record.Story.URL, domain.RestrictedSummary)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", record.Story.Title, record.Story.URL, record.Summary)
}

func (c *LineChannel) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *LineChannel) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
