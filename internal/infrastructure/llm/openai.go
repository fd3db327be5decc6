package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/domain"
	"HNSummarizer/internal/ports"
	"HNSummarizer/internal/provider"
)

const (
	openAIEndpoint = "https://api.openai.com/v1/chat/completions"
	openAITimeout  = 60 * time.Second
)

// OpenAIProvider summarizes via OpenAI-compatible chat-completion APIs.
type OpenAIProvider struct {
	endpoint  string
	model     string
	apiKey    string
	maxTokens int
	client    *resty.Client
}

var _ ports.SummaryProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider builds a provider from configuration.
func NewOpenAIProvider(cfg config.SummarizerConfig) (ports.SummaryProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai provider requires an API key")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = openAIEndpoint
	}

	return &OpenAIProvider{
		endpoint:  endpoint,
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
		client:    resty.New().SetTimeout(openAITimeout),
	}, nil
}

// Name identifies the provider inside the registry.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateSummary posts the prompt as a user message and returns the
// trimmed completion text.
func (p *OpenAIProvider) GenerateSummary(ctx context.Context, story domain.Story, content domain.ExtractedContent) (string, error) {
	body := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(story, content)},
		},
		MaxTokens:   p.maxTokens,
		Temperature: samplingTemperature,
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+p.apiKey).
		SetBody(body).
		Post(p.endpoint)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if resp.IsError() {
		return "", provider.ClassifyStatus(resp.StatusCode(), snippet(resp.Body()))
	}

	var decoded chatResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return "", fmt.Errorf("%w: decode: %v", provider.ErrInvalidResponse, err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", provider.ErrInvalidResponse)
	}

	summary := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("%w: blank summary text", provider.ErrInvalidResponse)
	}
	return summary, nil
}
