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
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiTimeout = 60 * time.Second

	// Low-temperature sampling favoring faithfulness over creativity.
	samplingTemperature = 0.4
	samplingTopP        = 0.95
)

// GeminiProvider summarizes via the Google Gemini generateContent API.
type GeminiProvider struct {
	endpoint  string
	model     string
	apiKey    string
	maxTokens int
	client    *resty.Client
}

var _ ports.SummaryProvider = (*GeminiProvider)(nil)

// NewGeminiProvider builds a provider from configuration. A missing API
// key is a startup error, not a call-time surprise.
func NewGeminiProvider(cfg config.SummarizerConfig) (ports.SummaryProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini provider requires an API key")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = geminiBaseURL
	}

	return &GeminiProvider{
		endpoint:  endpoint,
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
		client:    resty.New().SetTimeout(geminiTimeout),
	}, nil
}

// Name identifies the provider inside the registry.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateSummary posts the prompt and returns the trimmed response text.
func (p *GeminiProvider) GenerateSummary(ctx context.Context, story domain.Story, content domain.ExtractedContent) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(story, content)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: p.maxTokens,
			Temperature:     samplingTemperature,
			TopP:            samplingTopP,
		},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.endpoint, p.model)
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", p.apiKey).
		SetBody(body).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		return "", provider.ClassifyStatus(resp.StatusCode(), snippet(resp.Body()))
	}

	var decoded geminiResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return "", fmt.Errorf("%w: decode: %v", provider.ErrInvalidResponse, err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidates", provider.ErrInvalidResponse)
	}

	summary := strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text)
	if summary == "" {
		return "", fmt.Errorf("%w: blank summary text", provider.ErrInvalidResponse)
	}
	return summary, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 1024 {
		s = s[:1024]
	}
	return s
}
