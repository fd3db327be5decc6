package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/provider"
)

func openAIConfig(endpoint string) config.SummarizerConfig {
	return config.SummarizerConfig{
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		MaxTokens: 500,
		APIKey:    "test-key",
		Endpoint:  endpoint,
	}
}

func TestOpenAIRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(config.SummarizerConfig{Provider: "openai"})
	assert.Error(t, err)
}

func TestOpenAIGenerateSummary(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" Resumo X "}}]}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(openAIConfig(server.URL))
	require.NoError(t, err)

	summary, err := p.GenerateSummary(context.Background(), sampleStory(), sampleContent())
	require.NoError(t, err)

	assert.Equal(t, "Resumo X", summary)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	assert.Equal(t, 500, gotBody.MaxTokens)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.Contains(t, gotBody.Messages[0].Content, "Title: T1")
}

func TestOpenAIRateLimitClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(openAIConfig(server.URL))
	require.NoError(t, err)

	_, err = p.GenerateSummary(context.Background(), sampleStory(), sampleContent())
	assert.ErrorIs(t, err, provider.ErrRateLimit)
}

func TestOpenAIUndecodableBodyIsInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(openAIConfig(server.URL))
	require.NoError(t, err)

	_, err = p.GenerateSummary(context.Background(), sampleStory(), sampleContent())
	assert.ErrorIs(t, err, provider.ErrInvalidResponse)
}
