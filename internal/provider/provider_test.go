package provider

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/domain"
	"HNSummarizer/internal/ports"
)

type stubProvider struct{ name string }

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) GenerateSummary(context.Context, domain.Story, domain.ExtractedContent) (string, error) {
	return "stub", nil
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	reg.Register("stub", func(config.SummarizerConfig) (ports.SummaryProvider, error) {
		return &stubProvider{name: "stub"}, nil
	})

	p, err := reg.Resolve(config.SummarizerConfig{Provider: "Stub"})
	require.NoError(t, err, "provider names are case-insensitive")
	assert.Equal(t, "stub", p.Name())
}

func TestRegistryUnknownProviderIsError(t *testing.T) {
	_, err := NewRegistry().Resolve(config.SummarizerConfig{Provider: "mystery"})
	assert.ErrorContains(t, err, "unsupported summarizer provider")
}

func TestClassifyStatus(t *testing.T) {
	assert.ErrorIs(t, ClassifyStatus(http.StatusUnauthorized, ""), ErrAuth)
	assert.ErrorIs(t, ClassifyStatus(http.StatusForbidden, ""), ErrAuth)
	assert.ErrorIs(t, ClassifyStatus(http.StatusTooManyRequests, ""), ErrRateLimit)
	assert.ErrorIs(t, ClassifyStatus(http.StatusBadGateway, ""), ErrInvalidResponse)
}
