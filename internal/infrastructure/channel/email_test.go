package channel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/domain"
)

func validEmailConfig() config.EmailConfig {
	return config.EmailConfig{
		SMTPServer: "smtp.example.com",
		SMTPPort:   587,
		Username:   "bot@example.com",
		Password:   "secret",
		Recipients: []string{"reader@example.com"},
	}
}

func normalRecord() domain.SummaryRecord {
	return domain.SummaryRecord{
		Story:   domain.Story{ID: 101, Title: "T1", URL: "http://a.com", Score: 120, Descendants: 45, By: "alice"},
		Content: domain.ContentMeta{Title: "T1", URL: "http://a.com", Domain: "a.com", ContentLength: 900},
		Summary: "Resumo X\nsecond line",
	}
}

func restrictedRecord() domain.SummaryRecord {
	return domain.RestrictedRecord(
		domain.Story{ID: 102, Title: "T2", URL: "http://bad.example"}, "bad.example")
}

func TestNewEmailChannelValidation(t *testing.T) {
	_, err := NewEmailChannel(config.EmailConfig{Recipients: []string{"x@example.com"}}, nil)
	assert.Error(t, err, "missing credentials must fail construction")

	cfg := validEmailConfig()
	cfg.Recipients = nil
	_, err = NewEmailChannel(cfg, nil)
	assert.Error(t, err, "missing recipients must fail construction")

	ch, err := NewEmailChannel(validEmailConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, "email", ch.Name())
	assert.Equal(t, "bot@example.com", ch.sender, "sender defaults to username")
}

func TestRenderEmailHTMLNormalRecord(t *testing.T) {
	html := renderEmailHTML([]domain.SummaryRecord{normalRecord()}, "2026-08-31")

	assert.Contains(t, html, `<a href="http://a.com">T1</a>`)
	assert.Contains(t, html, "alice")
	assert.Contains(t, html, "https://news.ycombinator.com/item?id=101")
	assert.Contains(t, html, "Resumo X<br>second line")
	assert.NotContains(t, html, domain.RestrictedSummary)
}

func TestRenderEmailHTMLRestrictedRecord(t *testing.T) {
	html := renderEmailHTML([]domain.SummaryRecord{restrictedRecord()}, "2026-08-31")

	assert.Contains(t, html, `<a href="http://bad.example">T2</a>`)
	assert.Contains(t, html, domain.RestrictedSummary)
	assert.NotContains(t, html, "Discuss on HN", "restricted records render title and link only")
}

func TestRenderEmailTextListsAllRecords(t *testing.T) {
	text := renderEmailText([]domain.SummaryRecord{normalRecord(), restrictedRecord()}, "2026-08-31")

	assert.Contains(t, text, "1. T1")
	assert.Contains(t, text, "2. T2")
	assert.Contains(t, text, "Points: 120 | Comments: 45")
	assert.Contains(t, text, domain.RestrictedSummary)
}

func TestRenderingIsDeterministic(t *testing.T) {
	records := []domain.SummaryRecord{normalRecord(), restrictedRecord()}

	assert.Equal(t,
		renderEmailHTML(records, "2026-08-31"),
		renderEmailHTML(records, "2026-08-31"))
	assert.Equal(t,
		renderEmailText(records, "2026-08-31"),
		renderEmailText(records, "2026-08-31"))
}

func TestBuildMultipartMessage(t *testing.T) {
	msg := buildMultipartMessage("bot@example.com", []string{"a@example.com", "b@example.com"},
		"Subject line", "plain body", "<p>html body</p>")

	assert.True(t, strings.HasPrefix(msg, "From: bot@example.com\r\n"))
	assert.Contains(t, msg, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, msg, "Subject: Subject line\r\n")
	assert.Contains(t, msg, "Content-Type: multipart/alternative;")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\nplain body")
	assert.Contains(t, msg, "Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n<p>html body</p>")
}
