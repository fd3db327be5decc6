package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/domain"
)

func lineTestChannel(t *testing.T, handler http.HandlerFunc, maxPerPush int) *LineChannel {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ch, err := NewLineChannel(config.LineConfig{
		ChannelToken: "line-token",
		RecipientID:  "U123",
		MaxPerPush:   maxPerPush,
	}, nil)
	require.NoError(t, err)
	ch.endpoint = server.URL
	ch.pushDelay = 0
	return ch
}

func TestNewLineChannelValidation(t *testing.T) {
	_, err := NewLineChannel(config.LineConfig{RecipientID: "U123"}, nil)
	assert.Error(t, err, "missing token must fail construction")

	_, err = NewLineChannel(config.LineConfig{ChannelToken: "tok"}, nil)
	assert.Error(t, err, "missing recipient must fail construction")
}

func TestLineSendGroupsMessagesPerPush(t *testing.T) {
	var payloads []linePushPayload
	var auths []string
	ch := lineTestChannel(t, func(w http.ResponseWriter, r *http.Request) {
		var p linePushPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		payloads = append(payloads, p)
		auths = append(auths, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("{}"))
	}, 2)

	ok := ch.Send(context.Background(), storiesNamed("s1", "s2", "s3"))

	require.True(t, ok)
	require.Len(t, payloads, 2, "3 messages with cap 2 means 2 pushes")
	assert.Len(t, payloads[0].Messages, 2)
	assert.Len(t, payloads[1].Messages, 1)
	assert.Equal(t, "U123", payloads[0].To)
	assert.Equal(t, "Bearer line-token", auths[0])

	assert.Contains(t, payloads[0].Messages[0].Text, "s1")
	assert.Contains(t, payloads[0].Messages[1].Text, "s2")
	assert.Contains(t, payloads[1].Messages[0].Text, "s3")
}

func TestLineOversizedSummaryIsChunked(t *testing.T) {
	var payloads []linePushPayload
	ch := lineTestChannel(t, func(w http.ResponseWriter, r *http.Request) {
		var p linePushPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		payloads = append(payloads, p)
		_, _ = w.Write([]byte("{}"))
	}, 5)

	records := []domain.SummaryRecord{{
		Story:   domain.Story{Title: "big", URL: "http://a.com"},
		Summary: strings.Repeat("x", lineMaxTextLen+500),
	}}
	require.True(t, ch.Send(context.Background(), records))

	require.Len(t, payloads, 1)
	require.Len(t, payloads[0].Messages, 2)
	assert.Len(t, payloads[0].Messages[0].Text, lineMaxTextLen)
}

func TestLineRestrictedRecordUsesPlaceholder(t *testing.T) {
	record := domain.RestrictedRecord(domain.Story{Title: "T2", URL: "http://bad.example"}, "bad.example")
	text := renderLineText(record)

	assert.Contains(t, text, "T2")
	assert.Contains(t, text, domain.RestrictedSummary)
}

func TestLineServerErrorReturnsFalse(t *testing.T) {
	ch := lineTestChannel(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}, 5)

	assert.False(t, ch.Send(context.Background(), storiesNamed("s1")))
}
