package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// Summarization failure kinds. The orchestrator, not the provider,
// decides the fallback policy; providers only classify.
var (
	ErrAuth            = errors.New("summarization auth failure")
	ErrRateLimit       = errors.New("summarization rate limited")
	ErrInvalidResponse = errors.New("summarization invalid response")
)

// ClassifyStatus maps an HTTP status from a summarization backend to
// the matching error kind.
func ClassifyStatus(status int, detail string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", ErrAuth, status, detail)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d: %s", ErrRateLimit, status, detail)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, status, detail)
	}
}
