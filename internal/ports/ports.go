package ports

import (
	"context"
	"time"

	"HNSummarizer/internal/domain"
)

// StorySource pulls the ranked story list from the upstream feed.
type StorySource interface {
	FetchTop(ctx context.Context, limit int) ([]domain.Story, error)
}

// ContentExtractor reduces a story's page to plain text. It never
// returns an error: unreachable or unreadable pages come back as
// access-restricted content.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) domain.ExtractedContent
}

// SummaryProvider generates a natural-language summary for extracted
// content via a remote text-generation backend.
type SummaryProvider interface {
	Name() string
	GenerateSummary(ctx context.Context, story domain.Story, content domain.ExtractedContent) (string, error)
}

// DeliveryChannel renders and transmits a batch of summary records.
// Send must not panic or propagate errors; failures are logged inside
// the channel and reported as false.
type DeliveryChannel interface {
	Name() string
	Send(ctx context.Context, records []domain.SummaryRecord) bool
}

// Deliverer fans a record batch out to every configured channel.
type Deliverer interface {
	Deliver(ctx context.Context, records []domain.SummaryRecord) bool
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
