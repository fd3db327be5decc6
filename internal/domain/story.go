package domain

import "time"

// RestrictedSummary is the canonical placeholder used whenever a page
// could not be read or summarized. Kept in Japanese to match the
// digest language.
const RestrictedSummary = "このコンテンツはアクセス制限があるため要約できませんでした。"

// Story is a core entity describing one ranked feed item.
type Story struct {
	ID          int64
	Title       string
	URL         string
	Score       int
	Descendants int
	By          string
	FetchedAt   time.Time
}

// ExtractedContent is the plain-text result of fetching a story's page.
// AccessRestricted marks pages that could not be meaningfully retrieved;
// such results carry an empty Text but still a resolved Domain.
type ExtractedContent struct {
	URL              string
	Domain           string
	Title            string
	Text             string
	AccessRestricted bool
	ExtractedAt      time.Time
}

// ContentMeta is the content snapshot carried on a SummaryRecord.
type ContentMeta struct {
	Title         string
	URL           string
	Domain        string
	ContentLength int
}

// SummaryRecord is the delivery-ready unit for one story. Summary is
// never empty: a failed extraction or generation yields RestrictedSummary.
type SummaryRecord struct {
	Story            Story
	Content          ContentMeta
	Summary          string
	AccessRestricted bool
	SummarizedAt     time.Time
}

// RestrictedRecord builds the placeholder record for a story whose page
// was unreadable or whose summarization failed.
func RestrictedRecord(story Story, domainName string) SummaryRecord {
	return SummaryRecord{
		Story: story,
		Content: ContentMeta{
			Title:         story.Title,
			URL:           story.URL,
			Domain:        domainName,
			ContentLength: 0,
		},
		Summary:          RestrictedSummary,
		AccessRestricted: true,
		SummarizedAt:     time.Now().UTC(),
	}
}
