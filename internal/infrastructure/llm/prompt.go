package llm

import (
	"fmt"
	"strings"

	"HNSummarizer/internal/domain"
)

// maxContentChars bounds the content excerpt embedded in a prompt, to
// keep request cost predictable and stay inside backend context limits.
const maxContentChars = 4000

const promptInstructions = `記事の主要なポイント、重要な洞察、重要な詳細を捉えた簡潔な要約（3〜5段落）を日本語で提供してください。
要約は元の記事を読んでいない人にとって有益で分かりやすいものにしてください。
前置きは含めず、直接要約の内容から始めてください。
箇条書きではなく、流れのある文章形式で提供してください。`

// buildPrompt embeds story metadata and a truncated content excerpt
// into the summarization instructions shared by all providers.
func buildPrompt(story domain.Story, content domain.ExtractedContent) string {
	var sb strings.Builder
	sb.WriteString("Please summarize the following article from Hacker News in Japanese:\n\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", story.Title))
	sb.WriteString(fmt.Sprintf("URL: %s\n", story.URL))
	sb.WriteString(fmt.Sprintf("Points: %d\n", story.Score))
	sb.WriteString(fmt.Sprintf("Comments: %d\n\n", story.Descendants))
	sb.WriteString("Content:\n")
	sb.WriteString(truncateRunes(content.Text, maxContentChars))
	sb.WriteString("\n\n")
	sb.WriteString(promptInstructions)
	return sb.String()
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
