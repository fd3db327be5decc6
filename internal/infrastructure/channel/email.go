package channel

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/domain"
	"HNSummarizer/internal/ports"
)

const emailDateFormat = "2006-01-02"

// EmailChannel sends the record batch as one multipart (plain + HTML)
// message over SMTP with STARTTLS.
type EmailChannel struct {
	server          string
	port            int
	username        string
	password        string
	sender          string
	recipients      []string
	subjectTemplate string
	logger          *slog.Logger
}

var _ ports.DeliveryChannel = (*EmailChannel)(nil)

// NewEmailChannel validates credentials eagerly: a misconfigured email
// channel fails at construction, not at send time.
func NewEmailChannel(cfg config.EmailConfig, log *slog.Logger) (*EmailChannel, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("email username and password are required")
	}
	if len(cfg.Recipients) == 0 {
		return nil, fmt.Errorf("at least one recipient email is required")
	}

	sender := cfg.Sender
	if sender == "" {
		sender = cfg.Username
	}
	subject := cfg.SubjectTemplate
	if subject == "" {
		subject = "Hacker News Top Stories - {date}"
	}

	return &EmailChannel{
		server:          cfg.SMTPServer,
		port:            cfg.SMTPPort,
		username:        cfg.Username,
		password:        cfg.Password,
		sender:          sender,
		recipients:      cfg.Recipients,
		subjectTemplate: subject,
		logger:          log,
	}, nil
}

// Name identifies the channel inside the registry.
func (c *EmailChannel) Name() string {
	return "email"
}

// Send transmits one multipart message containing every record.
func (c *EmailChannel) Send(_ context.Context, records []domain.SummaryRecord) bool {
	date := time.Now().Format(emailDateFormat)
	subject := strings.ReplaceAll(c.subjectTemplate, "{date}", date)
	msg := buildMultipartMessage(c.sender, c.recipients, subject,
		renderEmailText(records, date), renderEmailHTML(records, date))

	addr := fmt.Sprintf("%s:%d", c.server, c.port)
	auth := smtp.PlainAuth("", c.username, c.password, c.server)
	if err := smtp.SendMail(addr, auth, c.sender, c.recipients, []byte(msg)); err != nil {
		c.warn("email send failed", "error", err)
		return false
	}

	c.info("email sent", "recipients", len(c.recipients))
	return true
}

func buildMultipartMessage(sender string, recipients []string, subject, textBody, htmlBody string) string {
	const boundary = "hn-summarizer-alt"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", sender))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(recipients, ", ")))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(textBody)
	sb.WriteString("\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(htmlBody)
	sb.WriteString("\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return sb.String()
}

func renderEmailText(records []domain.SummaryRecord, date string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hacker News Top Stories - %s\n\n", date))

	for i, record := range records {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, record.Story.Title))
		sb.WriteString(fmt.Sprintf("URL: %s\n", record.Story.URL))
		sb.WriteString(fmt.Sprintf("Points: %d | Comments: %d\n\n", record.Story.Score, record.Story.Descendants))
		sb.WriteString(record.Summary)
		sb.WriteString("\n\n")
		sb.WriteString(strings.Repeat("-", 80))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

const emailCSS = `<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
h1 { color: #2c3e50; }
h2 { color: #3498db; margin-top: 20px; }
.story { margin-bottom: 30px; border-bottom: 1px solid #eee; padding-bottom: 20px; }
.meta { color: #7f8c8d; font-size: 0.9em; margin-bottom: 10px; }
.summary { line-height: 1.8; }
a { color: #3498db; text-decoration: none; }
a:hover { text-decoration: underline; }
.restricted { color: #95a5a6; font-style: italic; }
</style>`

func renderEmailHTML(records []domain.SummaryRecord, date string) string {
	var sb strings.Builder
	sb.WriteString("<html><head>")
	sb.WriteString(emailCSS)
	sb.WriteString("</head><body>")
	sb.WriteString(fmt.Sprintf("<h1>Hacker News Top Stories - %s</h1>", date))

	for i, record := range records {
		sb.WriteString(renderStoryHTML(record, i+1))
	}

	sb.WriteString("</body></html>")
	return sb.String()
}

// renderStoryHTML renders one record: title+link only for restricted
// pages, title+link+metadata+summary otherwise.
func renderStoryHTML(record domain.SummaryRecord, index int) string {
	header := fmt.Sprintf(`<h2>%d. <a href="%s">%s</a></h2>`, index, record.Story.URL, record.Story.Title)

	if record.AccessRestricted {
		return fmt.Sprintf(`<div class="story">%s<p class="restricted"><em>%s</em></p></div>`,
			header, domain.RestrictedSummary)
	}

	summary := strings.ReplaceAll(record.Summary, "\n", "<br>")
	meta := fmt.Sprintf(`<div class="meta">%s | <a href="https://news.ycombinator.com/item?id=%d">Discuss on HN</a></div>`,
		record.Story.By, record.Story.ID)
	return fmt.Sprintf(`<div class="story">%s%s<div class="summary">%s</div></div>`, header, meta, summary)
}

func (c *EmailChannel) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *EmailChannel) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
