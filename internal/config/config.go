package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone    = "UTC"
	configPathEnv      = "HN_SUMMARIZER_CONFIG"
	geminiAPIKeyEnv    = "GEMINI_API_KEY"
	openAIAPIKeyEnv    = "OPENAI_API_KEY"
	emailUsernameEnv   = "EMAIL_USERNAME"
	emailPasswordEnv   = "EMAIL_PASSWORD"
	emailSenderEnv     = "EMAIL_SENDER"
	emailRecipientsEnv = "EMAIL_RECIPIENTS"
	slackWebhookEnv    = "SLACK_WEBHOOK_URL"
	slackChannelEnv    = "SLACK_CHANNEL"
	lineTokenEnv       = "LINE_CHANNEL_TOKEN"
	lineRecipientEnv   = "LINE_RECIPIENT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Fetcher    FetcherConfig    `yaml:"fetcher"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FetcherConfig describes the feed API client.
type FetcherConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	Limit          int    `yaml:"limit"`
	RequestDelayMs int    `yaml:"requestDelayMs"`
}

// RequestDelay converts the configured delay to a duration.
func (f FetcherConfig) RequestDelay() time.Duration {
	return time.Duration(f.RequestDelayMs) * time.Millisecond
}

// ExtractorConfig describes page fetching for content extraction.
type ExtractorConfig struct {
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	UserAgent      string `yaml:"userAgent"`
}

// Timeout converts the configured timeout to a duration.
func (e ExtractorConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// SummarizerConfig selects and parameterizes the LLM provider.
type SummarizerConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"maxTokens"`
	APIKey    string `yaml:"apiKey"`
	Endpoint  string `yaml:"endpoint"`
}

// DeliveryConfig wires outbound notification channels. Method accepts a
// single name or a comma-separated list.
type DeliveryConfig struct {
	Method string      `yaml:"method"`
	Email  EmailConfig `yaml:"email"`
	Slack  SlackConfig `yaml:"slack"`
	Line   LineConfig  `yaml:"line"`
}

// Methods splits the configured delivery method value into names.
func (d DeliveryConfig) Methods() []string {
	parts := strings.Split(d.Method, ",")
	methods := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.ToLower(strings.TrimSpace(p)); name != "" {
			methods = append(methods, name)
		}
	}
	return methods
}

// EmailConfig wires SMTP delivery.
type EmailConfig struct {
	SMTPServer      string   `yaml:"smtpServer"`
	SMTPPort        int      `yaml:"smtpPort"`
	Username        string   `yaml:"username"`
	Password        string   `yaml:"password"`
	Sender          string   `yaml:"sender"`
	Recipients      []string `yaml:"recipients"`
	SubjectTemplate string   `yaml:"subjectTemplate"`
}

// SlackConfig wires incoming-webhook delivery.
type SlackConfig struct {
	WebhookURL    string `yaml:"webhookUrl"`
	Channel       string `yaml:"channel"`
	Username      string `yaml:"username"`
	IconEmoji     string `yaml:"iconEmoji"`
	MaxPerMessage int    `yaml:"maxSummariesPerMessage"`
}

// LineConfig wires push-message delivery.
type LineConfig struct {
	ChannelToken string `yaml:"channelToken"`
	RecipientID  string `yaml:"recipientId"`
	MaxPerPush   int    `yaml:"maxPerPush"`
}

// SchedulerConfig defines the optional recurring mode.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads YAML configuration from path (or the env-named file if
// path is empty) and applies environment overrides.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	switch strings.ToLower(c.Summarizer.Provider) {
	case "openai":
		if v := os.Getenv(openAIAPIKeyEnv); v != "" && c.Summarizer.APIKey == "" {
			c.Summarizer.APIKey = v
		}
	default:
		if v := os.Getenv(geminiAPIKeyEnv); v != "" && c.Summarizer.APIKey == "" {
			c.Summarizer.APIKey = v
		}
	}

	if v := os.Getenv(emailUsernameEnv); v != "" && c.Delivery.Email.Username == "" {
		c.Delivery.Email.Username = v
	}
	if v := os.Getenv(emailPasswordEnv); v != "" && c.Delivery.Email.Password == "" {
		c.Delivery.Email.Password = v
	}
	if v := os.Getenv(emailSenderEnv); v != "" && c.Delivery.Email.Sender == "" {
		c.Delivery.Email.Sender = v
	}
	if v := os.Getenv(emailRecipientsEnv); v != "" {
		recipients := make([]string, 0)
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				recipients = append(recipients, addr)
			}
		}
		if len(recipients) > 0 {
			c.Delivery.Email.Recipients = recipients
		}
	}

	if v := os.Getenv(slackWebhookEnv); v != "" && c.Delivery.Slack.WebhookURL == "" {
		c.Delivery.Slack.WebhookURL = v
	}
	if v := os.Getenv(slackChannelEnv); v != "" && c.Delivery.Slack.Channel == "" {
		c.Delivery.Slack.Channel = v
	}

	if v := os.Getenv(lineTokenEnv); v != "" && c.Delivery.Line.ChannelToken == "" {
		c.Delivery.Line.ChannelToken = v
	}
	if v := os.Getenv(lineRecipientEnv); v != "" && c.Delivery.Line.RecipientID == "" {
		c.Delivery.Line.RecipientID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Fetcher.BaseURL != "" {
		base.Fetcher.BaseURL = override.Fetcher.BaseURL
	}
	if override.Fetcher.Limit > 0 {
		base.Fetcher.Limit = override.Fetcher.Limit
	}
	if override.Fetcher.RequestDelayMs > 0 {
		base.Fetcher.RequestDelayMs = override.Fetcher.RequestDelayMs
	}

	if override.Extractor.TimeoutSeconds > 0 {
		base.Extractor.TimeoutSeconds = override.Extractor.TimeoutSeconds
	}
	if override.Extractor.UserAgent != "" {
		base.Extractor.UserAgent = override.Extractor.UserAgent
	}

	if override.Summarizer.Provider != "" {
		base.Summarizer.Provider = override.Summarizer.Provider
	}
	if override.Summarizer.Model != "" {
		base.Summarizer.Model = override.Summarizer.Model
	}
	if override.Summarizer.MaxTokens > 0 {
		base.Summarizer.MaxTokens = override.Summarizer.MaxTokens
	}
	if override.Summarizer.APIKey != "" {
		base.Summarizer.APIKey = override.Summarizer.APIKey
	}
	if override.Summarizer.Endpoint != "" {
		base.Summarizer.Endpoint = override.Summarizer.Endpoint
	}

	if override.Delivery.Method != "" {
		base.Delivery.Method = override.Delivery.Method
	}
	base.Delivery.Email = mergeEmail(base.Delivery.Email, override.Delivery.Email)
	base.Delivery.Slack = mergeSlack(base.Delivery.Slack, override.Delivery.Slack)
	base.Delivery.Line = mergeLine(base.Delivery.Line, override.Delivery.Line)

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}

func mergeEmail(base, override EmailConfig) EmailConfig {
	if override.SMTPServer != "" {
		base.SMTPServer = override.SMTPServer
	}
	if override.SMTPPort > 0 {
		base.SMTPPort = override.SMTPPort
	}
	if override.Username != "" {
		base.Username = override.Username
	}
	if override.Password != "" {
		base.Password = override.Password
	}
	if override.Sender != "" {
		base.Sender = override.Sender
	}
	if len(override.Recipients) > 0 {
		base.Recipients = override.Recipients
	}
	if override.SubjectTemplate != "" {
		base.SubjectTemplate = override.SubjectTemplate
	}
	return base
}

func mergeSlack(base, override SlackConfig) SlackConfig {
	if override.WebhookURL != "" {
		base.WebhookURL = override.WebhookURL
	}
	if override.Channel != "" {
		base.Channel = override.Channel
	}
	if override.Username != "" {
		base.Username = override.Username
	}
	if override.IconEmoji != "" {
		base.IconEmoji = override.IconEmoji
	}
	if override.MaxPerMessage > 0 {
		base.MaxPerMessage = override.MaxPerMessage
	}
	return base
}

func mergeLine(base, override LineConfig) LineConfig {
	if override.ChannelToken != "" {
		base.ChannelToken = override.ChannelToken
	}
	if override.RecipientID != "" {
		base.RecipientID = override.RecipientID
	}
	if override.MaxPerPush > 0 {
		base.MaxPerPush = override.MaxPerPush
	}
	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Fetcher: FetcherConfig{
			BaseURL:        "https://hacker-news.firebaseio.com/v0",
			Limit:          10,
			RequestDelayMs: 500,
		},
		Extractor: ExtractorConfig{
			TimeoutSeconds: 30,
			UserAgent:      "HN Summarizer Bot/1.0",
		},
		Summarizer: SummarizerConfig{
			Provider:  "gemini",
			Model:     "gemini-1.5-flash-latest",
			MaxTokens: 500,
		},
		Delivery: DeliveryConfig{
			Method: "email",
			Email: EmailConfig{
				SMTPServer:      "smtp.gmail.com",
				SMTPPort:        587,
				SubjectTemplate: "Hacker News Top Stories - {date}",
			},
			Slack: SlackConfig{
				Username:      "HN Summarizer Bot",
				IconEmoji:     ":newspaper:",
				MaxPerMessage: 3,
			},
			Line: LineConfig{MaxPerPush: 5},
		},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
	}
}
