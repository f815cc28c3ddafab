package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/donaldgifford/restock-tracker/internal/metrics"
)

const discordContentLimit = 2000

// DiscordNotifier posts messages to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	username   string
	client     *http.Client
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// WithUsername overrides the webhook's display name.
func WithUsername(name string) DiscordOption {
	return func(d *DiscordNotifier) {
		d.username = name
	}
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{webhookURL: webhookURL, client: http.DefaultClient}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RateLimitError is returned when Discord answers 429.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("discord rate limited (429), retry after %s", e.RetryAfter)
}

type webhookMessage struct {
	Content         string          `json:"content"`
	Username        string          `json:"username,omitempty"`
	AllowedMentions allowedMentions `json:"allowed_mentions"`
}

// allowedMentions with an empty Parse list disables @everyone and role pings.
type allowedMentions struct {
	Parse []string `json:"parse"`
}

// Send converts the Telegram Markdown message and posts it, truncated to
// Discord's content limit.
func (d *DiscordNotifier) Send(ctx context.Context, text string) error {
	msg := webhookMessage{
		Content:         truncate(discordMarkdown(text), discordContentLimit),
		Username:        d.username,
		AllowedMentions: allowedMentions{Parse: []string{}},
	}
	if err := d.post(ctx, msg); err != nil {
		metrics.NotificationFailuresTotal.WithLabelValues("discord").Inc()
		return err
	}
	metrics.NotificationsSentTotal.WithLabelValues("discord").Inc()
	return nil
}

// discordMarkdown rewrites Telegram bold (*x*) to Discord bold (**x**).
// Underscore italics and backtick code are the same in both dialects.
func discordMarkdown(s string) string {
	return strings.ReplaceAll(s, "*", "**")
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-1]) + "…"
}

func (d *DiscordNotifier) post(ctx context.Context, msg webhookMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling discord message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode == http.StatusTooManyRequests {
		secs := gjson.GetBytes(respBody, "retry_after").Float()
		return &RateLimitError{RetryAfter: time.Duration(secs * float64(time.Second))}
	}
	if reason := gjson.GetBytes(respBody, "message"); reason.Exists() {
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, reason.String())
	}
	return fmt.Errorf("discord returned %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
}
