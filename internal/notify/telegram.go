package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/donaldgifford/restock-tracker/internal/metrics"
)

const telegramTimeout = 10 * time.Second

// botSender is the part of the bot API used for delivery.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier implements Notifier via the Telegram Bot API.
type TelegramNotifier struct {
	bot     botSender
	chatID  int64
	channel string
}

// TelegramOption configures a TelegramNotifier.
type TelegramOption func(*telegramConfig)

type telegramConfig struct {
	endpoint string
	client   *http.Client
	channel  string
}

// WithTelegramEndpoint overrides the Bot API endpoint format, which takes
// the token and method, e.g. "https://api.telegram.org/bot%s/%s".
func WithTelegramEndpoint(endpoint string) TelegramOption {
	return func(c *telegramConfig) {
		c.endpoint = endpoint
	}
}

// WithTelegramHTTPClient sets a custom HTTP client.
func WithTelegramHTTPClient(hc *http.Client) TelegramOption {
	return func(c *telegramConfig) {
		c.client = hc
	}
}

// WithTelegramChannel sets the metrics label of the bot.
func WithTelegramChannel(name string) TelegramOption {
	return func(c *telegramConfig) {
		c.channel = name
	}
}

// NewTelegramNotifier creates a TelegramNotifier for a bot token and chat.
// The token is not verified until the first message is sent.
func NewTelegramNotifier(token string, chatID int64, opts ...TelegramOption) *TelegramNotifier {
	cfg := telegramConfig{
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{Timeout: telegramTimeout},
		channel:  "telegram",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: cfg.client,
		Buffer: 100,
	}
	bot.SetAPIEndpoint(cfg.endpoint)

	return &TelegramNotifier{bot: bot, chatID: chatID, channel: cfg.channel}
}

// Send implements Notifier. The message is sent with Markdown parse mode
// and link previews enabled.
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		metrics.NotificationFailuresTotal.WithLabelValues(n.channel).Inc()
		return fmt.Errorf("sending telegram message: %w", err)
	}

	metrics.NotificationsSentTotal.WithLabelValues(n.channel).Inc()
	return nil
}
