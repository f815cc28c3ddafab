// Package notify delivers alert messages to chat channels.
package notify

import (
	"context"
	"log/slog"

	"github.com/donaldgifford/restock-tracker/internal/metrics"
)

// Notifier delivers a pre-formatted message. Messages use Telegram
// Markdown; channels without Markdown support send the text as-is.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Fallback sends through a primary channel and falls back to a secondary
// channel when the primary is not configured or fails.
type Fallback struct {
	primary   Notifier
	secondary Notifier
	log       *slog.Logger
}

// NewFallback creates a Fallback. Either notifier may be nil.
func NewFallback(primary, secondary Notifier, log *slog.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, log: log}
}

// Send implements Notifier.
func (f *Fallback) Send(ctx context.Context, text string) error {
	if f.primary == nil {
		if f.secondary == nil {
			return nil
		}
		f.log.Debug("primary notifier not configured, using fallback")
		return f.secondary.Send(ctx, text)
	}

	err := f.primary.Send(ctx, text)
	if err == nil || f.secondary == nil {
		return err
	}

	f.log.Warn("primary notifier failed, using fallback", "error", err)
	metrics.NotificationFailuresTotal.WithLabelValues("primary").Inc()
	return f.secondary.Send(ctx, text)
}
