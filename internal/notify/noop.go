package notify

import (
	"context"
	"log/slog"
	"strings"
)

// NoOpNotifier logs messages instead of delivering them. It stands in when
// no chat channel is configured so alerts still show up in the log.
type NoOpNotifier struct {
	log *slog.Logger
}

func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Send logs the first line of the message.
func (n *NoOpNotifier) Send(ctx context.Context, text string) error {
	headline, _, _ := strings.Cut(text, "\n")
	n.log.InfoContext(ctx, "alert not delivered, no channel configured",
		"headline", headline,
		"length", len(text),
	)
	return nil
}
