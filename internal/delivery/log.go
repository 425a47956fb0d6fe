package delivery

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

// Ensure LogTransport implements Transport.
var _ Transport = (*LogTransport)(nil)

// LogTransport writes messages to the given logger instead of a chat. It is
// used for dry runs and never fails.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport returns a transport that logs each message via slog.
func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

// Send logs the message size and apply link. The text itself is logged at
// debug level.
func (t *LogTransport) Send(_ context.Context, dest, text string, action *Action) SendResult {
	args := []any{"dest", dest, "chars", utf8.RuneCountInString(text)}
	if action != nil {
		args = append(args, "apply_link", action.URL)
	}
	t.logger.Info("message", args...)
	t.logger.Debug("message text", "dest", dest, "text", text)
	return Sent()
}
