package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/amishk599/jobcast/internal/mdsplit"
)

// telegramSender is the part of *tele.Bot the transport uses.
type telegramSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// chat is a Telegram destination: a numeric chat ID or an @channel username.
type chat string

func (c chat) Recipient() string { return string(c) }

// Ensure TelegramTransport implements Transport.
var _ Transport = (*TelegramTransport)(nil)

// TelegramTransport sends messages through the Telegram Bot API.
type TelegramTransport struct {
	sender telegramSender
	logger *slog.Logger
}

// NewTelegramTransport creates a transport for the bot identified by token.
// The bot is created offline; it only sends and never polls for updates.
func NewTelegramTransport(token string, logger *slog.Logger) (*TelegramTransport, error) {
	bot, err := tele.NewBot(tele.Settings{Token: token, Offline: true})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramTransport{sender: bot, logger: logger}, nil
}

// MaxMessageLength is Telegram's text message limit.
func (t *TelegramTransport) MaxMessageLength() int { return mdsplit.MaxMessageLength }

// Send posts text to dest using legacy Markdown with link previews disabled.
func (t *TelegramTransport) Send(ctx context.Context, dest, text string, action *Action) SendResult {
	if err := ctx.Err(); err != nil {
		return Failed(err)
	}

	opts := &tele.SendOptions{
		ParseMode:             tele.ModeMarkdown,
		DisableWebPagePreview: true,
	}
	if action != nil {
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(markup.URL(action.Text, action.URL)))
		opts.ReplyMarkup = markup
	}

	_, err := t.sender.Send(chat(dest), text, opts)
	res := classifyTelegramError(err)
	if res.Outcome != OutcomeSent {
		t.logger.Debug("telegram send failed", "dest", dest, "outcome", res.Outcome, "error", err)
	}
	return res
}

// classifyTelegramError maps a Bot API error onto a SendResult.
func classifyTelegramError(err error) SendResult {
	if err == nil {
		return Sent()
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return RateLimited(time.Duration(flood.RetryAfter) * time.Second)
	}
	if strings.Contains(strings.ToLower(err.Error()), "can't parse entities") {
		return BadFormat(err)
	}
	return Failed(err)
}
