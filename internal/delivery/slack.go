package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// slackSectionLimit is the maximum length of a Block Kit section's text.
const slackSectionLimit = 3000

// Ensure SlackTransport implements Transport.
var _ Transport = (*SlackTransport)(nil)

// SlackTransport posts messages to a Slack channel via an Incoming Webhook.
type SlackTransport struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackTransport returns a transport that posts to webhookURL.
func NewSlackTransport(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackTransport {
	return &SlackTransport{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// MaxMessageLength keeps chunks within a single section block.
func (s *SlackTransport) MaxMessageLength() int { return slackSectionLimit }

// Send posts text as a mrkdwn section. dest, when set, overrides the webhook's
// default channel. A 429 maps to RateLimited using Retry-After (default 1s)
// and a 400 (invalid blocks) maps to BadFormat.
func (s *SlackTransport) Send(ctx context.Context, dest, text string, action *Action) SendResult {
	body, err := json.Marshal(buildPayload(dest, text, action))
	if err != nil {
		return Failed(fmt.Errorf("marshal slack payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return Failed(fmt.Errorf("create slack request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Failed(fmt.Errorf("post to slack: %w", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Sent()
	case http.StatusTooManyRequests:
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited", "retry_after_secs", secs)
		return RateLimited(time.Duration(secs) * time.Second)
	case http.StatusBadRequest:
		return BadFormat(fmt.Errorf("slack returned %d", resp.StatusCode))
	default:
		return Failed(fmt.Errorf("slack returned %d", resp.StatusCode))
	}
}

// Block Kit payload types.

type slackPayload struct {
	Channel string       `json:"channel,omitempty"`
	Blocks  []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

func buildPayload(dest, text string, action *Action) slackPayload {
	blocks := []slackBlock{
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: text},
		},
	}
	if action != nil {
		blocks = append(blocks,
			slackBlock{
				Type: "actions",
				Elements: []slackElement{
					{
						Type:  "button",
						Text:  slackText{Type: "plain_text", Text: action.Text},
						URL:   action.URL,
						Style: "primary",
					},
				},
			},
			slackBlock{Type: "divider"},
		)
	}
	return slackPayload{Channel: dest, Blocks: blocks}
}
