package delivery

import (
	"context"
	"fmt"
	"time"
)

// Action is an inline button attached to a message.
type Action struct {
	Text string
	URL  string
}

// Outcome classifies a single send attempt.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeRateLimited
	OutcomeBadFormat
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeBadFormat:
		return "bad_format"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// SendResult is what a transport reports for one message.
type SendResult struct {
	Outcome    Outcome
	RetryAfter time.Duration // set for OutcomeRateLimited
	Err        error         // set for OutcomeBadFormat and OutcomeFailed
}

// Sent reports a delivered message.
func Sent() SendResult { return SendResult{Outcome: OutcomeSent} }

// RateLimited reports that the destination asked us to wait d before retrying.
func RateLimited(d time.Duration) SendResult {
	return SendResult{Outcome: OutcomeRateLimited, RetryAfter: d}
}

// BadFormat reports that the destination rejected the message markup.
func BadFormat(err error) SendResult { return SendResult{Outcome: OutcomeBadFormat, Err: err} }

// Failed reports any other delivery failure.
func Failed(err error) SendResult { return SendResult{Outcome: OutcomeFailed, Err: err} }

// Transport sends one markdown message to a destination. action, when non-nil,
// is rendered as a link button below the message.
type Transport interface {
	Send(ctx context.Context, dest, text string, action *Action) SendResult
}

// lengthLimiter is implemented by transports whose message limit differs from
// Telegram's.
type lengthLimiter interface {
	MaxMessageLength() int
}
