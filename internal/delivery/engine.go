package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/amishk599/jobcast/internal/mdsplit"
	"github.com/amishk599/jobcast/internal/model"
)

const (
	// DefaultMessageDelay is the pause between two successful sends.
	DefaultMessageDelay = time.Second
	// ApplyButtonText labels the button attached to a job's last chunk.
	ApplyButtonText = "👆 Click Here To Apply 👆"
)

// State is the progress of the current batch.
type State int32

const (
	StatePending State = iota
	StateSending
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateSending:
		return "SENDING"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Ensure Engine implements model.Deliverer.
var _ model.Deliverer = (*Engine)(nil)

// Engine delivers batches of jobs through a transport, one message at a time.
// Concurrent Deliver calls are serialized so that pacing holds across batches.
type Engine struct {
	mu        sync.Mutex
	transport Transport
	delay     time.Duration
	maxLen    int
	state     atomic.Int32
	sleep     func(ctx context.Context, d time.Duration) error
	logger    *slog.Logger
}

// NewEngine creates an engine that waits delay between successful sends.
func NewEngine(transport Transport, delay time.Duration, logger *slog.Logger) *Engine {
	maxLen := mdsplit.MaxMessageLength
	if l, ok := transport.(lengthLimiter); ok {
		maxLen = l.MaxMessageLength()
	}
	return &Engine{
		transport: transport,
		delay:     delay,
		maxLen:    maxLen,
		sleep:     sleepCtx,
		logger:    logger,
	}
}

// State returns the progress of the most recent batch.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Deliver sends every job to dest in order. Each job's message is split into
// balanced chunks and the last chunk carries the apply button. Rate-limited
// chunks are retried after the requested wait; chunks rejected for bad markup
// are skipped. Any other failure aborts the batch with a *DeliveryError.
func (e *Engine) Deliver(ctx context.Context, dest string, jobs []model.Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Store(int32(StateSending))
	defer e.state.Store(int32(StateDone))

	sent := 0
	for i, job := range jobs {
		chunks := mdsplit.Split(job.Message(), e.maxLen)
		for c, text := range chunks {
			var action *Action
			if c == len(chunks)-1 && job.ApplyLink != "" {
				action = &Action{Text: ApplyButtonText, URL: job.ApplyLink}
			}
			if sent > 0 {
				if err := e.sleep(ctx, e.delay); err != nil {
					return &DeliveryError{Dest: dest, JobTitle: job.Title, Chunk: c, Err: err}
				}
			}
			ok, err := e.sendChunk(ctx, dest, job, c, text, action)
			if err != nil {
				return err
			}
			if ok {
				sent++
			}
		}
		e.logger.Debug("job delivered", "job_title", job.Title, "chunks", len(chunks), "index", i)
	}

	e.logger.Info("delivery complete", "dest", dest, "jobs", len(jobs), "messages", sent)
	return nil
}

// sendChunk sends one chunk, retrying for as long as the transport reports
// rate limiting. ok is false when the chunk was skipped.
func (e *Engine) sendChunk(ctx context.Context, dest string, job model.Job, chunk int, text string, action *Action) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, &DeliveryError{Dest: dest, JobTitle: job.Title, Chunk: chunk, Err: err}
		}

		res := e.transport.Send(ctx, dest, text, action)
		switch res.Outcome {
		case OutcomeSent:
			return true, nil
		case OutcomeRateLimited:
			e.logger.Warn("rate limited, waiting", "job_title", job.Title, "chunk", chunk, "retry_after", res.RetryAfter)
			if err := e.sleep(ctx, res.RetryAfter); err != nil {
				return false, &DeliveryError{Dest: dest, JobTitle: job.Title, Chunk: chunk, Err: err}
			}
		case OutcomeBadFormat:
			e.logger.Warn("message rejected for bad markup, skipping chunk", "job_title", job.Title, "chunk", chunk, "error", res.Err)
			return false, nil
		default:
			err := res.Err
			if err == nil {
				err = fmt.Errorf("transport reported %s", res.Outcome)
			}
			return false, &DeliveryError{Dest: dest, JobTitle: job.Title, Chunk: chunk, Err: err}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
