package ai

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/amishk599/jobcast/internal/model"
)

// DefaultCooldown is how long the tagger backs off after the service throttles.
const DefaultCooldown = 60 * time.Second

// Ensure LLMTagger implements model.Tagger.
var _ model.Tagger = (*LLMTagger)(nil)

// LLMTagger classifies jobs into an allow-listed set of hashtags using a
// generative model.
type LLMTagger struct {
	provider Provider
	keys     *KeyRing
	tmpl     *template.Template
	allowed  []string
	allowSet map[string]bool
	cooldown time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *slog.Logger
}

// NewLLMTagger creates a tagger that uses keys from ring and only emits tags
// in allowed (plus the years-of-experience tag).
func NewLLMTagger(provider Provider, ring *KeyRing, tmpl *template.Template, allowed []string, cooldown time.Duration, logger *slog.Logger) *LLMTagger {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[strings.ToLower(strings.TrimPrefix(a, "#"))] = true
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &LLMTagger{
		provider: provider,
		keys:     ring,
		tmpl:     tmpl,
		allowed:  allowed,
		allowSet: set,
		cooldown: cooldown,
		sleep:    sleepCtx,
		logger:   logger,
	}
}

// Tag returns the space-joined hashtags for job, or "" when the model gives
// nothing usable or the call fails. Failures never propagate.
func (t *LLMTagger) Tag(ctx context.Context, job model.Job) string {
	var promptBuf bytes.Buffer
	if err := t.tmpl.Execute(&promptBuf, struct {
		Title, Company, Location, Description string
		AllowedTags                           []string
	}{
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: job.Description,
		AllowedTags: t.allowed,
	}); err != nil {
		t.logger.Error("render tagging prompt", "job_title", job.Title, "error", err)
		return ""
	}

	key := t.keys.Current()
	reply, err := t.provider.Generate(ctx, key, promptBuf.String())
	switch {
	case err == nil:
		return ExtractTags(reply, t.allowSet)
	case errors.Is(err, ErrResourceExhausted):
		next := t.keys.RotateFrom(key)
		t.logger.Warn("ai key exhausted, rotated",
			"job_title", job.Title,
			"pool_size", t.keys.Len(),
			"rotated", next != key,
		)
	case errors.Is(err, ErrTooManyRequests):
		t.logger.Warn("ai rate limited, cooling down", "job_title", job.Title, "cooldown", t.cooldown)
		if serr := t.sleep(ctx, t.cooldown); serr != nil {
			t.logger.Debug("cooldown interrupted", "error", serr)
		}
	default:
		t.logger.Error("ai tagging failed", "job_title", job.Title, "error", err)
	}
	return ""
}

var (
	nonWordRegex = regexp.MustCompile(`[^\w]`)
	yearsExp     = regexp.MustCompile(`^\d+yexp$`)
)

// ExtractTags reduces a free-text model reply to hashtags. A token survives if
// its bare lower-case form is in allow or looks like "3yexp". Order of first
// appearance is kept and duplicates are dropped.
func ExtractTags(reply string, allow map[string]bool) string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(reply) {
		bare := nonWordRegex.ReplaceAllString(tok, "")
		bare = strings.ToLower(bare)
		if bare == "" || seen[bare] {
			continue
		}
		if !allow[bare] && !yearsExp.MatchString(bare) {
			continue
		}
		seen[bare] = true
		out = append(out, "#"+bare)
	}
	return strings.Join(out, " ")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
