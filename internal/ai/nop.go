package ai

import (
	"context"

	"github.com/amishk599/jobcast/internal/model"
)

// NopTagger is used when ai.enabled is false. It never calls a model and
// always returns no tags.
type NopTagger struct{}

// NewNopTagger returns a NopTagger.
func NewNopTagger() *NopTagger {
	return &NopTagger{}
}

// Tag returns "".
func (n *NopTagger) Tag(_ context.Context, _ model.Job) string {
	return ""
}
