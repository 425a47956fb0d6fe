package store

import (
	"time"

	"github.com/amishk599/jobcast/internal/model"
)

// Ensure NopStore implements model.JobStore.
var _ model.JobStore = (*NopStore)(nil)

// NopStore is a no-op store used for one-off checks. It never marks postings
// as seen, so every posting appears new on each run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(link string) (bool, error)     { return false, nil }
func (s *NopStore) MarkSeen(link string) error            { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error { return nil }
