package ai

import "sync"

// KeyRing hands out API keys round-robin. The cursor only moves when a caller
// reports the key it used as exhausted.
type KeyRing struct {
	mu   sync.Mutex
	keys []string
	idx  int
}

// NewKeyRing returns a ring over keys, starting at the first one.
func NewKeyRing(keys []string) *KeyRing {
	return &KeyRing{keys: append([]string(nil), keys...)}
}

// Current returns the active key, or "" when the ring is empty.
func (r *KeyRing) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return ""
	}
	return r.keys[r.idx]
}

// RotateFrom advances to the next key if used is still the active one and
// returns the key that is active afterwards. Two callers failing on the same
// key therefore rotate once, not twice.
func (r *KeyRing) RotateFrom(used string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return ""
	}
	if r.keys[r.idx] == used {
		r.idx = (r.idx + 1) % len(r.keys)
	}
	return r.keys[r.idx]
}

// Len returns the size of the pool.
func (r *KeyRing) Len() int {
	return len(r.keys)
}
