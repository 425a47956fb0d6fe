package ai

import (
	"sync"
	"testing"
)

func TestKeyRing_RotatesRoundRobin(t *testing.T) {
	r := NewKeyRing([]string{"a", "b", "c"})
	want := []string{"b", "c", "a", "b"}
	for i, w := range want {
		if got := r.RotateFrom(r.Current()); got != w {
			t.Errorf("rotation %d = %q, want %q", i, got, w)
		}
	}
}

func TestKeyRing_StaleRotationIsIgnored(t *testing.T) {
	r := NewKeyRing([]string{"a", "b", "c"})
	r.RotateFrom("a")
	if got := r.RotateFrom("a"); got != "b" {
		t.Errorf("rotating from stale key moved cursor to %q, want b", got)
	}
}

func TestKeyRing_ConcurrentFailuresRotateOnce(t *testing.T) {
	r := NewKeyRing([]string{"a", "b", "c"})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RotateFrom("a")
		}()
	}
	wg.Wait()
	if got := r.Current(); got != "b" {
		t.Errorf("Current = %q, want b", got)
	}
}

func TestKeyRing_Empty(t *testing.T) {
	r := NewKeyRing(nil)
	if r.Current() != "" || r.RotateFrom("") != "" {
		t.Error("empty ring should return empty keys")
	}
}
