package telegram

import (
	"sync"
	"testing"
	"time"
)

func TestSweepDropsOnlyIdleSessions(t *testing.T) {
	b := &Bot{sessions: make(map[int64]*session)}

	stale := &session{}
	stale.lastUse.Store(time.Now().Add(-3 * time.Hour).UnixNano())
	fresh := &session{}
	fresh.touch()
	b.sessions[1] = stale
	b.sessions[2] = fresh

	b.sweep(time.Now().Add(-sessionIdleLimit))

	if _, ok := b.sessions[1]; ok {
		t.Fatal("stale session should be dropped")
	}
	if _, ok := b.sessions[2]; !ok {
		t.Fatal("fresh session should survive")
	}
}

func TestTouchIsSafeUnderConcurrentSweep(t *testing.T) {
	b := &Bot{sessions: make(map[int64]*session)}
	s := &session{}
	s.touch()
	b.sessions[1] = s

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.touch()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			b.sweep(time.Now().Add(-sessionIdleLimit))
		}
	}()
	wg.Wait()

	if _, ok := b.sessions[1]; !ok {
		t.Fatal("actively touched session should never be swept")
	}
}
