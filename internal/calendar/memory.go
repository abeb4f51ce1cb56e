package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bookbot/internal/schedule"
)

// MemoryProvider keeps events in memory. It backs local runs without
// calendar credentials and doubles as the test provider.
type MemoryProvider struct {
	mu     sync.Mutex
	nextID int
	events []Event
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{nextID: 1}
}

func (m *MemoryProvider) Events(_ context.Context, w schedule.Window) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Event
	for _, ev := range m.events {
		if ev.Window.Overlaps(w) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Window.Start.Before(out[j].Window.Start)
	})
	return out, nil
}

func (m *MemoryProvider) Create(_ context.Context, w schedule.Window, title, _ string) (Event, error) {
	if !w.Valid() {
		return Event{}, &ProviderError{Op: "insert", Err: fmt.Errorf("invalid window %s", w)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ev := Event{
		ID:     fmt.Sprintf("mem-%d", m.nextID),
		Title:  title,
		Window: w,
	}
	m.nextID++
	m.events = append(m.events, ev)
	return ev, nil
}
