package calendar

import (
	"context"
	"testing"
	"time"

	"bookbot/internal/schedule"
)

func TestMemoryProviderCreateAndList(t *testing.T) {
	p := NewMemoryProvider()
	wednesday := day(t, "2026-09-02")

	w := schedule.At(wednesday.Add(14*time.Hour), time.Hour)
	ev, err := p.Create(context.Background(), w, "Dentist", "checkup")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.ID == "" || ev.Title != "Dentist" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	got, err := p.Events(context.Background(), schedule.At(wednesday.Add(14*time.Hour+30*time.Minute), time.Hour))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].ID != ev.ID {
		t.Fatalf("events = %+v", got)
	}

	// Non-overlapping query sees nothing.
	got, err = p.Events(context.Background(), schedule.At(wednesday.Add(16*time.Hour), time.Hour))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no events, got %+v", got)
	}
}

func TestMemoryProviderRejectsInvalidWindow(t *testing.T) {
	p := NewMemoryProvider()
	wednesday := day(t, "2026-09-02")

	_, err := p.Create(context.Background(), schedule.Window{Start: wednesday, End: wednesday}, "x", "")
	if !IsProviderError(err) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}
