package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookbot/internal/schedule"
)

type fakeProvider struct {
	events  []Event
	listErr error
}

func (f *fakeProvider) Events(_ context.Context, w schedule.Window) ([]Event, error) {
	if f.listErr != nil {
		return nil, &ProviderError{Op: "list events", Err: f.listErr}
	}
	var out []Event
	for _, ev := range f.events {
		if ev.Window.Overlaps(w) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeProvider) Create(_ context.Context, w schedule.Window, title, _ string) (Event, error) {
	return Event{ID: "ev-1", Title: title, Window: w}, nil
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad day %q: %v", s, err)
	}
	return d
}

func TestFreeSlotsSkipsBookedAndPast(t *testing.T) {
	wednesday := day(t, "2026-09-02")
	booked := schedule.At(wednesday.Add(14*time.Hour), time.Hour) // 14:00-15:00
	p := &fakeProvider{events: []Event{{ID: "x", Title: "busy", Window: booked}}}

	now := wednesday.Add(11*time.Hour + 30*time.Minute) // 11:30
	free, err := FreeSlots(context.Background(), p, schedule.DefaultRules(time.UTC), wednesday, now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// Grid is 10..17; 10 and 11 are past, 14 is booked.
	want := []int{12, 13, 15, 16, 17}
	if len(free) != len(want) {
		t.Fatalf("got %d slots, want %d: %v", len(free), len(want), free)
	}
	for i, h := range want {
		if free[i].Start.Hour() != h {
			t.Fatalf("slot %d starts at %d, want %d", i, free[i].Start.Hour(), h)
		}
	}
}

func TestFreeSlotsEmptyOnWeekend(t *testing.T) {
	saturday := day(t, "2026-09-05")
	p := &fakeProvider{}

	free, err := FreeSlots(context.Background(), p, schedule.DefaultRules(time.UTC), saturday, saturday)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(free) != 0 {
		t.Fatalf("expected no slots on Saturday, got %v", free)
	}
}

func TestFreeSlotsSurfacesProviderError(t *testing.T) {
	wednesday := day(t, "2026-09-02")
	p := &fakeProvider{listErr: errors.New("401 unauthorized")}

	_, err := FreeSlots(context.Background(), p, schedule.DefaultRules(time.UTC), wednesday, wednesday)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsProviderError(err) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
}

func TestBusySourceMapsEventWindows(t *testing.T) {
	wednesday := day(t, "2026-09-02")
	ev := Event{ID: "a", Title: "standup", Window: schedule.At(wednesday.Add(10*time.Hour), 30*time.Minute)}
	src := BusySource{Provider: &fakeProvider{events: []Event{ev}}}

	busy, err := src.Busy(context.Background(), schedule.Window{Start: wednesday, End: wednesday.AddDate(0, 0, 1)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(busy) != 1 || !busy[0].Start.Equal(ev.Window.Start) {
		t.Fatalf("unexpected busy windows: %v", busy)
	}
}
