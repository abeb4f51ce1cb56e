package schedule

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeSource serves canned busy windows, or fails like an unreachable
// calendar backend.
type fakeSource struct {
	busy []Window
	err  error
}

func (f *fakeSource) Busy(_ context.Context, w Window) ([]Window, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Window
	for _, b := range f.busy {
		if b.Overlaps(w) {
			out = append(out, b)
		}
	}
	return out, nil
}

func at(t *testing.T, day string, hour, min int) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("bad day %q: %v", day, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
}

// Reference week: Mon 2026-08-31 .. Sun 2026-09-06.
const (
	monday    = "2026-08-31"
	tuesday   = "2026-09-01"
	wednesday = "2026-09-02"
	saturday  = "2026-09-05"
)

func newTestEngine(src EventSource) *Engine {
	return NewEngine(DefaultRules(time.UTC), src, nil)
}

func TestEvaluateAcceptsInsideHours(t *testing.T) {
	eng := newTestEngine(&fakeSource{})
	now := at(t, tuesday, 9, 0)

	w := At(at(t, wednesday, 14, 0), time.Hour)
	v, err := eng.Evaluate(context.Background(), w, now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !v.Accepted {
		t.Fatalf("expected accept, got reason %s", v.Reason)
	}
	if len(v.Alternatives) != 0 {
		t.Fatalf("accepted verdict should not carry alternatives")
	}
}

func TestEvaluateRejectsNonWorkingDay(t *testing.T) {
	eng := newTestEngine(&fakeSource{})
	now := at(t, wednesday, 9, 0)

	w := At(at(t, saturday, 12, 0), time.Hour)
	v, err := eng.Evaluate(context.Background(), w, now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Accepted || v.Reason != ReasonNonWorkingDay {
		t.Fatalf("expected non_working_day, got %+v", v)
	}
	if len(v.Alternatives) == 0 {
		t.Fatalf("expected alternatives")
	}
	first := v.Alternatives[0]
	if first.Start.Weekday() != time.Monday || first.Start.Hour() != 12 {
		t.Fatalf("expected Monday noon first, got %s", first)
	}
}

func TestEvaluateRejectsBeforeOpen(t *testing.T) {
	eng := newTestEngine(&fakeSource{})
	now := at(t, tuesday, 20, 0)

	w := At(at(t, wednesday, 8, 0), time.Hour)
	v, err := eng.Evaluate(context.Background(), w, now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Accepted || v.Reason != ReasonOutsideHours {
		t.Fatalf("expected outside_hours, got %+v", v)
	}
	first := v.Alternatives[0]
	if !first.Start.Equal(at(t, wednesday, 10, 0)) {
		t.Fatalf("expected 10:00 same day first, got %s", first)
	}
}

func TestEvaluateRejectsEndAfterClose(t *testing.T) {
	eng := newTestEngine(&fakeSource{})
	now := at(t, tuesday, 9, 0)

	// 17:30 + 1h would end at 18:30, past closing.
	w := At(at(t, wednesday, 17, 30), time.Hour)
	v, err := eng.Evaluate(context.Background(), w, now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Accepted || v.Reason != ReasonOutsideHours {
		t.Fatalf("expected outside_hours, got %+v", v)
	}
	first := v.Alternatives[0]
	if !first.Start.Equal(at(t, wednesday, 17, 0)) {
		t.Fatalf("expected clamp to 17:00, got %s", first)
	}
}

func TestEvaluateRejectsConflict(t *testing.T) {
	src := &fakeSource{busy: []Window{At(at(t, wednesday, 14, 0), time.Hour)}}
	eng := newTestEngine(src)
	now := at(t, wednesday, 9, 0)

	w := Window{Start: at(t, wednesday, 14, 30), End: at(t, wednesday, 15, 30)}
	v, err := eng.Evaluate(context.Background(), w, now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Accepted || v.Reason != ReasonConflict {
		t.Fatalf("expected conflict, got %+v", v)
	}
	first := v.Alternatives[0]
	if !first.Start.Equal(at(t, wednesday, 15, 0)) || !first.End.Equal(at(t, wednesday, 16, 0)) {
		t.Fatalf("expected 15:00-16:00 first free slot, got %s", first)
	}
}

func TestEvaluateAcceptsAbuttingEvent(t *testing.T) {
	// Existing 14:00-15:00; a 15:00-16:00 request merely abuts it.
	src := &fakeSource{busy: []Window{At(at(t, wednesday, 14, 0), time.Hour)}}
	eng := newTestEngine(src)
	now := at(t, wednesday, 9, 0)

	v, err := eng.Evaluate(context.Background(), At(at(t, wednesday, 15, 0), time.Hour), now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !v.Accepted {
		t.Fatalf("abutting window should be accepted, got %+v", v)
	}
}

func TestEvaluatePropagatesProviderError(t *testing.T) {
	src := &fakeSource{err: errors.New("calendar unreachable")}
	eng := newTestEngine(src)
	now := at(t, wednesday, 9, 0)

	v, err := eng.Evaluate(context.Background(), At(at(t, wednesday, 14, 0), time.Hour), now)
	if err == nil {
		t.Fatalf("expected provider error to propagate")
	}
	if v.Accepted {
		t.Fatalf("provider failure must never yield an accept")
	}
}

func TestEvaluateNoAvailabilityWhenHorizonExhausted(t *testing.T) {
	rules := DefaultRules(time.UTC)
	rules.HorizonDays = 1

	// Both scan days fully booked.
	src := &fakeSource{busy: []Window{
		{Start: at(t, wednesday, 10, 0), End: at(t, wednesday, 18, 0)},
		{Start: at(t, "2026-09-03", 10, 0), End: at(t, "2026-09-03", 18, 0)},
	}}
	eng := NewEngine(rules, src, nil)
	now := at(t, wednesday, 9, 0)

	v, err := eng.Evaluate(context.Background(), At(at(t, wednesday, 14, 0), time.Hour), now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Accepted || v.Reason != ReasonNoAvailability {
		t.Fatalf("expected no_availability, got %+v", v)
	}
	if len(v.Alternatives) != 0 {
		t.Fatalf("exhausted search should carry no alternatives")
	}
}

func TestAlternativesNeverInPast(t *testing.T) {
	eng := newTestEngine(&fakeSource{})
	// Asking about Saturday after the following Monday noon already passed.
	now := at(t, "2026-09-07", 13, 0) // Monday 13:00

	v, err := eng.Evaluate(context.Background(), At(at(t, saturday, 12, 0), time.Hour), now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Accepted {
		t.Fatalf("expected rejection")
	}
	rules := eng.Rules()
	for _, alt := range v.Alternatives {
		if !alt.Start.After(now) {
			t.Fatalf("alternative %s not after now %s", alt, now)
		}
		if !rules.Workday(alt.Start.Weekday()) {
			t.Fatalf("alternative %s on a non-working day", alt)
		}
		if !rules.WithinHours(alt) {
			t.Fatalf("alternative %s outside business hours", alt)
		}
	}
}

func TestConflictAlternativesSkipWeekend(t *testing.T) {
	// Friday fully booked; next free slots must land on Monday.
	friday := "2026-09-04"
	src := &fakeSource{busy: []Window{
		{Start: at(t, friday, 10, 0), End: at(t, friday, 18, 0)},
	}}
	eng := newTestEngine(src)
	now := at(t, friday, 9, 0)

	v, err := eng.Evaluate(context.Background(), At(at(t, friday, 14, 0), time.Hour), now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Reason != ReasonConflict {
		t.Fatalf("expected conflict, got %+v", v)
	}
	for _, alt := range v.Alternatives {
		if wd := alt.Start.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("alternative %s on weekend", alt)
		}
	}
	if first := v.Alternatives[0]; first.Start.Weekday() != time.Monday {
		t.Fatalf("expected Monday, got %s", first)
	}
}
