package availability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"bookbot/internal/calendar"
	"bookbot/internal/handler"
	"bookbot/internal/intent"
	"bookbot/internal/respond"
	"bookbot/internal/schedule"
	"bookbot/internal/timeparse"
)

type fakeProvider struct {
	events  []calendar.Event
	listErr error
}

func (f *fakeProvider) Events(_ context.Context, w schedule.Window) ([]calendar.Event, error) {
	if f.listErr != nil {
		return nil, &calendar.ProviderError{Op: "list", Err: f.listErr}
	}
	var out []calendar.Event
	for _, ev := range f.events {
		if ev.Window.Overlaps(w) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeProvider) Create(context.Context, schedule.Window, string, string) (calendar.Event, error) {
	return calendar.Event{}, errors.New("not used")
}

func newDeps(fp *fakeProvider) handler.Deps {
	rules := schedule.DefaultRules(time.UTC)
	return handler.Deps{
		Rules:    rules,
		Parser:   timeparse.New(time.UTC),
		Engine:   schedule.NewEngine(rules, calendar.BusySource{Provider: fp}, nil),
		Provider: fp,
		Log:      zap.NewNop(),
	}
}

// refNow is Tuesday 2026-09-01, 09:00 UTC.
var refNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func TestHandleListsFreeSlots(t *testing.T) {
	fp := &fakeProvider{events: []calendar.Event{{
		ID: "busy",
		Window: schedule.Window{
			Start: time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC),
		},
	}}}
	req := handler.Request{
		Message: "what's free tomorrow?",
		Intent:  intent.Result{Intent: intent.IntentAvailability, Date: "2026-09-02"},
		Now:     refNow,
	}

	reply, err := Availability{}.Handle(context.Background(), newDeps(fp), req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if reply.Summary.Status != respond.StatusInfo {
		t.Fatalf("status = %q", reply.Summary.Status)
	}
	// 10..17 start hours minus the booked 14:00 slot.
	if len(reply.Summary.Alternatives) != 7 {
		t.Fatalf("slots = %d, want 7 (%q)", len(reply.Summary.Alternatives), reply.Text)
	}
	if strings.Contains(reply.Text, "2:00 PM - 3:00 PM") {
		t.Fatalf("booked slot should not be offered: %q", reply.Text)
	}
}

func TestHandleDefaultsToNextWorkday(t *testing.T) {
	fp := &fakeProvider{}
	req := handler.Request{
		Message: "anything open?",
		Intent:  intent.Result{Intent: intent.IntentAvailability},
		Now:     refNow,
	}

	reply, err := Availability{}.Handle(context.Background(), newDeps(fp), req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(reply.Text, "Wednesday, September 2") {
		t.Fatalf("expected next workday in reply, got %q", reply.Text)
	}
}

func TestHandleSkipsWeekendWhenDefaulting(t *testing.T) {
	fp := &fakeProvider{}
	req := handler.Request{
		Message: "anything open?",
		Intent:  intent.Result{Intent: intent.IntentAvailability},
		// Friday 2026-09-04; the next workday is Monday the 7th.
		Now: time.Date(2026, 9, 4, 9, 0, 0, 0, time.UTC),
	}

	reply, err := Availability{}.Handle(context.Background(), newDeps(fp), req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(reply.Text, "Monday, September 7") {
		t.Fatalf("expected Monday in reply, got %q", reply.Text)
	}
}

func TestHandleReportsCalendarOutage(t *testing.T) {
	fp := &fakeProvider{listErr: errors.New("503")}
	req := handler.Request{
		Message: "what's free friday?",
		Intent:  intent.Result{Intent: intent.IntentAvailability, Date: "2026-09-04"},
		Now:     refNow,
	}

	reply, err := Availability{}.Handle(context.Background(), newDeps(fp), req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if reply.Summary.Status != respond.StatusUnavailable {
		t.Fatalf("status = %q", reply.Summary.Status)
	}
}
