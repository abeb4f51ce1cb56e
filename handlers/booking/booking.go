// Package booking handles "book me an appointment" turns: resolve the
// requested window, run it through the rule engine, and either create
// the event or explain the rejection with alternatives.
package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookbot/internal/calendar"
	"bookbot/internal/handler"
	"bookbot/internal/intent"
	"bookbot/internal/respond"
	"bookbot/internal/schedule"
	"bookbot/internal/timeparse"
)

func init() {
	handler.Register(Booking{})
}

type Booking struct{}

func (Booking) ID() string        { return "booking" }
func (Booking) Intents() []string { return []string{intent.IntentBook} }

func (Booking) Handle(ctx context.Context, deps handler.Deps, req handler.Request) (respond.Reply, error) {
	w, fromExtractor, err := resolveWindow(deps, req)
	if err != nil {
		var pe *timeparse.ParseError
		if errors.As(err, &pe) {
			return respond.Clarification(), nil
		}
		return respond.Reply{}, err
	}
	// The model's duration only applies to its own date/time text. When
	// the window came from parsing the raw message, the parser already
	// honored any stated duration and the model's number may just echo
	// the prompt's example.
	if m := req.Intent.DurationMinutes; m > 0 && fromExtractor {
		w.End = w.Start.Add(time.Duration(m) * time.Minute)
	}

	verdict, err := deps.Engine.Evaluate(ctx, w, req.Now)
	if err != nil {
		if calendar.IsProviderError(err) {
			deps.Log.Error("booking aborted, calendar unreachable", zap.Error(err))
			return respond.CalendarUnavailable(), nil
		}
		return respond.Reply{}, err
	}
	if !verdict.Accepted {
		return respond.Rejection(w, verdict, deps.Rules), nil
	}

	title := strings.TrimSpace(req.Intent.Title)
	if title == "" {
		title = "Appointment"
	}
	ev, err := deps.Provider.Create(ctx, w, title, "Booked via chat assistant")
	if err != nil {
		deps.Log.Error("event creation failed", zap.Error(err))
		return respond.CalendarUnavailable(), nil
	}
	return respond.Confirmation(ev), nil
}

// resolveWindow prefers the extractor's normalized date/time text and
// falls back to parsing the raw message when that text was empty or
// unparseable. The bool reports which source won.
func resolveWindow(deps handler.Deps, req handler.Request) (schedule.Window, bool, error) {
	if when := req.Intent.WhenText(); when != "" {
		w, err := deps.Parser.Parse(when, req.Now)
		if err == nil {
			return w, true, nil
		}
	}
	w, err := deps.Parser.Parse(req.Message, req.Now)
	return w, false, err
}
