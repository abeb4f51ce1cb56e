// Package availability answers "what's free on ..." questions with the
// open slots of a single day.
package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bookbot/internal/calendar"
	"bookbot/internal/handler"
	"bookbot/internal/intent"
	"bookbot/internal/respond"
)

func init() {
	handler.Register(Availability{})
}

type Availability struct{}

func (Availability) ID() string        { return "availability" }
func (Availability) Intents() []string { return []string{intent.IntentAvailability} }

func (Availability) Handle(ctx context.Context, deps handler.Deps, req handler.Request) (respond.Reply, error) {
	day := resolveDay(deps, req)

	slots, err := calendar.FreeSlots(ctx, deps.Provider, deps.Rules, day, req.Now)
	if err != nil {
		deps.Log.Error("availability check failed", zap.Error(err))
		return respond.CalendarUnavailable(), nil
	}
	return respond.Availability(day, slots, deps.Rules), nil
}

// resolveDay picks the day to inspect: the extractor's date, a date in
// the raw message, or the next working day when neither names one.
func resolveDay(deps handler.Deps, req handler.Request) time.Time {
	if when := req.Intent.WhenText(); when != "" {
		if w, err := deps.Parser.Parse(when, req.Now); err == nil {
			return w.Start
		}
	}
	if w, err := deps.Parser.Parse(req.Message, req.Now); err == nil {
		return w.Start
	}
	day := req.Now.In(deps.Rules.Location)
	for i := 0; i < 7; i++ {
		day = day.AddDate(0, 0, 1)
		if deps.Rules.Workday(day.Weekday()) {
			return day
		}
	}
	return day
}
