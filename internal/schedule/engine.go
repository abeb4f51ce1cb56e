package schedule

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// EventSource supplies the busy windows already on the calendar that
// overlap a query window. Implementations wrap the external provider;
// errors must be returned as-is so callers never mistake an unreachable
// calendar for a free one.
type EventSource interface {
	Busy(ctx context.Context, w Window) ([]Window, error)
}

// Engine validates candidate booking windows against the business rules
// and the live calendar. It holds no mutable state; every Evaluate call
// is independent.
type Engine struct {
	rules Rules
	src   EventSource
	log   *zap.Logger
}

func NewEngine(rules Rules, src EventSource, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{rules: rules, src: src, log: log}
}

func (e *Engine) Rules() Rules { return e.rules }

// Evaluate checks the window in order: working day, business hours,
// calendar conflicts. The first failure wins and carries alternative
// proposals. A provider failure aborts the evaluation with an error and
// never yields an accepted verdict.
func (e *Engine) Evaluate(ctx context.Context, w Window, now time.Time) (Verdict, error) {
	w = w.In(e.rules.Location)
	now = now.In(e.rules.Location)
	if !w.Valid() {
		return Verdict{}, fmt.Errorf("invalid window: start %s not before end %s", w.Start, w.End)
	}

	if !e.rules.Workday(w.Start.Weekday()) {
		v := reject(ReasonNonWorkingDay, e.workdayAlternatives(w, now))
		e.logVerdict(w, v)
		return v, nil
	}

	if !e.rules.WithinHours(w) {
		v := reject(ReasonOutsideHours, e.hoursAlternatives(w, now))
		e.logVerdict(w, v)
		return v, nil
	}

	busy, err := e.src.Busy(ctx, w)
	if err != nil {
		return Verdict{}, fmt.Errorf("checking conflicts: %w", err)
	}
	for _, b := range busy {
		if !w.Overlaps(b) {
			continue
		}
		alts, err := e.nextFreeSlots(ctx, w, now)
		if err != nil {
			return Verdict{}, fmt.Errorf("searching alternatives: %w", err)
		}
		var v Verdict
		if len(alts) == 0 {
			v = reject(ReasonNoAvailability, nil)
		} else {
			v = reject(ReasonConflict, alts)
		}
		e.logVerdict(w, v)
		return v, nil
	}

	v := accept()
	e.logVerdict(w, v)
	return v, nil
}

// workdayAlternatives proposes the same time-of-day (clamped into business
// hours) on the next allowed weekdays, strictly after now.
func (e *Engine) workdayAlternatives(w Window, now time.Time) []Window {
	return e.clampedAlternatives(w, now, 1)
}

// hoursAlternatives proposes the nearest legal start on the same day, then
// the same clamped time on following working days.
func (e *Engine) hoursAlternatives(w Window, now time.Time) []Window {
	return e.clampedAlternatives(w, now, 0)
}

func (e *Engine) clampedAlternatives(w Window, now time.Time, fromDay int) []Window {
	dur := w.Duration()
	var alts []Window
	day := startOfDay(w.Start)
	for d := fromDay; d <= e.rules.HorizonDays && len(alts) < e.rules.MaxAlternatives; d++ {
		date := day.AddDate(0, 0, d)
		if !e.rules.Workday(date.Weekday()) {
			continue
		}
		start, ok := e.clampedStart(date, ClockOf(w.Start), dur)
		if !ok || !start.After(now) {
			continue
		}
		alts = append(alts, At(start, dur))
	}
	return alts
}

// nextFreeSlots scans forward for conflict-free slots aligned to the slot
// grid (anchored at opening time), starting no earlier than the requested
// window, within business hours on working days. The scan is bounded by
// HorizonDays so it always terminates.
func (e *Engine) nextFreeSlots(ctx context.Context, req Window, now time.Time) ([]Window, error) {
	dur := req.Duration()
	var alts []Window
	day := startOfDay(req.Start)
	for d := 0; d <= e.rules.HorizonDays && len(alts) < e.rules.MaxAlternatives; d++ {
		date := day.AddDate(0, 0, d)
		if !e.rules.Workday(date.Weekday()) {
			continue
		}
		dayWin := e.rules.DayWindow(date)
		busy, err := e.src.Busy(ctx, dayWin)
		if err != nil {
			return nil, err
		}
		for start := dayWin.Start; !start.Add(dur).After(dayWin.End); start = start.Add(e.rules.SlotDuration) {
			if len(alts) >= e.rules.MaxAlternatives {
				break
			}
			if d == 0 && start.Before(req.Start) {
				continue
			}
			if !start.After(now) {
				continue
			}
			cand := At(start, dur)
			if overlapsAny(cand, busy) {
				continue
			}
			alts = append(alts, cand)
		}
	}
	return alts, nil
}

func (e *Engine) clampedStart(date time.Time, desired Clock, dur time.Duration) (time.Time, bool) {
	if e.rules.LatestStart(dur) < e.rules.Open {
		return time.Time{}, false // booking longer than the working day
	}
	return e.rules.ClampStart(desired, dur).On(date), true
}

func (e *Engine) logVerdict(w Window, v Verdict) {
	if v.Accepted {
		e.log.Debug("slot accepted", zap.Time("start", w.Start), zap.Time("end", w.End))
		return
	}
	e.log.Debug("slot rejected",
		zap.Time("start", w.Start),
		zap.String("reason", string(v.Reason)),
		zap.Int("alternatives", len(v.Alternatives)))
}

func overlapsAny(w Window, busy []Window) bool {
	for _, b := range busy {
		if w.Overlaps(b) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
