package calendar

import (
	"context"
	"time"

	"bookbot/internal/schedule"
)

// FreeSlots returns the open slot grid for one calendar day: every slot
// inside business hours that is strictly ahead of now and clear of
// existing events. Non-working days have no slots.
func FreeSlots(ctx context.Context, p Provider, rules schedule.Rules, day, now time.Time) ([]schedule.Window, error) {
	day = day.In(rules.Location)
	if !rules.Workday(day.Weekday()) {
		return nil, nil
	}

	dayWin := rules.DayWindow(day)
	busy, err := BusySource{Provider: p}.Busy(ctx, dayWin)
	if err != nil {
		return nil, err
	}

	var free []schedule.Window
	for start := dayWin.Start; !start.Add(rules.SlotDuration).After(dayWin.End); start = start.Add(rules.SlotDuration) {
		if !start.After(now) {
			continue
		}
		cand := schedule.At(start, rules.SlotDuration)
		if overlapsAny(cand, busy) {
			continue
		}
		free = append(free, cand)
	}
	return free, nil
}

func overlapsAny(w schedule.Window, busy []schedule.Window) bool {
	for _, b := range busy {
		if w.Overlaps(b) {
			return true
		}
	}
	return false
}
