package schedule

import (
	"fmt"
	"time"
)

// Clock is a time of day expressed as minutes since midnight.
type Clock int

// ParseClock parses "15:04" style strings.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

// On anchors the clock on the calendar date of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ClockOf returns the time-of-day of t as a Clock.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// Rules is the immutable booking configuration. Load it once and pass it
// by value; the engine never mutates it.
type Rules struct {
	Location        *time.Location
	Open            Clock
	Close           Clock
	Weekdays        map[time.Weekday]bool
	SlotDuration    time.Duration
	MaxAlternatives int
	HorizonDays     int
}

// DefaultRules mirrors the standard office setup: 10:00-18:00, Monday to
// Friday, hour slots, up to 3 alternatives within a 14 day search horizon.
func DefaultRules(loc *time.Location) Rules {
	if loc == nil {
		loc = time.UTC
	}
	return Rules{
		Location: loc,
		Open:     Clock(10 * 60),
		Close:    Clock(18 * 60),
		Weekdays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		SlotDuration:    time.Hour,
		MaxAlternatives: 3,
		HorizonDays:     14,
	}
}

// Workday reports whether bookings are allowed on the given weekday.
func (r Rules) Workday(d time.Weekday) bool {
	return r.Weekdays[d]
}

// WithinHours reports whether the whole window sits inside business hours.
func (r Rules) WithinHours(w Window) bool {
	w = w.In(r.Location)
	day := w.Start
	return !w.Start.Before(r.Open.On(day)) && !w.End.After(r.Close.On(day))
}

// DayWindow returns the business-hours window on the calendar date of day.
func (r Rules) DayWindow(day time.Time) Window {
	day = day.In(r.Location)
	return Window{Start: r.Open.On(day), End: r.Close.On(day)}
}

// LatestStart is the latest clock at which a booking of duration d still
// ends by closing time.
func (r Rules) LatestStart(d time.Duration) Clock {
	return r.Close - Clock(d/time.Minute)
}

// ClampStart pulls a desired start clock into [Open, LatestStart(d)].
func (r Rules) ClampStart(c Clock, d time.Duration) Clock {
	if c < r.Open {
		c = r.Open
	}
	if latest := r.LatestStart(d); c > latest {
		c = latest
	}
	return c
}

// HoursDisplay renders the business hours for user-facing messages.
func (r Rules) HoursDisplay() string {
	return fmt.Sprintf("%s to %s", clockAMPM(r.Open), clockAMPM(r.Close))
}

func clockAMPM(c Clock) string {
	t := time.Date(2000, 1, 1, c.Hour(), c.Minute(), 0, 0, time.UTC)
	return t.Format("3:04 PM")
}
