// Package timeparse resolves natural-language date/time phrases into
// concrete booking windows. It handles what the intent extractor emits
// (YYYY-MM-DD, HH:MM) plus the relative phrases users type when the
// model is bypassed: "tomorrow at 2pm", "next monday morning".
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bookbot/internal/schedule"
)

// ParseError marks text with no resolvable date or time. Callers treat it
// as "ask the user to clarify", not as a hard failure.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no date or time found in %q", e.Text)
}

// Parser converts phrases into windows in a fixed location. The word
// defaults are deliberate fixed choices: "morning" means opening time,
// "afternoon" 2 PM, "evening" 5 PM, and a date with no time books 2 PM,
// matching the assistant's historical behavior.
type Parser struct {
	Location        *time.Location
	DefaultDuration time.Duration
	DefaultHour     int
	MorningHour     int
	AfternoonHour   int
	EveningHour     int
}

func New(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{
		Location:        loc,
		DefaultDuration: time.Hour,
		DefaultHour:     14,
		MorningHour:     10,
		AfternoonHour:   14,
		EveningHour:     17,
	}
}

var (
	reISODate   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reMonthDay  = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	reDayMonth  = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b`)
	reWeekday   = regexp.MustCompile(`\b(?:(next|this)\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	reNoon      = regexp.MustCompile(`\bnoon\b`)
	reMidnight  = regexp.MustCompile(`\bmidnight\b`)
	reClock     = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\s*(am|pm)?\b`)
	reHourAmPm  = regexp.MustCompile(`\b(1[0-2]|0?[1-9])\s*(am|pm)\b`)
	reAtHour    = regexp.MustCompile(`\bat\s+([01]?\d|2[0-3])\b`)
	reDuration  = regexp.MustCompile(`\b(?:for\s+)?(\d+)\s*(minutes?|mins?|hours?|hrs?)\b`)
	monthByAbbr = map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "may": time.May, "jun": time.June,
		"jul": time.July, "aug": time.August, "sep": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
	}
	weekdayByName = map[string]time.Weekday{
		"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
		"thursday": time.Thursday, "friday": time.Friday,
		"saturday": time.Saturday, "sunday": time.Sunday,
	}
)

// Parse resolves text against now and returns a booking window. The
// window duration is the stated one, or DefaultDuration. Text with a time
// but no date books today when that slot is still ahead, otherwise
// tomorrow. Text with neither a date nor a time fails with *ParseError.
func (p *Parser) Parse(text string, now time.Time) (schedule.Window, error) {
	now = now.In(p.Location)
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return schedule.Window{}, &ParseError{Text: text}
	}

	date, haveDate := p.findDate(lower, now)
	hour, minute, haveTime := p.findTime(lower)
	if !haveDate && !haveTime {
		return schedule.Window{}, &ParseError{Text: text}
	}

	dur := p.findDuration(lower)

	if !haveTime {
		hour, minute = p.DefaultHour, 0
	}
	if !haveDate {
		date = now
		start := timeOn(date, hour, minute, p.Location)
		if !start.After(now) {
			date = now.AddDate(0, 0, 1)
		}
	}

	return schedule.At(timeOn(date, hour, minute, p.Location), dur), nil
}

func (p *Parser) findDate(lower string, now time.Time) (time.Time, bool) {
	if m := reISODate.FindStringSubmatch(lower); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, p.Location), true
		}
	}

	// "day after tomorrow" must win over plain "tomorrow".
	switch {
	case strings.Contains(lower, "day after tomorrow"), strings.Contains(lower, "overmorrow"):
		return now.AddDate(0, 0, 2), true
	case strings.Contains(lower, "tomorrow"):
		return now.AddDate(0, 0, 1), true
	case strings.Contains(lower, "today"), strings.Contains(lower, "tonight"):
		return now, true
	}

	if m := reWeekday.FindStringSubmatch(lower); m != nil {
		return nextWeekday(now, weekdayByName[m[2]]), true
	}

	if m := reMonthDay.FindStringSubmatch(lower); m != nil {
		if d, err := strconv.Atoi(m[2]); err == nil && d >= 1 && d <= 31 {
			return p.calendarDate(monthByAbbr[m[1]], d, now), true
		}
	}
	if m := reDayMonth.FindStringSubmatch(lower); m != nil {
		if d, err := strconv.Atoi(m[1]); err == nil && d >= 1 && d <= 31 {
			return p.calendarDate(monthByAbbr[m[2]], d, now), true
		}
	}

	return time.Time{}, false
}

func (p *Parser) findTime(lower string) (hour, minute int, ok bool) {
	// Word boundaries matter: "afternoon" must not read as "noon".
	switch {
	case reNoon.MatchString(lower):
		return 12, 0, true
	case reMidnight.MatchString(lower):
		return 0, 0, true
	}

	if m := reClock.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		return meridiem(h, m[3]), mi, true
	}
	if m := reHourAmPm.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		return meridiem(h, m[2]), 0, true
	}
	if m := reAtHour.FindStringSubmatch(lower); m != nil {
		// Bare hour after "at" is read as 24-hour, like "at 14".
		h, _ := strconv.Atoi(m[1])
		return h, 0, true
	}

	switch {
	case strings.Contains(lower, "morning"):
		return p.MorningHour, 0, true
	case strings.Contains(lower, "afternoon"):
		return p.AfternoonHour, 0, true
	case strings.Contains(lower, "evening"), strings.Contains(lower, "tonight"):
		return p.EveningHour, 0, true
	}

	return 0, 0, false
}

func (p *Parser) findDuration(lower string) time.Duration {
	m := reDuration.FindStringSubmatch(lower)
	if m == nil {
		return p.DefaultDuration
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return p.DefaultDuration
	}
	if strings.HasPrefix(m[2], "h") {
		return time.Duration(n) * time.Hour
	}
	return time.Duration(n) * time.Minute
}

// calendarDate resolves "Sep 5" style dates to the current year, rolling
// into next year once the date has passed.
func (p *Parser) calendarDate(month time.Month, day int, now time.Time) time.Time {
	d := time.Date(now.Year(), month, day, 0, 0, 0, 0, p.Location)
	if d.Before(startOfDay(now)) {
		d = d.AddDate(1, 0, 0)
	}
	return d
}

// nextWeekday returns the next occurrence of target strictly after today.
// "this friday" and "next friday" both resolve to the upcoming Friday.
func nextWeekday(now time.Time, target time.Weekday) time.Time {
	ahead := int(target) - int(now.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	return now.AddDate(0, 0, ahead)
}

func meridiem(hour int, suffix string) int {
	switch suffix {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

func timeOn(day time.Time, hour, minute int, loc *time.Location) time.Time {
	day = day.In(loc)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
