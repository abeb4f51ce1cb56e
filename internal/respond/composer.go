// Package respond turns rule-engine verdicts into user-facing text plus
// a machine-usable summary. Pure functions only: no I/O, no clock reads.
package respond

import (
	"fmt"
	"strings"
	"time"

	"bookbot/internal/calendar"
	"bookbot/internal/schedule"
)

// Status classifies a reply for front ends that want more than text.
type Status string

const (
	StatusBooked      Status = "booked"
	StatusRejected    Status = "rejected"
	StatusClarify     Status = "needs_clarification"
	StatusUnavailable Status = "calendar_unavailable"
	StatusInfo        Status = "info"
)

// Summary is the structured half of a reply.
type Summary struct {
	Status       Status            `json:"status"`
	Reason       schedule.Reason   `json:"reason,omitempty"`
	Window       *schedule.Window  `json:"window,omitempty"`
	Alternatives []schedule.Window `json:"alternatives,omitempty"`
	EventID      string            `json:"event_id,omitempty"`
}

// Reply pairs the rendered text with its summary.
type Reply struct {
	Text    string  `json:"text"`
	Summary Summary `json:"summary"`
}

// Confirmation renders a successful booking.
func Confirmation(ev calendar.Event) Reply {
	var b strings.Builder
	fmt.Fprintf(&b, "Booked! %s is confirmed for %s.", ev.Title, longWindow(ev.Window))
	if ev.HTMLLink != "" {
		fmt.Fprintf(&b, "\nCalendar link: %s", ev.HTMLLink)
	}
	w := ev.Window
	return Reply{
		Text:    b.String(),
		Summary: Summary{Status: StatusBooked, Window: &w, EventID: ev.ID},
	}
}

// Rejection renders a rule-engine rejection with its alternatives.
func Rejection(req schedule.Window, v schedule.Verdict, rules schedule.Rules) Reply {
	var b strings.Builder
	switch v.Reason {
	case schedule.ReasonNonWorkingDay:
		fmt.Fprintf(&b, "%s is outside our working days. Appointments run %s only.",
			req.Start.Format("Monday, January 2"), workdaysDisplay(rules))
	case schedule.ReasonOutsideHours:
		fmt.Fprintf(&b, "%s is outside business hours (%s).",
			req.Start.Format("3:04 PM on Monday, January 2"), rules.HoursDisplay())
	case schedule.ReasonConflict:
		fmt.Fprintf(&b, "%s clashes with an existing appointment.", longWindow(req))
	case schedule.ReasonNoAvailability:
		fmt.Fprintf(&b, "I couldn't find a free slot near %s within the next %d days. Try a different week?",
			req.Start.Format("Monday, January 2"), rules.HorizonDays)
	default:
		fmt.Fprintf(&b, "That time doesn't work.")
	}
	if len(v.Alternatives) > 0 {
		b.WriteString("\nThe nearest free options are:")
		for _, alt := range v.Alternatives {
			fmt.Fprintf(&b, "\n  - %s", longWindow(alt))
		}
	}
	return Reply{
		Text: b.String(),
		Summary: Summary{
			Status:       StatusRejected,
			Reason:       v.Reason,
			Window:       &req,
			Alternatives: v.Alternatives,
		},
	}
}

// Clarification asks for a usable date/time.
func Clarification() Reply {
	return Reply{
		Text: "I'd be happy to book that. When would you like it? " +
			"Something like \"tomorrow at 2 PM\" or \"next Monday morning\" works.",
		Summary: Summary{Status: StatusClarify},
	}
}

// CalendarUnavailable reports a provider failure without guessing at
// availability.
func CalendarUnavailable() Reply {
	return Reply{
		Text: "I can't reach the calendar right now, so I can't confirm that slot. " +
			"Please try again in a moment.",
		Summary: Summary{Status: StatusUnavailable},
	}
}

// Availability lists the free slots of one day.
func Availability(day time.Time, slots []schedule.Window, rules schedule.Rules) Reply {
	if len(slots) == 0 {
		return Reply{
			Text: fmt.Sprintf("No open slots on %s. Our hours are %s, %s.",
				day.Format("Monday, January 2"), rules.HoursDisplay(), workdaysDisplay(rules)),
			Summary: Summary{Status: StatusInfo},
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Open slots on %s:", day.Format("Monday, January 2"))
	for _, s := range slots {
		fmt.Fprintf(&b, "\n  - %s", shortWindow(s))
	}
	return Reply{
		Text:    b.String(),
		Summary: Summary{Status: StatusInfo, Alternatives: slots},
	}
}

// CancelUnsupported mirrors the provider's ownership of cancellations.
func CancelUnsupported() Reply {
	return Reply{
		Text: "I can't cancel appointments yet. Please remove the event directly " +
			"in your calendar.",
		Summary: Summary{Status: StatusInfo},
	}
}

// Help is the fallback for anything that isn't a booking request.
func Help(rules schedule.Rules) Reply {
	return Reply{
		Text: fmt.Sprintf("I book appointments (%s, %s). "+
			"Try \"book tomorrow at 2 PM\" or \"what's free on Friday?\".",
			rules.HoursDisplay(), workdaysDisplay(rules)),
		Summary: Summary{Status: StatusInfo},
	}
}

func longWindow(w schedule.Window) string {
	return fmt.Sprintf("%s from %s to %s",
		w.Start.Format("Monday, January 2"),
		w.Start.Format("3:04 PM"),
		w.End.Format("3:04 PM"))
}

func shortWindow(w schedule.Window) string {
	return fmt.Sprintf("%s - %s", w.Start.Format("3:04 PM"), w.End.Format("3:04 PM"))
}

func workdaysDisplay(rules schedule.Rules) string {
	// Render a contiguous run compactly, e.g. "Monday to Friday".
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if rules.Workday(d) {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return "no days"
	}
	contiguous := true
	for i := 1; i < len(days); i++ {
		if days[i] != days[i-1]+1 {
			contiguous = false
			break
		}
	}
	if contiguous && len(days) > 1 {
		return fmt.Sprintf("%s to %s", days[0], days[len(days)-1])
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
