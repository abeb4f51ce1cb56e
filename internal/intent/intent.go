// Package intent turns free-form chat text into a structured booking
// request. The LLM lives behind the Extractor interface so its failure
// modes never reach the deterministic rule engine: any model or parsing
// problem degrades to the keyword extractor, and unknown intents become
// general queries.
package intent

import "context"

const (
	IntentBook         = "book_appointment"
	IntentAvailability = "check_availability"
	IntentCancel       = "cancel_appointment"
	IntentGeneral      = "general_query"
)

// Result is what an extractor distills from one user message. Date and
// Time are text for the date/time parser ("2026-09-02", "14:00",
// "tomorrow"); either may be empty, in which case the caller parses the
// raw message instead.
type Result struct {
	Intent          string `json:"intent"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
	Title           string `json:"title"`
	Confidence      string `json:"confidence"`
}

// WhenText joins the extracted date and time for parsing.
func (r Result) WhenText() string {
	switch {
	case r.Date != "" && r.Time != "":
		return r.Date + " at " + r.Time
	case r.Date != "":
		return r.Date
	default:
		return r.Time
	}
}

type Extractor interface {
	Extract(ctx context.Context, message string) (Result, error)
}

func knownIntent(s string) bool {
	switch s {
	case IntentBook, IntentAvailability, IntentCancel, IntentGeneral:
		return true
	}
	return false
}
