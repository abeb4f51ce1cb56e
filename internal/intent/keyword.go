package intent

import (
	"context"
	"strings"
)

// KeywordExtractor classifies intent from plain keywords. It is both
// the offline extractor and the safety net when the model misbehaves;
// date/time text is left empty so the caller parses the raw message.
type KeywordExtractor struct{}

var (
	bookWords   = []string{"book", "schedule", "appointment", "reserve", "set up a meeting", "make a meeting"}
	availWords  = []string{"available", "availability", "free", "open slot", "slots", "what's free", "any time"}
	cancelWords = []string{"cancel", "delete", "remove", "call off"}
)

func (KeywordExtractor) Extract(_ context.Context, message string) (Result, error) {
	lower := strings.ToLower(message)

	res := Result{Intent: IntentGeneral, Confidence: "low"}
	switch {
	case containsAny(lower, cancelWords):
		res.Intent = IntentCancel
	case containsAny(lower, availWords):
		res.Intent = IntentAvailability
	case containsAny(lower, bookWords):
		res.Intent = IntentBook
	}
	return res, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
