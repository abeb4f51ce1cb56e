package schedule

// Reason classifies why a requested slot was rejected.
type Reason string

const (
	ReasonNonWorkingDay  Reason = "non_working_day"
	ReasonOutsideHours   Reason = "outside_hours"
	ReasonConflict       Reason = "conflict"
	ReasonNoAvailability Reason = "no_availability"
)

// Verdict is the engine's answer for one requested window. It is consumed
// once by the response composer and then discarded.
type Verdict struct {
	Accepted     bool
	Reason       Reason
	Alternatives []Window
}

func accept() Verdict {
	return Verdict{Accepted: true}
}

func reject(reason Reason, alts []Window) Verdict {
	return Verdict{Reason: reason, Alternatives: alts}
}
