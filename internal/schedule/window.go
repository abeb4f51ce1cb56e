package schedule

import (
	"fmt"
	"time"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// At builds a window of the given duration starting at start.
func At(start time.Time, d time.Duration) Window {
	return Window{Start: start, End: start.Add(d)}
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Valid reports whether Start is strictly before End.
func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

// Overlaps uses the half-open interval rule: windows that merely abut
// (w.End == o.Start) do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// In returns the window with both ends converted to loc.
func (w Window) In(loc *time.Location) Window {
	return Window{Start: w.Start.In(loc), End: w.End.In(loc)}
}

func (w Window) String() string {
	return fmt.Sprintf("%s - %s",
		w.Start.Format("Mon Jan 2 15:04"),
		w.End.Format("15:04"))
}
