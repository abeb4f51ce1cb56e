// Package calendar wraps the external calendar backend. The rest of the
// assistant only sees the Provider interface; authentication and wire
// details stay in here.
package calendar

import (
	"context"
	"errors"
	"fmt"

	"bookbot/internal/schedule"
)

// Event is a booked appointment as the provider reports it.
type Event struct {
	ID       string
	Title    string
	Window   schedule.Window
	HTMLLink string
}

// Provider is the narrow read/write surface of the calendar backend.
type Provider interface {
	// Events lists events overlapping the window, ordered by start time.
	Events(ctx context.Context, w schedule.Window) ([]Event, error)
	// Create books a new event and returns it with its provider ID.
	Create(ctx context.Context, w schedule.Window, title, description string) (Event, error)
}

// ProviderError marks a backend failure (network, auth, quota). It must
// never be read as "the slot is free": callers report that the calendar
// could not be checked instead of booking blind.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("calendar %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err wraps a calendar backend failure.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// BusySource adapts a Provider to the rule engine's event source.
type BusySource struct {
	Provider Provider
}

func (s BusySource) Busy(ctx context.Context, w schedule.Window) ([]schedule.Window, error) {
	events, err := s.Provider.Events(ctx, w)
	if err != nil {
		return nil, err
	}
	busy := make([]schedule.Window, 0, len(events))
	for _, ev := range events {
		busy = append(busy, ev.Window)
	}
	return busy, nil
}
