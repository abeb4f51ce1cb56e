package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bookbot/internal/calendar"
	"bookbot/internal/intent"
	"bookbot/internal/respond"
	"bookbot/internal/schedule"
	"bookbot/internal/timeparse"
)

// Request is everything a handler may need about one user turn.
type Request struct {
	Message string        // raw user text
	Intent  intent.Result // extractor output for this turn
	Now     time.Time
}

// Deps bundles the shared services handlers run against. A single Deps
// value is built at startup and passed through on every turn.
type Deps struct {
	Rules    schedule.Rules
	Parser   *timeparse.Parser
	Engine   *schedule.Engine
	Provider calendar.Provider
	Log      *zap.Logger
}

// Handler turns one classified user request into a reply. Handlers
// register themselves in init and are looked up per intent.
type Handler interface {
	ID() string
	Intents() []string
	Handle(ctx context.Context, deps Deps, req Request) (respond.Reply, error)
}
