package handler

import (
	"context"
	"testing"

	"bookbot/internal/respond"
)

type stub struct {
	id      string
	intents []string
}

func (s stub) ID() string        { return s.id }
func (s stub) Intents() []string { return s.intents }
func (s stub) Handle(context.Context, Deps, Request) (respond.Reply, error) {
	return respond.Reply{}, nil
}

func TestForMatchesByIntent(t *testing.T) {
	registry = nil
	Register(stub{id: "a", intents: []string{"book_appointment"}})
	Register(stub{id: "b", intents: []string{"check_availability", "general_query"}})

	h, ok := For("general_query")
	if !ok || h.ID() != "b" {
		t.Fatalf("For(general_query) = %v, %v", h, ok)
	}
	if _, ok := For("unknown_intent"); ok {
		t.Fatal("unknown intent should not match")
	}
}

func TestForSkipsDisabledHandlers(t *testing.T) {
	registry = nil
	Register(stub{id: "a", intents: []string{"book_appointment"}})
	Register(stub{id: "backup", intents: []string{"book_appointment"}})

	t.Setenv("BOOKBOT_DISABLED_HANDLERS", "a")
	h, ok := For("book_appointment")
	if !ok || h.ID() != "backup" {
		t.Fatalf("expected disabled handler to be skipped, got %v, %v", h, ok)
	}
}
