// Package general answers everything that is not a booking action with
// a short description of what the assistant can do.
package general

import (
	"context"

	"bookbot/internal/handler"
	"bookbot/internal/intent"
	"bookbot/internal/respond"
)

func init() {
	handler.Register(General{})
}

type General struct{}

func (General) ID() string        { return "general" }
func (General) Intents() []string { return []string{intent.IntentGeneral} }

func (General) Handle(_ context.Context, deps handler.Deps, _ handler.Request) (respond.Reply, error) {
	return respond.Help(deps.Rules), nil
}
