// Package cancel acknowledges cancellation requests. Cancelling through
// chat is not offered; users are pointed at the calendar itself.
package cancel

import (
	"context"

	"bookbot/internal/handler"
	"bookbot/internal/intent"
	"bookbot/internal/respond"
)

func init() {
	handler.Register(Cancel{})
}

type Cancel struct{}

func (Cancel) ID() string        { return "cancel" }
func (Cancel) Intents() []string { return []string{intent.IntentCancel} }

func (Cancel) Handle(_ context.Context, _ handler.Deps, _ handler.Request) (respond.Reply, error) {
	return respond.CancelUnsupported(), nil
}
