package handler

import (
	"os"
	"strings"
)

// registry holds globally-registered intent handlers.
var registry []Handler

// Register should be called by handler packages (typically in init) to
// register themselves with the dispatcher.
func Register(h Handler) {
	registry = append(registry, h)
}

// Registered returns a shallow copy of all registered handlers.
func Registered() []Handler {
	out := make([]Handler, len(registry))
	copy(out, registry)
	return out
}

// For returns the handler claiming the given intent, skipping any
// listed in BOOKBOT_DISABLED_HANDLERS. The second return is false when
// no handler claims the intent.
func For(intentName string) (Handler, bool) {
	disabledSet := map[string]struct{}{}
	if disabled := os.Getenv("BOOKBOT_DISABLED_HANDLERS"); disabled != "" {
		for _, id := range strings.Split(disabled, ",") {
			disabledSet[strings.TrimSpace(id)] = struct{}{}
		}
	}

	for _, h := range registry {
		if _, off := disabledSet[h.ID()]; off {
			continue
		}
		for _, in := range h.Intents() {
			if in == intentName {
				return h, true
			}
		}
	}
	return nil, false
}
