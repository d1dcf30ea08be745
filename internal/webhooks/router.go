package webhooks

import (
	"context"
	"errors"
	"sort"

	"github.com/google/go-github/v57/github"
)

// ErrNoHandler is returned by Dispatch for event types nobody registered.
var ErrNoHandler = errors.New("no handler registered for event")

// HandlerFunc processes one event. gh is the shared outbound GitHub client.
type HandlerFunc func(ctx context.Context, event Event, gh *github.Client) error

// Router maps event types to handlers. It is built once and never mutated.
type Router struct {
	gh       *github.Client
	handlers map[string]HandlerFunc
}

// NewRouter copies handlers into a new Router.
func NewRouter(gh *github.Client, handlers map[string]HandlerFunc) *Router {
	table := make(map[string]HandlerFunc, len(handlers))
	for eventType, h := range handlers {
		if h != nil {
			table[eventType] = h
		}
	}

	return &Router{gh: gh, handlers: table}
}

// Dispatch runs the handler registered for event.Type.
func (r *Router) Dispatch(ctx context.Context, event Event) error {
	h, ok := r.handlers[event.Type]
	if !ok {
		return ErrNoHandler
	}
	return h(ctx, event, r.gh)
}

// Events lists the registered event types in sorted order.
func (r *Router) Events() []string {
	out := make([]string, 0, len(r.handlers))
	for eventType := range r.handlers {
		out = append(out, eventType)
	}
	sort.Strings(out)
	return out
}
