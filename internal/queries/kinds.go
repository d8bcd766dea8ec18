// Package queries contains the search orchestration core: the handler
// state machine, the upstream query multiplexer and the handler registry.
package queries

import (
	"github.com/Laisky/errors/v2"

	"pushbot/internal/pushshift"
)

// Kind identifies a query handler flavour. It is persisted inside repeat
// pointers, so values must stay stable across deployments.
type Kind string

const (
	// KindSearch searches without any nsfw restriction.
	KindSearch Kind = "search"
	// KindNsfw restricts the search to nsfw content.
	KindNsfw Kind = "nsfw"
	// KindSfw restricts the search to sfw content.
	KindSfw Kind = "sfw"
)

// ErrUnknownKind marks a persisted handler kind that cannot be resolved,
// usually a deployment or versioning inconsistency.
var ErrUnknownKind = errors.New("unknown query handler kind")

// Configure applies the kind's restrictions to a base query.
func (k Kind) Configure(q *pushshift.Query) *pushshift.Query {
	switch k {
	case KindNsfw:
		return q.Nsfw(true)
	case KindSfw:
		return q.Nsfw(false)
	default:
		return q
	}
}

// Registry maps persisted kind tags to constructed handlers, replacing
// resolution of handlers by runtime type name with a static dispatch table.
type Registry struct {
	handlers map[Kind]*Handler
}

// NewRegistry is the constructor for Registry.
func NewRegistry(handlers ...*Handler) *Registry {
	registry := &Registry{handlers: make(map[Kind]*Handler, len(handlers))}
	for _, handler := range handlers {
		registry.handlers[handler.Kind()] = handler
	}

	return registry
}

// Get resolves a persisted kind tag into its handler.
func (r *Registry) Get(name string) (*Handler, error) {
	handler, ok := r.handlers[Kind(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "`%s`", name)
	}

	return handler, nil
}
