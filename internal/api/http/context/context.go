package context

import (
	"context"

	"github.com/dtroode/streamhub-server/internal/model"
)

type actorKey struct{}

// Manager stores the authenticated actor in a request context.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetActorToContext returns a child context carrying actor.
func (m *Manager) SetActorToContext(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActorFromContext returns the actor set by SetActorToContext. A zero
// actor id counts as absent.
func (m *Manager) GetActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(model.Actor)
	if !ok || actor.ID.IsZero() {
		return model.Actor{}, false
	}
	return actor, true
}
