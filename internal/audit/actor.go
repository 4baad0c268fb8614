package audit

import "context"

// Actor identifies the admin performing an action.
type Actor struct {
	ID    string
	Email string
}

type actorKey struct{}

// WithActor stores the acting admin on the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the acting admin, or the zero Actor for system work.
func ActorFromContext(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}
