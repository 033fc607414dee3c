package datatable

import "context"

// Actor identifies who triggered a row mutation.
type Actor struct {
	ActorID  string
	UserID   string
	TenantID string
}

type actorKey struct{}

// WithActor attaches actor to ctx so row mutations can be attributed.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromViewer attributes events to the viewer's user.
func ActorFromViewer(viewer ViewerContext) Actor {
	return Actor{ActorID: viewer.UserID, UserID: viewer.UserID}
}

func actorFrom(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}
