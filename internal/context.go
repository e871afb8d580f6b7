package internal

import (
	"context"
	"time"

	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

type ctxKey string

const ContextActorKey ctxKey = "actor"

// ActorFromContext returns the authenticated actor placed by the auth middleware.
func ActorFromContext(ctx context.Context) (*coreUser.Actor, bool) {
	if ctx == nil {
		return nil, false
	}
	actor, ok := ctx.Value(ContextActorKey).(*coreUser.Actor)
	return actor, ok && actor != nil
}

func ContextWithActor(ctx context.Context, actor *coreUser.Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
