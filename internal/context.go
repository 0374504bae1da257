package internal

import (
	"context"
	"time"

	"github.com/frahmantamala/recruitment/internal/core/user"
)

type ctxKey string

const ContextActorKey ctxKey = "actor"

// ActorFromContext returns the authenticated caller placed by the auth middleware.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	if ctx == nil {
		return user.Actor{}, false
	}
	actor, ok := ctx.Value(ContextActorKey).(user.Actor)
	if !ok || !actor.IsAuthenticated() {
		return user.Actor{}, false
	}
	return actor, true
}

func ContextWithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
