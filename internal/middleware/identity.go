package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// Headers set by the authenticating gateway in front of the API.
const (
	HeaderUserID          = "X-User-ID"
	HeaderUserPermissions = "X-User-Permissions"
)

type actorKey struct{}

// Identity reads the caller's identity from the gateway headers and stores a
// domain.Actor in the request context. Requests without X-User-ID pass
// through anonymously; a malformed one is rejected with 401.
//
// The actor's Address is r.RemoteAddr, so wire chi's RealIP first.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"malformed user id"}}`))
			return
		}
		actor := domain.Actor{
			UserID:      id,
			Address:     r.RemoteAddr,
			Permissions: domain.ParsePermissions(r.Header.Get(HeaderUserPermissions)),
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored by Identity, if any.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
