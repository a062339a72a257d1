package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/eventboard/server/internal/api/problem"
	"github.com/eventboard/server/internal/auth"
)

// SessionCookieName is the cookie carrying the session token for browser
// clients. API clients may send the same token as a bearer header instead.
const SessionCookieName = "token"

type contextKey string

const actorKey contextKey = "actor"

// RequireAuth rejects requests without a valid session credential and puts
// the resulting Actor into the request context.
func RequireAuth(manager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://eventboard.dev/problems/unauthorized", "Unauthorized", problem.ErrUnauthorized, env)
				return
			}

			token := extractToken(r)
			if token == "" {
				problem.Write(w, r, http.StatusUnauthorized, "https://eventboard.dev/problems/unauthorized", "Missing credentials", problem.ErrUnauthorized, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://eventboard.dev/problems/unauthorized", "Invalid token", err, env)
				return
			}

			actor, err := auth.ActorFromClaims(claims)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://eventboard.dev/problems/unauthorized", "Invalid token", err, env)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithActor(r.Context(), actor)))
		})
	}
}

// OptionalAuth resolves a session credential when one is presented but lets
// anonymous requests through with no actor in context. A presented but
// invalid credential is still rejected.
func OptionalAuth(manager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" || manager == nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://eventboard.dev/problems/unauthorized", "Invalid token", err, env)
				return
			}
			actor, err := auth.ActorFromClaims(claims)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://eventboard.dev/problems/unauthorized", "Invalid token", err, env)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithActor(r.Context(), actor)))
		})
	}
}

func extractToken(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		if token, err := auth.TokenFromHeader(header); err == nil {
			return token
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func contextWithActor(ctx context.Context, actor *auth.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// Actor returns the authenticated actor for the request, or nil for an
// anonymous caller.
func Actor(r *http.Request) *auth.Actor {
	if r == nil {
		return nil
	}
	if actor, ok := r.Context().Value(actorKey).(*auth.Actor); ok {
		return actor
	}
	return nil
}
