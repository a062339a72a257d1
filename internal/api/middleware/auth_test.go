package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventboard/server/internal/api/middleware"
	"github.com/eventboard/server/internal/auth"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *auth.JWTManager {
	t.Helper()
	return auth.NewJWTManager("test-secret-at-least-32-bytes-long", time.Hour, "eventboard")
}

func issueToken(t *testing.T, manager *auth.JWTManager) string {
	t.Helper()
	token, err := manager.Generate(7, "alice@example.com", "user")
	require.NoError(t, err)
	return token
}

func actorCapture(captured **auth.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = middleware.Actor(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthWithBearerToken(t *testing.T) {
	manager := newManager(t)
	var actor *auth.Actor
	handler := middleware.RequireAuth(manager, "test")(actorCapture(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, manager))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, actor)
	require.Equal(t, 7, actor.ID)
	require.Equal(t, "alice@example.com", actor.Email)
	require.Equal(t, auth.RoleUser, actor.Role)
}

func TestRequireAuthWithCookie(t *testing.T) {
	manager := newManager(t)
	var actor *auth.Actor
	handler := middleware.RequireAuth(manager, "test")(actorCapture(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: issueToken(t, manager)})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, actor)
	require.Equal(t, 7, actor.ID)
}

func TestRequireAuthRejections(t *testing.T) {
	manager := newManager(t)

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"no credentials", func(r *http.Request) {}},
		{"garbage bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not.a.jwt")
		}},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "junk"})
		}},
		{"wrong scheme", func(r *http.Request) {
			r.Header.Set("Authorization", "Basic abc")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := middleware.RequireAuth(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			require.False(t, called)
		})
	}
}

func TestOptionalAuthAnonymous(t *testing.T) {
	manager := newManager(t)
	var actor *auth.Actor
	handler := middleware.OptionalAuth(manager, "test")(actorCapture(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, actor)
}

func TestOptionalAuthResolvesActor(t *testing.T) {
	manager := newManager(t)
	var actor *auth.Actor
	handler := middleware.OptionalAuth(manager, "test")(actorCapture(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, manager))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, actor)
	require.Equal(t, 7, actor.ID)
}

func TestOptionalAuthRejectsInvalidToken(t *testing.T) {
	manager := newManager(t)
	called := false
	handler := middleware.OptionalAuth(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)
}

func TestBearerHeaderWinsOverCookie(t *testing.T) {
	manager := newManager(t)
	headerToken, err := manager.Generate(1, "header@example.com", "user")
	require.NoError(t, err)
	cookieToken, err := manager.Generate(2, "cookie@example.com", "user")
	require.NoError(t, err)

	var actor *auth.Actor
	handler := middleware.RequireAuth(manager, "test")(actorCapture(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+headerToken)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: cookieToken})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, actor)
	require.Equal(t, 1, actor.ID)
}

func TestActorNilOutsideMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Nil(t, middleware.Actor(req))
	require.Nil(t, middleware.Actor(nil))
}
