package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/eventboard/server/internal/api/handlers"
	"github.com/eventboard/server/internal/api/middleware"
	"github.com/eventboard/server/internal/auth"
	"github.com/eventboard/server/internal/config"
	"github.com/eventboard/server/internal/domain/categories"
	"github.com/eventboard/server/internal/domain/events"
	"github.com/eventboard/server/internal/domain/users"
	"github.com/eventboard/server/internal/metrics"
	"github.com/eventboard/server/internal/storage"
	"github.com/rs/zerolog"
)

// NewRouter wires the HTTP surface. Authentication happens in middleware;
// every permission decision stays inside the domain services.
func NewRouter(cfg config.Config, logger zerolog.Logger, store storage.Store, version, gitCommit, buildDate string) http.Handler {
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	usersService := users.NewService(store.Users(), logger)
	categoriesService := categories.NewService(store.Categories(), logger)
	eventsService := events.NewService(store.Events(), logger)

	authHandler := handlers.NewAuthHandler(usersService, jwtManager, cfg.Environment)
	categoriesHandler := handlers.NewCategoriesHandler(categoriesService, cfg.Environment)
	eventsHandler := handlers.NewEventsHandler(eventsService, cfg.Environment)

	requireAuth := middleware.RequireAuth(jwtManager, cfg.Environment)
	optionalAuth := middleware.OptionalAuth(jwtManager, cfg.Environment)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(store))
	mux.Handle("/version", VersionHandler(version, gitCommit, buildDate))
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/api/v1/register", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Register),
	}))
	mux.Handle("/api/v1/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Login),
	}))
	mux.Handle("/api/v1/logout", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Logout),
	}))
	mux.Handle("/api/v1/me", methodMux(map[string]http.Handler{
		http.MethodGet: requireAuth(http.HandlerFunc(authHandler.Me)),
	}))

	mux.Handle("/api/v1/categories", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(categoriesHandler.List),
		http.MethodPost: requireAuth(http.HandlerFunc(categoriesHandler.Create)),
	}))
	mux.Handle("/api/v1/categories/{id}", methodMux(map[string]http.Handler{
		http.MethodDelete: requireAuth(http.HandlerFunc(categoriesHandler.Delete)),
	}))

	mux.Handle("/api/v1/events", methodMux(map[string]http.Handler{
		http.MethodGet:  optionalAuth(http.HandlerFunc(eventsHandler.List)),
		http.MethodPost: requireAuth(http.HandlerFunc(eventsHandler.Create)),
	}))
	mux.Handle("/api/v1/my/events", methodMux(map[string]http.Handler{
		http.MethodGet: requireAuth(http.HandlerFunc(eventsHandler.Mine)),
	}))
	mux.Handle("/api/v1/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    optionalAuth(http.HandlerFunc(eventsHandler.Get)),
		http.MethodPut:    requireAuth(http.HandlerFunc(eventsHandler.Update)),
		http.MethodDelete: requireAuth(http.HandlerFunc(eventsHandler.Delete)),
	}))
	mux.Handle("/api/v1/events/{id}/approve", methodMux(map[string]http.Handler{
		http.MethodPost: requireAuth(http.HandlerFunc(eventsHandler.Approve)),
	}))
	mux.Handle("/api/v1/events/{id}/block", methodMux(map[string]http.Handler{
		http.MethodPost: requireAuth(http.HandlerFunc(eventsHandler.Block)),
	}))
	mux.Handle("/api/v1/events/{id}/rate", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(eventsHandler.Rate),
	}))

	var handler http.Handler = mux
	handler = middleware.RequestSize(middleware.DefaultMaxBodySize)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
