package routes

import (
	"net/http"

	"github.com/villagehub/directory-backend/internal/api/handlers"
	"github.com/villagehub/directory-backend/internal/api/middleware"
	"github.com/villagehub/directory-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler  *handlers.SearchHandler
	profileHandler *handlers.ProfileHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	profileHandler *handlers.ProfileHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		searchHandler:   searchHandler,
		profileHandler:  profileHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Directory search
	r.mux.HandleFunc("GET /api/profiles/search", r.searchHandler.SearchProfiles)
	r.mux.HandleFunc("GET /api/admin/profiles/search", r.searchHandler.AdminSearchProfiles)

	// Profile endpoints
	r.mux.HandleFunc("GET /api/profiles", r.profileHandler.ListProfiles)
	r.mux.HandleFunc("GET /api/profiles/slug/{slug}", r.profileHandler.GetProfileBySlug)
	r.mux.HandleFunc("GET /api/profiles/{id}", r.profileHandler.GetProfile)
	r.mux.HandleFunc("POST /api/profiles", r.profileHandler.CreateProfile)
	r.mux.HandleFunc("PUT /api/profiles/{id}", r.profileHandler.UpdateProfile)
	r.mux.HandleFunc("DELETE /api/profiles/{id}", r.profileHandler.DeleteProfile)

	// Apply middleware in reverse order (last middleware wraps first).
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
