package routes

import (
	"net/http"

	"github.com/zatekoja/zomavan/internal/api/handlers"
	"github.com/zatekoja/zomavan/internal/api/middleware"
	"github.com/zatekoja/zomavan/internal/infrastructure/observability"
)

// Options configures the HTTP edge of the router.
// CacheMaxAge is advertised to clients on successful lookups, in seconds.
type Options struct {
	AllowedOrigins []string
	CacheMaxAge    int
}

// Router holds all route handlers
type Router struct {
	mux               *http.ServeMux
	restaurantHandler *handlers.RestaurantHandler
	metrics           *observability.Metrics
	opts              Options
}

// NewRouter creates a new router
func NewRouter(restaurantHandler *handlers.RestaurantHandler, metrics *observability.Metrics, opts Options) *Router {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Router{
		mux:               http.NewServeMux(),
		restaurantHandler: restaurantHandler,
		metrics:           metrics,
		opts:              opts,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.mux.HandleFunc("GET /api/subzones/{id}/restaurants", r.restaurantHandler.ListSubzoneRestaurants)
	r.mux.HandleFunc("GET /api/restaurants", r.restaurantHandler.ListRestaurants)

	// Last applied is outermost.
	var handler http.Handler = r.mux
	handler = middleware.Compression(handler)
	handler = middleware.CacheControl(r.opts.CacheMaxAge)(handler)
	handler = middleware.CORSMiddleware(r.opts.AllowedOrigins)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	return handler
}
