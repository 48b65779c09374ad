package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout/internal/metrics"
)

// RouterConfig controls the middleware stack.
type RouterConfig struct {
	APIKeys []string
	// RateLimitPerMin limits requests per client IP; 0 disables the limiter.
	RateLimitPerMin int
	CORSOrigins     []string
	Logger          *zap.Logger
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(log))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"Location", "X-Request-ID"},
			MaxAge:         300,
		}))
	}
	if cfg.RateLimitPerMin > 0 {
		r.Use(httprate.Limit(cfg.RateLimitPerMin, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
			}),
		))
	}
	r.Use(BearerAuthMiddleware(cfg.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	s.Mount(r)
	return r
}
