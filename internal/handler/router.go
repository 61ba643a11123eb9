package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gencraft/chat-api/internal/middleware"
	"github.com/gencraft/chat-api/pkg/logger"
)

// RouterConfig wires handlers and middleware into a router.
type RouterConfig struct {
	Chats    *ChatHandler
	Health   *HealthHandler
	Static   *StaticHandler
	Verifier middleware.Verifier
	Logger   *logger.Logger

	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter builds the HTTP routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", cfg.Health.Health)
	r.Get("/ready", cfg.Health.Ready)

	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Verifier, cfg.Logger))
		if cfg.RateLimitRequests > 0 {
			r.Use(middleware.UserRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}

		r.Post("/chats", cfg.Chats.Create)
		r.Route("/chats/{chatID}", func(r chi.Router) {
			r.Get("/", cfg.Chats.Get)
			r.Put("/", cfg.Chats.Append)
			r.Delete("/", cfg.Chats.Delete)
		})
		r.Get("/userchats", cfg.Chats.List)
	})

	if cfg.Static != nil {
		r.Get("/*", cfg.Static.Serve)
	}

	return r
}
