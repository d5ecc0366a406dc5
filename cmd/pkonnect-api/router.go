package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect-api/handlers"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect-api/middleware"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
)

// RouterConfig holds HTTP routing settings.
type RouterConfig struct {
	ServiceName    string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// NewRouter creates the API router with all routes configured. ready may be
// nil.
func NewRouter(logger *observability.Logger, svc handlers.ChatService, ready handlers.ReadinessChecker, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	healthHandler := handlers.NewHealthHandler(logger, ready, cfg.ServiceName)
	chatHandler := handlers.NewChatHandler(logger, svc)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.Get("/departments", chatHandler.Departments)
	})

	return r
}
