package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capitalize-ai/realty-chat/internal/middleware"
	"github.com/capitalize-ai/realty-chat/internal/service"
	"github.com/capitalize-ai/realty-chat/internal/store"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
)

// RouterConfig carries the services and settings the router wires together.
type RouterConfig struct {
	Chat          *service.ChatService
	Conversations *service.ConversationService
	Knowledge     KnowledgeSearcher
	Backends      map[string]store.Pinger
	Logger        *logger.Logger

	WhatsAppDefaultTenant string

	// DashboardAuth guards conversation history with JWTSecret.
	DashboardAuth bool
	JWTSecret     string

	// RateLimitRequests of zero disables rate limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter builds the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	healthHandler := NewHealthHandler(cfg.Backends)
	chatHandler := NewChatHandler(cfg.Chat, cfg.Conversations, cfg.Logger)
	whatsappHandler := NewWhatsAppHandler(cfg.Chat, cfg.Conversations, cfg.WhatsAppDefaultTenant, cfg.Logger)
	intentHandler := NewIntentHandler(cfg.Chat)
	knowledgeHandler := NewKnowledgeHandler(cfg.Knowledge, cfg.Logger)
	historyHandler := NewHistoryHandler(cfg.Conversations, cfg.Logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, service.ApologyReply))
	r.Use(middleware.CORS())

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Bare OPTIONS requests without CORS headers still get a 2xx.
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.RateLimitRequests > 0 {
				r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
			}

			r.Post("/chat", chatHandler.Chat)
			r.Post("/whatsapp/webhook", whatsappHandler.Webhook)
			r.Post("/intent", intentHandler.Analyze)
			r.Post("/training-data/search", knowledgeHandler.Search)
		})

		r.Group(func(r chi.Router) {
			if cfg.DashboardAuth {
				r.Use(middleware.Auth(cfg.JWTSecret))
				r.Use(middleware.RequireScope(middleware.ScopeHistoryRead))
			}

			r.Post("/conversations/history", historyHandler.History)
		})
	})

	return r
}
