// Package main is the entry point for the chat API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/capitalize-ai/realty-chat/internal/agency"
	"github.com/capitalize-ai/realty-chat/internal/config"
	"github.com/capitalize-ai/realty-chat/internal/handler"
	"github.com/capitalize-ai/realty-chat/internal/intent"
	"github.com/capitalize-ai/realty-chat/internal/knowledge"
	"github.com/capitalize-ai/realty-chat/internal/llm"
	natsclient "github.com/capitalize-ai/realty-chat/internal/nats"
	"github.com/capitalize-ai/realty-chat/internal/postgres"
	"github.com/capitalize-ai/realty-chat/internal/service"
	"github.com/capitalize-ai/realty-chat/internal/store"
	"github.com/capitalize-ai/realty-chat/internal/store/memory"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
	"github.com/capitalize-ai/realty-chat/pkg/tracing"
)

// connectWait bounds startup retries against Postgres and NATS.
const connectWait = 30 * time.Second

type backends struct {
	conversations store.ConversationLog
	training      store.TrainingData
	leads         store.Leads
	pingers       map[string]store.Pinger
	closers       []func()
}

func main() {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting chat API server",
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("conversation_log", cfg.ConversationLog),
	)

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "realty-chat", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage backends", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		for i := len(b.closers) - 1; i >= 0; i-- {
			b.closers[i]()
		}
	}()

	var searcher knowledge.Searcher = knowledge.NewStoreSearcher(b.training)
	if cfg.KnowledgeSearchURL != "" {
		searcher = knowledge.NewRemoteSearcher(cfg.KnowledgeSearchURL, cfg.KnowledgeSearchKey, &http.Client{
			Timeout: cfg.RetrievalTimeout,
		})
		log.Info("using remote knowledge search", zap.String("url", cfg.KnowledgeSearchURL))
	}
	retriever := knowledge.NewRetriever(searcher, cfg.RetrievalTimeout, cfg.KnowledgeMatchLimit, log)

	llmClient, err := llm.SelectClient(llm.Provider(cfg.DefaultLLM), cfg.AnthropicAPIKey, cfg.OpenAIAPIKey)
	if err != nil {
		log.Warn("no LLM provider configured, generated replies will fall back to the apology", zap.Error(err))
		llmClient = nil
	} else {
		log.Info("LLM provider selected", zap.String("provider", llmClient.Name()))
	}
	responder := llm.NewResponder(llmClient, cfg.LLMModel, cfg.LLMMaxTokens)

	recorder := service.NewRecorder(b.conversations, cfg.RecordTimeout, log)
	chatSvc := service.NewChatService(
		intent.NewClassifier(nil),
		agency.NewDetector(nil),
		retriever,
		responder,
		recorder,
		cfg.GenerationTimeout,
		log,
	)
	conversationSvc := service.NewConversationService(b.conversations, b.leads, log)

	router := handler.NewRouter(handler.RouterConfig{
		Chat:                  chatSvc,
		Conversations:         conversationSvc,
		Knowledge:             retriever,
		Backends:              b.pingers,
		Logger:                log,
		WhatsAppDefaultTenant: cfg.WhatsAppDefaultTenant,
		DashboardAuth:         cfg.DashboardAuth,
		JWTSecret:             cfg.JWTSecret,
		RateLimitRequests:     cfg.RateLimitRequests,
		RateLimitWindow:       cfg.RateLimitWindow,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := recorder.Wait(shutdownCtx); err != nil {
		log.Warn("pending conversation records dropped", zap.Error(err))
	}

	log.Info("server stopped")
}

// openBackends connects the configured stores. Postgres or memory serves
// training data and leads; the conversation log may live on NATS instead.
func openBackends(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backends, error) {
	b := &backends{pingers: make(map[string]store.Pinger)}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres backend")
		}
		pg, err := postgres.Connect(ctx, cfg.DatabaseURL, connectWait, log)
		if err != nil {
			return nil, err
		}
		b.conversations, b.training, b.leads = pg, pg, pg
		b.pingers["postgres"] = pg
		b.closers = append(b.closers, pg.Close)
	case config.BackendMemory:
		mem := memory.New()
		b.conversations, b.training, b.leads = mem, mem, mem
		b.pingers["memory"] = mem
		log.Warn("using in-memory store, data is lost on restart")
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.ConversationLog {
	case config.BackendStore:
	case config.BackendNATS:
		nc, err := natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
			MaxWait:  connectWait,
		}, log)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, nc.Close)

		convLog := natsclient.NewConversationLog(nc)
		if err := convLog.EnsureStream(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure stream: %w", err)
		}
		b.conversations = convLog
		b.pingers["nats"] = convLog
	default:
		return nil, fmt.Errorf("unknown CONVERSATION_LOG %q", cfg.ConversationLog)
	}

	return b, nil
}
