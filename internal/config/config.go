// Package config provides environment configuration for the chat API server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Backend names accepted by STORE_BACKEND and CONVERSATION_LOG.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendStore    = "store"
	BackendNATS     = "nats"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ShutdownGrace      time.Duration

	// Storage settings
	StoreBackend    string
	DatabaseURL     string
	ConversationLog string

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Knowledge retrieval
	KnowledgeSearchURL  string
	KnowledgeSearchKey  string
	KnowledgeMatchLimit int
	RetrievalTimeout    time.Duration

	// LLM settings
	AnthropicAPIKey   string
	OpenAIAPIKey      string
	DefaultLLM        string
	LLMModel          string
	LLMMaxTokens      int
	GenerationTimeout time.Duration

	// Conversation recording
	RecordTimeout time.Duration

	// Dashboard auth
	DashboardAuth bool
	JWTSecret     string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Channels
	WhatsAppDefaultTenant string

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
		ShutdownGrace:      getDurationEnv("SHUTDOWN_GRACE", 10*time.Second),

		// Storage
		StoreBackend:    getEnv("STORE_BACKEND", BackendMemory),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ConversationLog: getEnv("CONVERSATION_LOG", BackendStore),

		// NATS
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Knowledge
		KnowledgeSearchURL:  getEnv("KNOWLEDGE_SEARCH_URL", ""),
		KnowledgeSearchKey:  getEnv("KNOWLEDGE_SEARCH_KEY", ""),
		KnowledgeMatchLimit: getIntEnv("KNOWLEDGE_MATCH_LIMIT", 5),
		RetrievalTimeout:    getDurationEnv("RETRIEVAL_TIMEOUT", 5*time.Second),

		// LLM
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		DefaultLLM:        getEnv("DEFAULT_LLM", "anthropic"),
		LLMModel:          getEnv("LLM_MODEL", ""),
		LLMMaxTokens:      getIntEnv("LLM_MAX_TOKENS", 1024),
		GenerationTimeout: getDurationEnv("GENERATION_TIMEOUT", 15*time.Second),

		// Recording
		RecordTimeout: getDurationEnv("RECORD_TIMEOUT", 5*time.Second),

		// Dashboard auth
		DashboardAuth: getBoolEnv("DASHBOARD_AUTH", false),
		JWTSecret:     getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Channels
		WhatsAppDefaultTenant: getEnv("WHATSAPP_DEFAULT_TENANT", ""),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
