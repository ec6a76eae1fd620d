package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port string

	// Auth for the HTTP API. Empty disables auth.
	APIKey string

	// LLM provider selection
	LLMProvider     string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	LLMMaxRetries   int
	LLMTimeout      time.Duration

	// Output
	OutputDir       string
	ThemeFile       string
	DefaultJobRoles string

	// Research
	SearchMaxResults int
	SearchDelay      time.Duration
	FetchTimeout     time.Duration
	UserAgent        string
	ScrapeMaxTokens  int

	// Optional Google Programmable Search provider
	GoogleSearchAPIKey string
	GoogleSearchCX     string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PROPOSALGEN_API_KEY"),

		LLMProvider:     envOr("LLM_PROVIDER", ProviderGemini),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     envOr("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		LLMMaxRetries:   envInt("LLM_MAX_RETRIES", 3),
		LLMTimeout:      envDuration("LLM_TIMEOUT", 120*time.Second),

		OutputDir:       envOr("OUTPUT_DIR", "generated_documents"),
		ThemeFile:       os.Getenv("THEME_FILE"),
		DefaultJobRoles: envOr("DEFAULT_JOB_ROLES", "Account Director of Sales"),

		SearchMaxResults: envInt("SEARCH_MAX_RESULTS", 15),
		SearchDelay:      envDuration("SEARCH_DELAY", 300*time.Millisecond),
		FetchTimeout:     envDuration("FETCH_TIMEOUT", 15*time.Second),
		UserAgent:        envOr("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		ScrapeMaxTokens:  envInt("SCRAPE_MAX_TOKENS", 1500),

		GoogleSearchAPIKey: os.Getenv("GOOGLE_SEARCH_API_KEY"),
		GoogleSearchCX:     os.Getenv("GOOGLE_SEARCH_CX"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.LLMMaxRetries < 0 {
		cfg.LLMMaxRetries = 0
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}
	if cfg.SearchMaxResults <= 0 {
		cfg.SearchMaxResults = 15
	}
	if cfg.SearchDelay < 0 {
		cfg.SearchDelay = 0
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.ScrapeMaxTokens <= 0 {
		cfg.ScrapeMaxTokens = 1500
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks the settings the HTTP server needs. The offline render
// command does not call it.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	return nil
}

// CustomSearchEnabled reports whether both Programmable Search settings are set.
func (c Config) CustomSearchEnabled() bool {
	return c.GoogleSearchAPIKey != "" && c.GoogleSearchCX != ""
}

// LLMModel returns the model name for the selected provider.
func (c Config) LLMModel() string {
	if c.LLMProvider == ProviderAnthropic {
		return c.AnthropicModel
	}
	return c.GeminiModel
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
