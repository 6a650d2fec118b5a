package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/figtools/compdiff/internal/classify"
)

type Config struct {
	Port string

	// Auth
	CompdiffAPIKey string

	// Document source (Figma)
	FigmaToken  string
	FigmaAPIURL string

	// Registry + commit sink (GitHub)
	GithubToken      string
	GithubRepo       string // "owner/name"
	GithubAPIURL     string
	GithubBaseBranch string
	RegistryPath     string

	// Model oracles
	AnthropicAPIKey   string
	AnthropicModel    string
	FuzzyMatchEnabled bool

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration

	// Classification thresholds. Historical cutoffs with no semantic
	// meaning beyond "small enough to be atomic" / "large enough to be a
	// screen"; kept configurable rather than interpreted.
	AtomicMaxSize float64
	ScreenMinSize float64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		CompdiffAPIKey: os.Getenv("COMPDIFF_API_KEY"),

		FigmaToken:  os.Getenv("FIGMA_TOKEN"),
		FigmaAPIURL: envOr("FIGMA_API_URL", "https://api.figma.com"),

		GithubToken:      os.Getenv("GITHUB_TOKEN"),
		GithubRepo:       os.Getenv("GITHUB_REPO"),
		GithubAPIURL:     envOr("GITHUB_API_URL", "https://api.github.com"),
		GithubBaseBranch: envOr("GITHUB_BASE_BRANCH", "main"),
		RegistryPath:     envOr("REGISTRY_PATH", "src/components"),

		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:    envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		FuzzyMatchEnabled: envBool("FUZZY_MATCH_ENABLED", true),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		AtomicMaxSize: envFloat("ATOMIC_MAX_SIZE", 500),
		ScreenMinSize: envFloat("SCREEN_MIN_SIZE", 500),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.AtomicMaxSize <= 0 {
		cfg.AtomicMaxSize = 500
	}
	if cfg.ScreenMinSize <= 0 {
		cfg.ScreenMinSize = 500
	}

	return cfg
}

func (c Config) Validate() error {
	if c.CompdiffAPIKey == "" {
		return fmt.Errorf("COMPDIFF_API_KEY is required")
	}
	if c.FigmaToken == "" {
		return fmt.Errorf("FIGMA_TOKEN is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	// GITHUB_TOKEN is optional: without it the registry check is skipped
	// and every component reports as new.
	if c.GithubToken != "" && c.GithubRepo == "" {
		return fmt.Errorf("GITHUB_REPO is required when GITHUB_TOKEN is set")
	}
	return nil
}

// Thresholds returns the classification size cutoffs.
func (c Config) Thresholds() classify.Thresholds {
	return classify.Thresholds{
		AtomicMaxSize: c.AtomicMaxSize,
		ScreenMinSize: c.ScreenMinSize,
	}
}

// RegistryEnabled reports whether a registry source can be constructed.
func (c Config) RegistryEnabled() bool {
	return c.GithubToken != "" && c.GithubRepo != ""
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
