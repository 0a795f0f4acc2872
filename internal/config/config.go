package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinResizeDebounce is the shortest resize coalescing window accepted.
const MinResizeDebounce = 250 * time.Millisecond

// Config holds all configuration for the dashboard service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Finance API
	APIBaseURL    string        `env:"API_BASE_URL,default=http://localhost:5000/api"`
	APITimeout    time.Duration `env:"API_TIMEOUT,default=30s"`
	APIRetryCount int           `env:"API_RETRY_COUNT,default=3"`

	// Storage for exports and preferences
	StorageMode  string `env:"STORAGE_MODE,default=local"`
	LocalDataDir string `env:"LOCAL_DATA_DIR,default=./data"`
	GCSBucket    string `env:"GCS_BUCKET"`
	GCPProjectID string `env:"GCP_PROJECT_ID"`

	// Presentation
	DefaultTheme   string        `env:"DEFAULT_THEME,default=light"`
	ColorScheme    string        `env:"COLOR_SCHEME,default=default"`
	ResizeDebounce time.Duration `env:"RESIZE_DEBOUNCE,default=250ms"`
	AnimationFrame time.Duration `env:"ANIMATION_FRAME,default=16ms"`

	// Local testing configuration
	MockupMode bool   `env:"MOCKUP_MODE,default=false"`
	MocksDir   string `env:"MOCKS_DIR,default=./internal/mocks"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints and clamps soft limits.
func (c *Config) Validate() error {
	c.StorageMode = strings.ToLower(c.StorageMode)
	switch c.StorageMode {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return errors.New("GCS_BUCKET is required when STORAGE_MODE=gcs")
		}
	default:
		return fmt.Errorf("unknown STORAGE_MODE %q", c.StorageMode)
	}

	switch strings.ToLower(c.DefaultTheme) {
	case "light", "dark":
		c.DefaultTheme = strings.ToLower(c.DefaultTheme)
	default:
		return fmt.Errorf("unknown DEFAULT_THEME %q", c.DefaultTheme)
	}

	if c.ResizeDebounce < MinResizeDebounce {
		c.ResizeDebounce = MinResizeDebounce
	}
	if c.AnimationFrame <= 0 {
		c.AnimationFrame = 16 * time.Millisecond
	}
	if c.APIRetryCount < 0 {
		c.APIRetryCount = 0
	}
	return nil
}

// UseGCS reports whether exports and preferences go to Cloud Storage.
func (c *Config) UseGCS() bool {
	return c.StorageMode == "gcs"
}
