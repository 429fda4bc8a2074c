package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/miner-runner/internal/logger"
)

// Config is the root of the settings file.
type Config struct {
	// Runner holds the settings of the miner wrapper.
	Runner Runner `yaml:"runner"`
}

// Runner collects every recognized setting of the wrapper with its default
// made explicit. All webhook and network settings are optional; an empty
// value disables the corresponding feature.
type Runner struct {
	// DataDir is the directory holding the miner's bind-mounted state:
	// <data_dir>/repo for produced artifacts and <data_dir>/config.toml for
	// the miner's own configuration.
	DataDir string `yaml:"data_dir"`
	// Image is the container image to invoke.
	Image string `yaml:"image"`
	// DockerNetwork optionally overrides the container network.
	DockerNetwork string `yaml:"docker_network"`
	// AnnounceWebhook is the optional webhook URL for new-artifact announcements.
	AnnounceWebhook string `yaml:"announce_discord_webhook"`
	// ErrorWebhook is the optional webhook URL for failure reports.
	ErrorWebhook string `yaml:"error_discord_webhook"`
	// ListingURL is the optional base URL artifacts are downloadable from;
	// when set, announcements link each artifact against it.
	ListingURL string `yaml:"listing_url"`
	// IndexTemplate is the optional path to a custom index page template.
	// When empty the embedded default template is used.
	IndexTemplate string `yaml:"index_template"`
	// Schedule is the optional cron expression for the schedule subcommand.
	Schedule string `yaml:"schedule"`
	// HTTPTimeout bounds a single webhook delivery attempt.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

const (
	// DefaultConfigFilename is the default filename for runner settings.
	DefaultConfigFilename = "miner-runner-settings.yaml"

	// DefaultDataDir is the default data directory.
	DefaultDataDir = "data"

	// DefaultImage is the default container image name.
	DefaultImage = "unity-miner"

	// DefaultHTTPTimeout is the default bound on a webhook delivery attempt.
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// Default returns a configuration with every setting at its default.
func Default() *Config {
	return &Config{
		Runner: Runner{
			DataDir:     DefaultDataDir,
			Image:       DefaultImage,
			ListingURL:  "",
			HTTPTimeout: DefaultHTTPTimeout,
		},
	}
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault reads configuration from the provided path, degrading to the
// defaults when the file is missing, unreadable or invalid. A configuration
// problem is never fatal: all optional settings are simply treated as absent.
func LoadOrDefault(ctx context.Context, path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		logger.WarnKV(ctx, "Settings unavailable, using defaults", "path", path, "error", err)
		return Default()
	}

	return cfg
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks URL-shaped settings and fills in defaults for empty ones.
func Validate(cfg *Config) error {
	r := &cfg.Runner

	if r.DataDir == "" {
		r.DataDir = DefaultDataDir
	}

	if r.Image == "" {
		r.Image = DefaultImage
	}

	if r.HTTPTimeout <= 0 {
		r.HTTPTimeout = DefaultHTTPTimeout
	}

	for name, value := range map[string]string{
		"announce_discord_webhook": r.AnnounceWebhook,
		"error_discord_webhook":    r.ErrorWebhook,
		"listing_url":              r.ListingURL,
	} {
		if value == "" {
			continue
		}

		if _, err := url.ParseRequestURI(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}
