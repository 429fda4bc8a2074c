package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks URL validation and default filling.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty config picks up every default.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultDataDir, cfg.Runner.DataDir)
	require.Equal(t, DefaultImage, cfg.Runner.Image)
	require.Equal(t, DefaultHTTPTimeout, cfg.Runner.HTTPTimeout)

	// Bad webhook URL.
	cfg = &Config{
		Runner: Runner{
			ErrorWebhook: "not a url",
		},
	}
	require.Error(t, Validate(cfg))

	// Well-formed URLs pass.
	cfg = &Config{
		Runner: Runner{
			AnnounceWebhook: "https://discord.com/api/webhooks/1/abc",
			ListingURL:      "https://libs.example.com/",
		},
	}
	require.NoError(t, Validate(cfg))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		Runner: Runner{
			DataDir:         "/srv/miner/data",
			Image:           "unity-miner:latest",
			DockerNetwork:   "miner-net",
			AnnounceWebhook: "https://discord.com/api/webhooks/1/abc",
			Schedule:        "0 * * * *",
			HTTPTimeout:     3 * time.Second,
		},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Runner, loaded.Runner)
}

// TestLoadOrDefault verifies that a missing settings file degrades to the
// defaults instead of failing.
func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	cfg := LoadOrDefault(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Equal(t, Default(), cfg)
}
