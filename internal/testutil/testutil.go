// Package testutil provides shared test helpers.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/AntoineGS/dynform/internal/config"
	"github.com/AntoineGS/dynform/internal/history"
)

// OpenStore opens a history store in a temp dir and closes it when the test
// ends.
func OpenStore(t *testing.T) *history.Store {
	t.Helper()

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open history store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close history store: %v", err)
		}
	})

	return store
}

// SetConfigPath points $DYNFORM_CONFIG at a file in a temp dir and returns
// its path. The file itself is not created.
func SetConfigPath(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.ConfigPathEnvVar, path)

	return path
}

// WriteConfig saves the defaults, adjusted by mutate when non-nil, to path.
func WriteConfig(t *testing.T, path string, mutate func(*config.Config)) *config.Config {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	if err := config.Save(cfg, path); err != nil {
		t.Fatalf("failed to write config %s: %v", path, err)
	}

	return cfg
}
