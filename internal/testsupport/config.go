package testsupport

import (
	"path/filepath"
	"testing"

	"wwtxtp/internal/config"
)

// ConfigOption allows callers to customize the generated test
// configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutDir = filepath.Join(base, "txtp")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.IndexDir = filepath.Join(base, "index")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithDryRun renders without writing artifact files.
func WithDryRun() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Generate.DryRun = true
	}
}

// WithSelectorDefaults pins selector groups on the test config.
func WithSelectorDefaults(entries ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Defaults.Selectors = entries
	}
}
