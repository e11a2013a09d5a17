package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"plateflow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ScriptDir = filepath.Join(base, "scripts")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.SheetDir = filepath.Join(base, "sheets")
	cfgVal.ShotDB.BaseURL = "https://tracking.test/api"
	cfgVal.ShotDB.APIKey = "test"
	cfgVal.ShotDB.ProjectID = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithProjectID overrides the tracking database project on the test config.
func WithProjectID(id int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.ShotDB.ProjectID = id
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the conversion binary is stubbed
// and the config is pointed at it.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		pointConfig := len(names) == 0
		if pointConfig {
			names = []string{"converttool"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		if pointConfig {
			b.cfg.Converter.Binary = filepath.Join(binDir, "converttool")
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
