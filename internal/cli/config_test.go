package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	preerrors "github.com/cybertec-postgresql/sqlpreparse/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preparse.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Parallelism != 1 {
		t.Errorf("expected default parallelism 1, got %d", cfg.Parallelism)
	}
	if cfg.CacheSize != 1024 {
		t.Errorf("expected default cache size 1024, got %d", cfg.CacheSize)
	}
	if cfg.WorkloadFile != ".preparse/workload.json" {
		t.Errorf("expected default workload file '.preparse/workload.json', got '%s'", cfg.WorkloadFile)
	}
	if !cfg.Options.DelimitedIdentifiers || cfg.Options.BracketSubstitution || cfg.Options.AddRowID != 0 {
		t.Errorf("unexpected default options %+v", cfg.Options)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
connection: postgres://localhost/catalog
parallelism: 8
preparser:
  bracket_substitution: true
  add_row_id: 2
`)
	cfg := DefaultConfig()
	if err := LoadConfigFile(&cfg, path); err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}

	if cfg.ConnectionString != "postgres://localhost/catalog" || cfg.Parallelism != 8 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.Options.BracketSubstitution || cfg.Options.AddRowID != 2 {
		t.Errorf("options not applied: %+v", cfg.Options)
	}
	// keys missing from the file keep their defaults
	if !cfg.Options.DelimitedIdentifiers || cfg.CacheSize != 1024 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadConfigFile(&cfg, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
	if err := LoadConfigFile(&cfg, writeConfig(t, "parallelism: [1, 2")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestApplyFlagsToConfig(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		check func(t *testing.T, c *Config)
	}{
		{
			name:  "no flags keep values",
			flags: Flags{},
			check: func(t *testing.T, c *Config) {
				if c.Parallelism != 1 || c.CacheSize != 1024 || c.Verbose {
					t.Errorf("values changed: %+v", c)
				}
			},
		},
		{
			name:  "scalar flags",
			flags: Flags{Connection: "host=db", Parallel: 4, WorkloadFile: "out.json", Verbose: true},
			check: func(t *testing.T, c *Config) {
				if c.ConnectionString != "host=db" || c.Parallelism != 4 || c.WorkloadFile != "out.json" || !c.Verbose {
					t.Errorf("flags not applied: %+v", c)
				}
			},
		},
		{
			name:  "explicit zero cache size",
			flags: Flags{CacheSize: intPtr(0)},
			check: func(t *testing.T, c *Config) {
				if c.CacheSize != 0 {
					t.Errorf("cache size = %d", c.CacheSize)
				}
			},
		},
		{
			name:  "options",
			flags: Flags{DelimitedIdentifiers: boolPtr(false), BracketSubstitution: boolPtr(true), AddRowID: intPtr(1)},
			check: func(t *testing.T, c *Config) {
				if c.Options.DelimitedIdentifiers || !c.Options.BracketSubstitution || c.Options.AddRowID != 1 {
					t.Errorf("options = %+v", c.Options)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			ApplyFlagsToConfig(&c, tt.flags)
			tt.check(t, &c)
		})
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeConfig(t, "parallelism: 8\ncache_size: 10\n")
	cfg, err := LoadConfig(path, Flags{Parallel: 2})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Parallelism != 2 {
		t.Errorf("flag did not override file: parallelism = %d", cfg.Parallelism)
	}
	if cfg.CacheSize != 10 {
		t.Errorf("file did not override default: cache size = %d", cfg.CacheSize)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		field string
	}{
		{"parallelism", Flags{Parallel: -1}, "parallelism"},
		{"cache size", Flags{CacheSize: intPtr(-5)}, "cache_size"},
		{"add row id", Flags{AddRowID: intPtr(7)}, "preparser.add_row_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig("", tt.flags)
			var cerr *preerrors.ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("LoadConfig() error = %v, want ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}

	path := writeConfig(t, "workload_file: \"\"\n")
	if _, err := LoadConfig(path, Flags{}); err == nil || !strings.Contains(err.Error(), "workload_file") {
		t.Errorf("empty workload file accepted: %v", err)
	}
}
