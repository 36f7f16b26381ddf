package types

import (
	"github.com/cybertec-postgresql/sqlpreparse/internal/errors"
	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
)

// Config holds runtime configuration combining the config file, flags, and defaults
type Config struct {
	// PostgreSQL connection for the statement catalog
	ConnectionString string `yaml:"connection"`

	// Pre-parser behaviour
	Options preparser.Options `yaml:"preparser"`

	// Execution
	Parallelism int `yaml:"parallelism"` // Max concurrent workers (1 = sequential)
	CacheSize   int `yaml:"cache_size"`  // Statements kept by the shared cache (0 = no cache)

	// Output
	WorkloadFile string `yaml:"workload_file"` // Workload summary path
	Verbose      bool   `yaml:"verbose"`       // Enable debug logging
}

// Validate checks that the configuration can be used
func (c *Config) Validate() error {
	if err := c.Options.Validate(); err != nil {
		return &errors.ConfigError{
			Field:      "preparser.add_row_id",
			Value:      c.Options.AddRowID,
			Message:    err.Error(),
			Suggestion: "Use 0 (off), 1 (%ID after SELECT) or 2 (also %IDADDED after ORDER BY)",
		}
	}
	if c.Parallelism < 1 {
		return errors.NewConfigError("parallelism", c.Parallelism, "must be at least 1")
	}
	if c.CacheSize < 0 {
		return errors.NewConfigError("cache_size", c.CacheSize, "must not be negative")
	}
	if c.WorkloadFile == "" {
		return &errors.ConfigError{
			Field:      "workload_file",
			Value:      c.WorkloadFile,
			Message:    "must not be empty",
			Suggestion: "Pass --workload-file or set workload_file in the config file",
		}
	}
	return nil
}
