package cli

import (
	"fmt"
	"os"

	"github.com/cybertec-postgresql/sqlpreparse/pkg/preparser"
	"github.com/cybertec-postgresql/sqlpreparse/pkg/types"
	"gopkg.in/yaml.v3"
)

// Config is an alias for the shared Config type
type Config = types.Config

// DefaultConfig provides default configuration values
func DefaultConfig() Config {
	return Config{
		ConnectionString: "",
		Options:          preparser.DefaultOptions(),
		Parallelism:      1,
		CacheSize:        1024,
		WorkloadFile:     ".preparse/workload.json",
		Verbose:          false,
	}
}

// Flags holds command-line values. Nil pointers and zero values mean the
// flag was not given.
type Flags struct {
	Connection           string
	Parallel             int
	CacheSize            *int
	WorkloadFile         string
	Verbose              bool
	DelimitedIdentifiers *bool
	BracketSubstitution  *bool
	AddRowID             *int
}

// LoadConfigFile overlays the YAML file at path onto c. Keys missing from
// the file keep their current values.
func LoadConfigFile(c *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyFlagsToConfig applies command-line flag values to configuration
func ApplyFlagsToConfig(c *Config, f Flags) {
	if f.Connection != "" {
		c.ConnectionString = f.Connection
	}
	if f.Parallel != 0 {
		c.Parallelism = f.Parallel
	}
	if f.CacheSize != nil {
		c.CacheSize = *f.CacheSize
	}
	if f.WorkloadFile != "" {
		c.WorkloadFile = f.WorkloadFile
	}
	if f.DelimitedIdentifiers != nil {
		c.Options.DelimitedIdentifiers = *f.DelimitedIdentifiers
	}
	if f.BracketSubstitution != nil {
		c.Options.BracketSubstitution = *f.BracketSubstitution
	}
	if f.AddRowID != nil {
		c.Options.AddRowID = *f.AddRowID
	}
	c.Verbose = c.Verbose || f.Verbose
}

// LoadConfig builds the effective configuration: defaults, then the config
// file (if any), then flags.
func LoadConfig(configFile string, f Flags) (*Config, error) {
	c := DefaultConfig()
	if configFile != "" {
		if err := LoadConfigFile(&c, configFile); err != nil {
			return nil, err
		}
	}
	ApplyFlagsToConfig(&c, f)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
