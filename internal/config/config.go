// Package config provides configuration loading from fluentsql.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/shipq/fluentsql/query"
)

// ConfigFilenames are tried in order in the config directory.
var ConfigFilenames = []string{"fluentsql.yaml", "fluentsql.yml"}

// EnvPrefix is prepended to upper-cased keys for environment overrides,
// e.g. FLUENTSQL_DATABASE_URL.
const EnvPrefix = "FLUENTSQL"

// Config holds the complete configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" json:"database"`
	Tables   TablesConfig   `mapstructure:"tables" json:"tables"`
	Log      LogConfig      `mapstructure:"log" json:"log"`
}

// DatabaseConfig holds connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" json:"url"`
}

// TablesConfig controls table-name resolution.
type TablesConfig struct {
	Prefix string `mapstructure:"prefix" json:"prefix"`
	// BasePrefix applies to Network tables. Empty means Prefix.
	BasePrefix string   `mapstructure:"base_prefix" json:"base_prefix"`
	Network    []string `mapstructure:"network" json:"network"`
}

// LogConfig selects the logger built by logging.New.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// Load reads configuration with precedence env > config file > defaults.
// explicitPath, when set, must exist. Otherwise dir is searched for
// ConfigFilenames and a missing file is not an error.
//
// Returns the loaded config and the path of the file read (empty if none).
func Load(dir, explicitPath string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := findConfigFile(dir, explicitPath)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, path, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, path, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, path, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.url", "")
	v.SetDefault("tables.prefix", "")
	v.SetDefault("tables.base_prefix", "")
	v.SetDefault("tables.network", query.DefaultNetworkTables)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func findConfigFile(dir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}
	for _, name := range ConfigFilenames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// Resolver builds the table-name resolver described by the tables section.
func (c *Config) Resolver() *query.PrefixResolver {
	r := query.NewPrefixResolver(c.Tables.Prefix)
	r.BasePrefix = c.Tables.BasePrefix
	if c.Tables.Network != nil {
		r.SetNetworkTables(c.Tables.Network...)
	}
	return r
}
