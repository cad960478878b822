// Package config manages application configuration from files and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json"
	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/numfmt"
)

// EnvPrefix prefixes environment variable overrides, e.g. S2J_LOCALE.
const EnvPrefix = "S2J"

// Config holds the application configuration.
type Config struct {
	// Locale selects format overrides and long date/time patterns.
	Locale string `mapstructure:"locale"`
	// Indent pretty-prints the JSON output.
	Indent bool `mapstructure:"indent"`
	// Encode escapes non-ASCII characters in the JSON output.
	Encode bool `mapstructure:"encode"`
	// ObjectFormat keys sheets and cells by name instead of listing them.
	ObjectFormat bool `mapstructure:"object_format"`
	// OverridesFile is a YAML locale table merged over the built-in one.
	OverridesFile string `mapstructure:"overrides_file"`
}

// Load reads the configuration. An explicit path must exist; otherwise
// ~/.spreadsheet2json/config.yaml is read when present. Environment
// variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("locale", HostLocale())
	v.SetDefault("indent", true)
	v.SetDefault("encode", true)
	v.SetDefault("object_format", false)
	v.SetDefault("overrides_file", "")

	// Environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(Dir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Dir returns the directory holding the default config file.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spreadsheet2json"
	}
	return filepath.Join(home, ".spreadsheet2json")
}

// HostLocale derives the locale from LC_ALL or LANG, falling back to
// spreadsheet2json.DefaultLocale.
func HostLocale() string {
	for _, key := range []string{"LC_ALL", "LANG"} {
		if name := numfmt.CanonicalLocale(os.Getenv(key)); name != "" {
			return name
		}
	}
	return spreadsheet2json.DefaultLocale
}
