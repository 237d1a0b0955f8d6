// Package config loads the bundler settings. Settings are layered, later
// sources overriding earlier ones:
//  1. Built-in defaults
//  2. A YAML config file: the one given on the command line, or else
//     .appbundler.yaml in the home directory or the current directory
//  3. Environment variables prefixed with APPBUNDLER_ (APPBUNDLER_TOOLS_DOTNET, ...)
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"appbundler/utilities/logger"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the name of the config file looked up when none is given (without extension).
	ConfigFileName = ".appbundler"
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "APPBUNDLER"

	// DefaultRuntime is the runtime identifier used when none is passed on the command line.
	DefaultRuntime = "osx-x64"
	// DefaultMinimumSystemVersion is written to LSMinimumSystemVersion.
	DefaultMinimumSystemVersion = "10.13"
)

// Tools names the external programs. A bare name is looked up in PATH.
type Tools struct {
	Dotnet   string `mapstructure:"dotnet"`
	Sips     string `mapstructure:"sips"`
	Iconutil string `mapstructure:"iconutil"`
}

// Config holds the resolved settings for one run.
type Config struct {
	Tools Tools `mapstructure:"tools"`
	// ScratchDir is the parent of the per-application publish directory.
	ScratchDir string `mapstructure:"scratch_dir"`
	// DefaultRuntime is the runtime identifier used when the caller gives none.
	DefaultRuntime string `mapstructure:"default_runtime"`
	// MinimumSystemVersion is the LSMinimumSystemVersion of generated bundles.
	MinimumSystemVersion string `mapstructure:"minimum_system_version"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Tools: Tools{
			Dotnet:   "dotnet",
			Sips:     "sips",
			Iconutil: "iconutil",
		},
		ScratchDir:           os.TempDir(),
		DefaultRuntime:       DefaultRuntime,
		MinimumSystemVersion: DefaultMinimumSystemVersion,
	}
}

// Load reads the configuration. When configFile is empty a missing config
// file is not an error; an explicitly named file must exist and parse.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("tools.dotnet", defaults.Tools.Dotnet)
	v.SetDefault("tools.sips", defaults.Tools.Sips)
	v.SetDefault("tools.iconutil", defaults.Tools.Iconutil)
	v.SetDefault("scratch_dir", defaults.ScratchDir)
	v.SetDefault("default_runtime", defaults.DefaultRuntime)
	v.SetDefault("minimum_system_version", defaults.MinimumSystemVersion)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("Using config file %s", used)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Tools.Dotnet == "" || c.Tools.Sips == "" || c.Tools.Iconutil == "" {
		return errors.New("tool names cannot be empty")
	}
	if c.ScratchDir == "" {
		return errors.New("scratch_dir cannot be empty")
	}
	if c.DefaultRuntime == "" {
		return errors.New("default_runtime cannot be empty")
	}
	if err := ValidateSystemVersion(c.MinimumSystemVersion); err != nil {
		return fmt.Errorf("invalid minimum_system_version: %w", err)
	}
	return nil
}

// ValidateSystemVersion checks that v is a macOS version such as "10.13" or "11.0".
func ValidateSystemVersion(v string) error {
	if _, err := semver.NewVersion(v); err != nil {
		return fmt.Errorf("%q is not a version: %w", v, err)
	}
	return nil
}
