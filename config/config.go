// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads the locsync configuration from defaults, a YAML file,
// a .env file, environment variables and command-line flags, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	"codeberg.org/culina/locsync/core/catalog"
	"codeberg.org/culina/locsync/core/keygen"
)

const (
	defaultConfigFile  = "./locsync.yaml"
	fallbackConfigFile = "./locsync.yml"
	configFileEnv      = "LOCSYNC_CONFIGFILE"
)

// Config holds the project configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	// ConfigFile is the path the YAML configuration was looked up at.
	ConfigFile string `yaml:"-"`

	Project struct {
		Root       string   `env:"LOCSYNC_ROOT" yaml:"root"`
		SourceDirs []string `env:"LOCSYNC_SOURCE_DIRS" yaml:"sourceDirs"`
		Extensions []string `env:"LOCSYNC_EXTENSIONS" yaml:"extensions"`
		// Exclude holds path.Match patterns checked against slash-separated
		// paths relative to the root and against base names.
		Exclude []string `env:"LOCSYNC_EXCLUDE" yaml:"exclude"`
		Workers int      `env:"LOCSYNC_WORKERS" yaml:"workers"`
		// Timeout bounds a whole run. Zero disables it.
		Timeout time.Duration `env:"LOCSYNC_TIMEOUT" yaml:"timeout"`
	} `yaml:"project"`

	Catalog struct {
		Dir        string         `env:"LOCSYNC_CATALOG_DIR" yaml:"dir"`
		RawFormat  string         `env:"LOCSYNC_CATALOG_FORMAT" yaml:"format"`
		Format     catalog.Format `yaml:"-"`
		BaseLocale string         `env:"LOCSYNC_BASE_LOCALE" yaml:"baseLocale"`
		Locales    []string       `env:"LOCSYNC_LOCALES" yaml:"locales"`
		// Marker defaults to "[" + upper(baseLocale) + "] ".
		Marker string `env:"LOCSYNC_MARKER" yaml:"marker"`
	} `yaml:"catalog"`

	Classify struct {
		Permissive        bool     `env:"LOCSYNC_PERMISSIVE" yaml:"permissive"`
		PermissiveLength  int      `env:"LOCSYNC_PERMISSIVE_LENGTH" yaml:"permissiveLength"`
		MinLength         int      `env:"LOCSYNC_MIN_LENGTH" yaml:"minLength"`
		Diacritics        string   `env:"LOCSYNC_DIACRITICS" yaml:"diacritics"`
		FunctionWords     []string `env:"LOCSYNC_FUNCTION_WORDS" yaml:"functionWords"`
		ReferencePrefixes []string `env:"LOCSYNC_REFERENCE_PREFIXES" yaml:"referencePrefixes"`
	} `yaml:"classify"`

	Keys struct {
		DefaultTag    string `env:"LOCSYNC_DEFAULT_TAG" yaml:"defaultTag"`
		MaxSlugLength int    `env:"LOCSYNC_MAX_SLUG_LENGTH" yaml:"maxSlugLength"`
		MaxWords      int    `env:"LOCSYNC_MAX_WORDS" yaml:"maxWords"`
		// ContextRules are "Match=tag" pairs, checked in order.
		ContextRules []string `env:"LOCSYNC_CONTEXT_RULES" yaml:"contextRules"`
		rules        []keygen.Rule
	} `yaml:"keys"`

	Rewrite struct {
		ReferenceFormat string `env:"LOCSYNC_REFERENCE_FORMAT" yaml:"referenceFormat"`
		AccessorFile    string `env:"LOCSYNC_ACCESSOR_FILE" yaml:"accessorFile"`
		AccessorEnum    string `env:"LOCSYNC_ACCESSOR_ENUM" yaml:"accessorEnum"`
	} `yaml:"rewrite"`

	Terms struct {
		Dir       string `env:"LOCSYNC_TERMS_DIR" yaml:"dir"`
		MaxTokens int    `env:"LOCSYNC_MAX_TOKENS" yaml:"maxTokens"`
	} `yaml:"terms"`

	Log struct {
		Level   string   `env:"LOCSYNC_LOG_LEVEL" yaml:"logLevel"`
		Outputs []string `env:"LOCSYNC_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"LOCSYNC_LOG_FORMAT" yaml:"logFormat"`
	} `yaml:"log"`
}

// Flags carries command-line values. They take precedence over every other
// source; empty fields are ignored.
type Flags struct {
	ConfigFile string
	LogLevel   string
}

// LoadConfig loads the configuration from various sources.
func (cfg *Config) LoadConfig(flags Flags) error {
	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (--config)
	// 2. Environment variable (LOCSYNC_CONFIGFILE)
	// 3. Default path with fallback check
	switch {
	case flags.ConfigFile != "":
		cfg.ConfigFile = flags.ConfigFile
	case os.Getenv(configFileEnv) != "":
		cfg.ConfigFile = os.Getenv(configFileEnv)
	default:
		cfg.ConfigFile = defaultConfigFile

		if _, err := os.Stat(cfg.ConfigFile); os.IsNotExist(err) {
			if _, statErr := os.Stat(fallbackConfigFile); statErr == nil {
				cfg.ConfigFile = fallbackConfigFile
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(cfg.ConfigFile); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

// Path resolves p against the project root. Absolute paths are returned as is.
func (cfg *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(cfg.Project.Root, p)
}

// ContextRules returns the parsed Keys.ContextRules.
func (cfg *Config) ContextRules() []keygen.Rule {
	return cfg.Keys.rules
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
