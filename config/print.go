// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func (cfg *Config) print() {
	log.Debug().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("config", cfg.ConfigFile).
		Msg("Starting locsync")

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}

	configYAML, err := cfg.YAML()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().
		Msg("Effective configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}

// YAML returns the configuration as indented YAML.
func (cfg *Config) YAML() ([]byte, error) {
	out, err := yaml.MarshalWithOptions(
		cfg,
		GetDurationEncoderOption(),
		yaml.Indent(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}

	return out, nil
}
