// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// readEnv overrides cfg with the LOCSYNC_* environment variables that are set.
// Unset variables leave the current value in place.
func readEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	return nil
}

// useDotEnv loads environment variables from a .env file, checking
// the current working directory, then the directory of the binary.
//
// Variables already set in the environment are kept. This function soft
// fails if the .env file doesn't exist in either location.
func useDotEnv() error {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn().
			Err(err).
			Msg("Could not get current working directory")
	} else {
		envPath := filepath.Join(cwd, ".env")

		loaded, err := tryLoadDotEnv(envPath)
		if err != nil {
			return err
		}

		if loaded {
			return nil
		}
	}

	// Fallback: Determine directory of the running binary
	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}

	_, err = tryLoadDotEnv(filepath.Join(dir, ".env"))

	return err
}

// tryLoadDotEnv loads the .env file at envPath. A missing file is not an
// error; malformed content is.
func tryLoadDotEnv(envPath string) (bool, error) {
	err := godotenv.Load(envPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().
			Str("path", envPath).
			Msg("No .env file found, skipping")

		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	log.Debug().
		Str("path", envPath).
		Msg("Loaded configuration from .env file")

	return true, nil
}
