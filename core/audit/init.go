// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package audit holds the logging helpers shared by every stage of a run.
package audit

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger provides an ok log output format on startup if no config is set.
func SetDefaultLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// Logger returns a child of the global logger tagged with sys and, when set,
// the run ID.
func Logger(sys, runID string) zerolog.Logger {
	ctx := log.With().Str("sys", sys)
	if runID != "" {
		ctx = ctx.Str("run_id", runID)
	}

	return ctx.Logger()
}
