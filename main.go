// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
locsync extracts natural-language string literals from application source
into keyed translation catalogs and keeps the catalogs of every locale in sync.
*/
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"codeberg.org/culina/locsync/cli"
	"codeberg.org/culina/locsync/core/audit"
)

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("locsync failed")
	}
}

// run executes the command line, cancelling on SIGINT and SIGTERM.
func run() error {
	audit.SetDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx)
}
