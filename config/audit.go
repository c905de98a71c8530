// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const logFilePermissions = 0o666

// setupAudit configures the global logger from cfg.Log.
func (cfg *Config) setupAudit() {
	switch cfg.Log.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
	}

	json := cfg.Log.Format == "json"
	writers := []io.Writer{}

	for _, output := range cfg.Log.Outputs {
		var file *os.File

		switch output {
		case "/dev/stdout":
			file = os.Stdout
		case "/dev/stderr":
			file = os.Stderr
		default:
			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec:G302,G304
			if err != nil {
				// If opening the file fails, we simply don't add it to the writers.
				fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", output, err)

				continue
			}

			file = f
		}

		if json {
			writers = append(writers, file)
		} else {
			writers = append(writers, ConsoleWriter(file))
		}
	}

	if len(writers) == 0 {
		writers = append(writers, ConsoleWriter(os.Stderr))
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))
}

// isTerminal returns true if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConsoleWriter returns a writer for zerolog that has NoColor:isTerminal(f).
func ConsoleWriter(f *os.File) io.Writer {
	noColor := !isTerminal(f)

	w := zerolog.ConsoleWriter{Out: f, NoColor: noColor, TimeFormat: time.DateTime}

	if !noColor {
		w.FormatPrepare = func(m map[string]any) error {
			// prefix pipeline logs with their stage
			if sys, ok := m["sys"]; ok && sys == "pipeline" {
				if stage, ok := m["stage"]; ok {
					m["message"] = fmt.Sprintf("[%s] %v", stage, m["message"])
					delete(m, "stage")
				}

				delete(m, "sys")
				delete(m, "run_id")
			}

			return nil
		}
	}

	return w
}
