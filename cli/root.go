// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package cli defines the locsync command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/culina/locsync/config"
	"codeberg.org/culina/locsync/core/catalog"
	"codeberg.org/culina/locsync/core/idgen"
	"codeberg.org/culina/locsync/pipeline"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	flags  config.Flags
	json   bool
	dryRun bool
	output string

	cfg config.Config
}

// Execute runs the command named by os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout).ExecuteContext(ctx)
}

// NewRootCommand returns the locsync command tree. Reports go to stdout.
func NewRootCommand(stdout io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "locsync",
		Short: "Extract UI strings into keyed catalogs and keep translations in sync",
		Long: `locsync finds natural-language string literals in application source,
replaces them with references to stable keys, and keeps per-locale catalogs
consistent with the base-language catalog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := a.cfg.LoadConfig(a.flags); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			return nil
		},
	}

	root.SetOut(stdout)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigFile, "config", "", "path to a locsync configuration file in YAML format (default ./locsync.yaml)")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&a.json, "json", false, "print the run report as JSON")

	extract := a.stageCommand(pipeline.CommandExtract, "List translatable literals without changing anything")
	extract.Flags().StringVarP(&a.output, "output", "o", "", "dump candidates to this file (.json, .yaml or - for stdout)")
	extract.RunE = a.runExtract

	root.AddCommand(
		extract,
		a.mutatingCommand(pipeline.CommandApply, "Key new literals, extend the base catalog and rewrite sources"),
		a.mutatingCommand(pipeline.CommandSync, "Add missing base keys to every target catalog as placeholders"),
		a.mutatingCommand(pipeline.CommandResolve, "Translate placeholders from the term dictionaries"),
		a.stageCommand(pipeline.CommandCheck, "Fail when a target catalog lacks base keys"),
		a.mutatingCommand(pipeline.CommandRun, "Run apply, sync and resolve"),
		newVersionCommand(),
	)

	return root
}

func (a *app) stageCommand(cmd pipeline.Command, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(cmd),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.runStage(c, cmd)
		},
	}
}

func (a *app) mutatingCommand(cmd pipeline.Command, short string) *cobra.Command {
	c := a.stageCommand(cmd, short)
	c.Flags().BoolVarP(&a.dryRun, "dry-run", "n", false, "compute every change without writing files")

	return c
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No configuration is needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintln(c.OutOrStdout(), "locsync", config.Version())
		},
	}
}

// newPipeline builds the pipeline of this invocation and bounds ctx by the
// configured timeout.
func (a *app) newPipeline(ctx context.Context) (*pipeline.Pipeline, context.Context, context.CancelFunc) {
	opts := pipeline.FromConfig(&a.cfg)
	opts.DryRun = a.dryRun

	cancel := context.CancelFunc(func() {})
	if a.cfg.Project.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Project.Timeout)
	}

	return pipeline.New(opts, idgen.Make()), ctx, cancel
}

func (a *app) runStage(c *cobra.Command, cmd pipeline.Command) error {
	p, ctx, cancel := a.newPipeline(c.Context())
	defer cancel()

	rep, err := p.Execute(ctx, cmd)

	return errors.Join(err, a.report(c, rep))
}

func (a *app) runExtract(c *cobra.Command, _ []string) error {
	p, ctx, cancel := a.newPipeline(c.Context())
	defer cancel()

	rep := p.NewReport(pipeline.CommandExtract)

	entries, err := p.Extract(ctx, rep)
	err = errors.Join(err, p.Err())

	switch a.output {
	case "":
	case "-":
		// The dump replaces the report to keep stdout parseable.
		return errors.Join(err, pipeline.EncodeEntries(c.OutOrStdout(), catalog.JSON, entries))
	default:
		if dumpErr := pipeline.DumpEntries(a.output, entries); dumpErr != nil {
			return errors.Join(err, dumpErr)
		}
	}

	return errors.Join(err, a.report(c, rep))
}

func (a *app) report(c *cobra.Command, rep *pipeline.Report) error {
	if a.json {
		return rep.WriteJSON(c.OutOrStdout())
	}

	return rep.WriteText(c.OutOrStdout())
}
