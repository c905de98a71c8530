// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package pipeline runs the locsync stages over a project: extraction, source
// rewriting, catalog synchronization, placeholder resolution and consistency
// checks.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"codeberg.org/culina/locsync/core/audit"
	"codeberg.org/culina/locsync/core/catalog"
	"codeberg.org/culina/locsync/core/classify"
	"codeberg.org/culina/locsync/core/extract"
	"codeberg.org/culina/locsync/core/keygen"
	"codeberg.org/culina/locsync/core/resolver"
)

var (
	// ErrBaseMissing is returned by stages that need an existing base catalog.
	ErrBaseMissing = errors.New("base catalog missing")

	// ErrDrift is returned by Check when a target lacks base keys.
	ErrDrift = errors.New("catalogs out of sync")

	ErrUnknownCommand = errors.New("unknown command")
)

// Command names a stage, or the run stage chaining apply, sync and resolve.
type Command string

// Commands.
const (
	CommandExtract Command = "extract"
	CommandApply   Command = "apply"
	CommandSync    Command = "sync"
	CommandResolve Command = "resolve"
	CommandCheck   Command = "check"
	CommandRun     Command = "run"
)

// Pipeline executes the stages of one run. Catalogs produced by a stage are
// kept in memory for the following stages, so a Pipeline must not be reused
// across runs.
type Pipeline struct {
	opts  Options
	runID string

	store     *catalog.Store
	extractor *extract.Extractor
	synth     *keygen.Synthesizer
	resolver  *resolver.Resolver
	logger    zerolog.Logger

	base    *catalog.Catalog
	targets map[string]*catalog.Catalog
	errs    []error
}

// New returns a Pipeline for the run runID.
func New(opts Options, runID string) *Pipeline {
	if opts.ReferenceFormat == "" {
		opts.ReferenceFormat = extract.DefaultReferenceFormat
	}

	if opts.AccessorFile != "" {
		opts.AccessorFile = filepath.Clean(opts.AccessorFile)
	}

	if opts.Marker == "" {
		opts.Marker = catalog.MarkerFor(opts.BaseLocale)
	}

	return &Pipeline{
		opts:      opts,
		runID:     runID,
		store:     catalog.NewStore(opts.CatalogDir, opts.Format),
		extractor: extract.New(classify.New(opts.Classify)),
		synth:     keygen.New(opts.Keys),
		resolver:  resolver.New(opts.MaxTokens),
		logger:    audit.Logger("pipeline", runID),
		targets:   make(map[string]*catalog.Catalog),
	}
}

// NewReport returns an empty report for cmd.
func (p *Pipeline) NewReport(cmd Command) *Report {
	return &Report{RunID: p.runID, Command: string(cmd), DryRun: p.opts.DryRun}
}

// Err joins the errors recorded so far that did not stop the run.
func (p *Pipeline) Err() error {
	return errors.Join(p.errs...)
}

// Execute runs cmd and returns its report. The error joins the error that
// stopped the run, if any, with every error recorded along the way.
func (p *Pipeline) Execute(ctx context.Context, cmd Command) (*Report, error) {
	rep := p.NewReport(cmd)

	var err error

	switch cmd {
	case CommandExtract:
		_, err = p.Extract(ctx, rep)
	case CommandApply:
		err = p.Apply(ctx, rep)
	case CommandSync:
		err = p.Sync(ctx, rep)
	case CommandResolve:
		err = p.Resolve(ctx, rep)
	case CommandCheck:
		err = p.Check(ctx, rep)
	case CommandRun:
		err = p.Run(ctx, rep)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	return rep, errors.Join(err, p.Err())
}

// Run chains Apply, Sync and Resolve, stopping at the first stage that fails.
func (p *Pipeline) Run(ctx context.Context, rep *Report) error {
	if err := p.Apply(ctx, rep); err != nil {
		return err
	}

	if err := p.Sync(ctx, rep); err != nil {
		return err
	}

	return p.Resolve(ctx, rep)
}

func (p *Pipeline) stage(ctx context.Context, name string, rep *Report, fn func(context.Context) error) error {
	span := audit.Span{Stage: name, RunID: p.runID}
	ctx = span.Begin(ctx)

	err := fn(ctx)

	span.End()
	rep.Elapsed += span.Duration()

	span.Files = rep.FilesScanned
	span.Bytes = rep.Bytes
	span.Error = err
	span.Log()

	return err
}

// fail records an error that does not stop the run.
func (p *Pipeline) fail(rep *Report, err error) {
	p.logger.Error().Err(err).Msg("Continuing after error")

	p.errs = append(p.errs, err)
	rep.Errors = append(rep.Errors, err.Error())
}

func (p *Pipeline) failLocale(rep *Report, locale string, err error) {
	rep.Locale(locale).Error = err.Error()

	p.fail(rep, fmt.Errorf("locale %s: %w", locale, err))
}

// loadBase returns the base catalog of this run. Unless required, a missing
// catalog is an empty one.
func (p *Pipeline) loadBase(required bool) (*catalog.Catalog, error) {
	if p.base != nil {
		return p.base, nil
	}

	c, err := p.store.Load(p.opts.BaseLocale)

	switch {
	case errors.Is(err, catalog.ErrNotFound) && !required:
		c = catalog.New(p.opts.BaseLocale)
	case errors.Is(err, catalog.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", ErrBaseMissing, err)
	case err != nil:
		return nil, err
	}

	p.base = c

	return c, nil
}

// loadTarget returns locale's catalog as left by earlier stages of this run.
// Unless required, a missing catalog is an empty one.
func (p *Pipeline) loadTarget(locale string, required bool) (*catalog.Catalog, error) {
	if c, ok := p.targets[locale]; ok {
		return c, nil
	}

	c, err := p.store.Load(locale)
	if errors.Is(err, catalog.ErrNotFound) && !required {
		c, err = catalog.New(locale), nil
	}

	if err != nil {
		return nil, err
	}

	p.targets[locale] = c

	return c, nil
}

// saveCatalog persists c and reports whether its file was written.
func (p *Pipeline) saveCatalog(rep *Report, c *catalog.Catalog) (bool, error) {
	path := p.store.Path(c.Locale)

	if p.opts.DryRun {
		data, err := p.store.Encode(c)
		if err != nil {
			return false, err
		}

		// #nosec G304 -- catalog paths come from configuration
		if existing, err := os.ReadFile(path); err != nil || !bytes.Equal(existing, data) {
			rep.modified(p.rel(path))
		}

		return false, nil
	}

	written, err := p.store.Save(c)
	if err != nil {
		return false, err
	}

	if written {
		rep.modified(p.rel(path))
	}

	return written, nil
}

// writeSource replaces a source file.
func (p *Pipeline) writeSource(rep *Report, path string, data []byte) error {
	if !p.opts.DryRun {
		if err := catalog.WriteFile(path, data); err != nil {
			return err
		}
	}

	rep.modified(p.rel(path))

	return nil
}

func (p *Pipeline) count(rep *Report, res *extract.Result) {
	res.LogRejected()

	rep.Candidates += len(res.Candidates)
	rep.Rejected += len(res.Rejected)

	for _, c := range res.Candidates {
		if c.Interpolated {
			rep.Interpolated++
		}
	}
}

// hint is the context hint of a source file: its base name.
func hint(f sourceFile) string {
	return strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
}
