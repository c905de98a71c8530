// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"codeberg.org/culina/locsync/core/extract"
)

// sourceFile is a source read and lexed during a scan.
type sourceFile struct {
	Path string // as found on disk
	Rel  string // slash-separated, relative to Options.Root
	Src  *extract.Source
}

// discover lists the source files below the configured directories in
// lexicographic order of their relative path.
func (p *Pipeline) discover(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)

	var files []string

	for _, dir := range p.opts.SourceDirs {
		err := filepath.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if err := ctx.Err(); err != nil {
				return err
			}

			if name != dir && p.excluded(name) {
				if d.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			if d.IsDir() || !slices.Contains(p.opts.Extensions, filepath.Ext(name)) {
				return nil
			}

			if !seen[name] {
				seen[name] = true
				files = append(files, name)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	}

	slices.SortFunc(files, func(a, b string) int {
		switch ra, rb := p.rel(a), p.rel(b); {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		default:
			return 0
		}
	})

	return files, nil
}

func (p *Pipeline) excluded(name string) bool {
	rel, base := p.rel(name), filepath.Base(name)

	for _, pattern := range p.opts.Exclude {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}

		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}

	return false
}

// rel returns name relative to the root, slash-separated.
func (p *Pipeline) rel(name string) string {
	r, err := filepath.Rel(p.opts.Root, name)
	if err != nil {
		return filepath.ToSlash(name)
	}

	return filepath.ToSlash(r)
}

// scan reads and lexes every source file concurrently. The result keeps the
// discovery order, so later stages do not depend on scheduling. Unreadable
// files are reported and left out.
func (p *Pipeline) scan(ctx context.Context, rep *Report) ([]sourceFile, error) {
	names, err := p.discover(ctx)
	if err != nil {
		return nil, err
	}

	read := make([]sourceFile, len(names))
	errs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)

	workers := p.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g.SetLimit(workers)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(name) // #nosec G304 -- source paths come from configuration
			if err != nil {
				errs[i] = fmt.Errorf("failed to read source: %w", err)

				return nil
			}

			read[i] = sourceFile{Path: name, Rel: p.rel(name), Src: extract.Parse(data)}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]sourceFile, 0, len(read))

	for i, f := range read {
		if errs[i] != nil {
			p.fail(rep, errs[i])

			continue
		}

		rep.Bytes += len(f.Src.Bytes)
		out = append(out, f)
	}

	rep.FilesScanned = len(out)

	return out, nil
}
