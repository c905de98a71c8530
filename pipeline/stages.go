// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"codeberg.org/culina/locsync/core/accessor"
	"codeberg.org/culina/locsync/core/catalog"
	"codeberg.org/culina/locsync/core/extract"
	"codeberg.org/culina/locsync/core/keygen"
	"codeberg.org/culina/locsync/core/syncer"
	"codeberg.org/culina/locsync/core/terms"
)

// Entry is an extracted candidate with the key it would be given.
type Entry struct {
	extract.Candidate `yaml:",inline"`

	// Key is empty for interpolated candidates, which are never rewritten.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
}

// Extract lists the candidates of every source file without writing
// anything. Keys are proposed against the current base catalog.
func (p *Pipeline) Extract(ctx context.Context, rep *Report) ([]Entry, error) {
	var entries []Entry

	err := p.stage(ctx, "extract", rep, func(ctx context.Context) error {
		files, err := p.scan(ctx, rep)
		if err != nil {
			return err
		}

		base, _, err := p.store.LoadOrNew(p.opts.BaseLocale)
		if err != nil {
			p.fail(rep, err)

			base = catalog.New(p.opts.BaseLocale)
		}

		reg := keygen.NewRegistry(base.Map())

		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}

			res := p.extractor.ExtractSource(f.Rel, f.Src)
			p.count(rep, res)

			for _, c := range res.Candidates {
				e := Entry{Candidate: c}
				if !c.Interpolated {
					e.Key = p.synth.Synthesize(c.Text, hint(f), reg)
				}

				entries = append(entries, e)
			}
		}

		rep.KeysAdded = reg.Added()

		p.logger.Info().
			Int("candidates", len(entries)).
			Int("keys", reg.Len()).
			Int("new", len(rep.KeysAdded)).
			Msg("Candidates extracted")

		return nil
	})

	return entries, err
}

// rewrite is a source file with its literals replaced.
type rewrite struct {
	file sourceFile
	out  []byte
}

// Apply extracts candidates, gives each a key, adds new keys to the base
// catalog and replaces the literals by references.
//
// Files are written in dependency order: the base catalog, then the accessor
// file, then the sources. A failure to persist the base catalog stops the
// stage before any source is touched.
func (p *Pipeline) Apply(ctx context.Context, rep *Report) error {
	return p.stage(ctx, "apply", rep, func(ctx context.Context) error {
		base, err := p.loadBase(false)
		if err != nil {
			return err
		}

		files, err := p.scan(ctx, rep)
		if err != nil {
			return err
		}

		base = base.Clone()
		reg := keygen.NewRegistry(base.Map())
		used := make(map[string]bool)

		var pending []rewrite

		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}

			res := p.extractor.ExtractSource(f.Rel, f.Src)
			p.count(rep, res)

			for _, c := range res.Candidates {
				if c.Interpolated {
					p.logger.Info().
						Str("file", f.Rel).
						Int("line", c.Line).
						Str("text", c.Text).
						Msg("Interpolated literal left in place")
				}
			}

			cands := res.Rewritable()

			out, err := p.rewriteFile(f, cands, reg, base, used)
			if err != nil {
				p.fail(rep, fmt.Errorf("%s: %w", f.Rel, err))

				continue
			}

			if out == nil {
				continue
			}

			rep.Rewritten += len(cands)
			pending = append(pending, rewrite{file: f, out: out})
		}

		// Keys of files that failed to rewrite were never committed.
		for _, key := range reg.Added() {
			if base.Has(key) {
				rep.KeysAdded = append(rep.KeysAdded, key)
			}
		}

		p.base = base

		if _, err := p.saveCatalog(rep, base); err != nil {
			return fmt.Errorf("failed to save base catalog: %w", err)
		}

		p.logger.Info().
			Int("keys", base.Len()).
			Int("added", len(rep.KeysAdded)).
			Msg("Base catalog updated")

		handled := p.updateAccessor(rep, slices.Sorted(maps.Keys(used)), pending)

		for _, rw := range pending {
			if rw.file.Path == handled {
				continue
			}

			if err := p.writeSource(rep, rw.file.Path, rw.out); err != nil {
				p.fail(rep, fmt.Errorf("%s: %w", rw.file.Rel, err))
			}
		}

		return nil
	})
}

// rewriteFile keys cands and returns f's source with every literal replaced
// by its reference, or nil when there is nothing to replace. The keys are
// committed to base and used only once the replacement succeeded.
func (p *Pipeline) rewriteFile(
	f sourceFile,
	cands []extract.Candidate,
	reg *keygen.Registry,
	base *catalog.Catalog,
	used map[string]bool,
) ([]byte, error) {
	if len(cands) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(cands))
	repls := make([]extract.Replacement, 0, len(cands))

	for _, c := range cands {
		key := p.synth.Synthesize(c.Text, hint(f), reg)
		keys = append(keys, key)

		repls = append(repls, extract.Replacement{
			Span: c.Span,
			Text: p.opts.ReferenceFormat.Render(key, keygen.Accessor(key)),
		})
	}

	out, err := extract.Apply(f.Src.Bytes, repls)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		text, _ := reg.Lookup(key)
		base.Set(key, text)
		used[key] = true
	}

	return out, nil
}

// updateAccessor declares keys in the accessor enum and returns the path it
// wrote, if any. When the accessor file is itself being rewritten, both
// changes go into a single write.
func (p *Pipeline) updateAccessor(rep *Report, keys []string, pending []rewrite) string {
	path := p.opts.AccessorFile
	if path == "" || len(keys) == 0 {
		return ""
	}

	var original, src []byte

	for _, rw := range pending {
		if rw.file.Path == path {
			original, src = rw.file.Src.Bytes, rw.out
		}
	}

	if src == nil {
		data, err := os.ReadFile(path) // #nosec G304 -- accessor path comes from configuration
		if err != nil {
			p.fail(rep, fmt.Errorf("failed to read accessor file: %w", err))

			return ""
		}

		original, src = data, data
	}

	out, added, err := accessor.Insert(src, p.opts.AccessorEnum, keys)
	if err != nil {
		p.fail(rep, fmt.Errorf("%s: %w", p.rel(path), err))

		return ""
	}

	rep.AccessorsAdded = added

	if bytes.Equal(out, original) {
		return path
	}

	if err := p.writeSource(rep, path, out); err != nil {
		p.fail(rep, fmt.Errorf("%s: %w", p.rel(path), err))

		return ""
	}

	p.logger.Info().
		Str("file", p.rel(path)).
		Int("added", len(added)).
		Msg("Accessors declared")

	return path
}

// Sync adds every base key missing from a target catalog as a placeholder.
func (p *Pipeline) Sync(ctx context.Context, rep *Report) error {
	return p.stage(ctx, "sync", rep, func(ctx context.Context) error {
		base, err := p.loadBase(true)
		if err != nil {
			return err
		}

		for _, locale := range p.opts.Locales {
			if err := ctx.Err(); err != nil {
				return err
			}

			lr := rep.Locale(locale)

			if !p.store.Exists(locale) {
				p.logger.Info().Str("locale", locale).Msg("No catalog yet, starting from an empty one")
			}

			target, err := p.loadTarget(locale, false)
			if err != nil {
				p.failLocale(rep, locale, err)

				continue
			}

			out, res := syncer.Sync(base, target, p.opts.Marker)

			lr.Added += len(res.Added)
			lr.Orphaned = len(res.Orphaned)
			lr.Placeholders = len(p.opts.Marker.Placeholders(out))

			for _, key := range res.Orphaned {
				p.logger.Debug().Str("locale", locale).Str("key", key).Msg("Orphaned key kept")
			}

			p.targets[locale] = out

			written, err := p.saveCatalog(rep, out)
			if err != nil {
				p.failLocale(rep, locale, err)

				continue
			}

			lr.Written = lr.Written || written

			p.logger.Info().
				Str("locale", locale).
				Int("added", len(res.Added)).
				Int("orphaned", len(res.Orphaned)).
				Msg("Catalog synchronized")
		}

		return nil
	})
}

// Resolve replaces placeholders with translations from the term dictionaries.
func (p *Pipeline) Resolve(ctx context.Context, rep *Report) error {
	return p.stage(ctx, "resolve", rep, func(ctx context.Context) error {
		if _, err := p.loadBase(true); err != nil {
			return err
		}

		for _, locale := range p.opts.Locales {
			if err := ctx.Err(); err != nil {
				return err
			}

			lr := rep.Locale(locale)

			target, err := p.loadTarget(locale, true)
			if err != nil {
				p.failLocale(rep, locale, err)

				continue
			}

			dict, err := terms.LoadOrEmpty(p.opts.TermsDir, locale)
			if err != nil {
				p.failLocale(rep, locale, err)

				continue
			}

			p.logger.Debug().
				Str("locale", locale).
				Strs("dictionaries", dict.Files()).
				Msg("Term dictionaries loaded")

			out, res := p.resolver.Resolve(target, dict, p.opts.Marker)

			lr.Resolved += len(res.Resolved)
			lr.Unresolved = len(res.Unresolved)
			lr.Placeholders = len(p.opts.Marker.Placeholders(out))

			p.targets[locale] = out

			written, err := p.saveCatalog(rep, out)
			if err != nil {
				p.failLocale(rep, locale, err)

				continue
			}

			lr.Written = lr.Written || written

			p.logger.Info().
				Str("locale", locale).
				Int("resolved", len(res.Resolved)).
				Int("unresolved", len(res.Unresolved)).
				Msg("Placeholders resolved")
		}

		return nil
	})
}

// Check verifies that every target catalog holds every base key. It writes
// nothing and fails with ErrDrift when a target falls short.
func (p *Pipeline) Check(ctx context.Context, rep *Report) error {
	return p.stage(ctx, "check", rep, func(ctx context.Context) error {
		base, err := p.loadBase(true)
		if err != nil {
			return err
		}

		var drifted []string

		for _, locale := range p.opts.Locales {
			if err := ctx.Err(); err != nil {
				return err
			}

			lr := rep.Locale(locale)

			target, err := p.loadTarget(locale, false)
			if err != nil {
				p.failLocale(rep, locale, err)

				continue
			}

			drift := syncer.Check(base, target, p.opts.Marker)

			lr.Missing = len(drift.Missing)
			lr.Orphaned = len(drift.Orphaned)
			lr.Placeholders = len(drift.Placeholders)

			for _, key := range drift.Missing {
				p.logger.Debug().Str("locale", locale).Str("key", key).Msg("Key missing")
			}

			if !drift.Consistent() {
				drifted = append(drifted, locale)
			}
		}

		if len(drifted) > 0 {
			return fmt.Errorf("%w: %s", ErrDrift, strings.Join(drifted, ", "))
		}

		return nil
	})
}
