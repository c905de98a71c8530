// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"codeberg.org/culina/locsync/config"
	"codeberg.org/culina/locsync/core/catalog"
	"codeberg.org/culina/locsync/core/classify"
	"codeberg.org/culina/locsync/core/extract"
	"codeberg.org/culina/locsync/core/keygen"
)

// Options configures a Pipeline. Paths are used as given.
type Options struct {
	// Root is the directory source paths are reported relative to.
	Root       string
	SourceDirs []string
	Extensions []string
	Exclude    []string
	Workers    int

	CatalogDir string
	Format     catalog.Format
	BaseLocale string
	Locales    []string
	Marker     catalog.Marker

	Classify classify.Options
	Keys     keygen.Options

	ReferenceFormat extract.ReferenceFormat
	// AccessorFile is the source declaring AccessorEnum. Empty disables
	// accessor updates.
	AccessorFile string
	AccessorEnum string

	TermsDir  string
	MaxTokens int

	// DryRun computes every change without writing any file.
	DryRun bool
}

// FromConfig maps a loaded configuration onto Options, resolving paths
// against the project root.
func FromConfig(cfg *config.Config) Options {
	opts := Options{
		Root:       cfg.Project.Root,
		Extensions: cfg.Project.Extensions,
		Exclude:    cfg.Project.Exclude,
		Workers:    cfg.Project.Workers,

		CatalogDir: cfg.Path(cfg.Catalog.Dir),
		Format:     cfg.Catalog.Format,
		BaseLocale: cfg.Catalog.BaseLocale,
		Locales:    cfg.Catalog.Locales,
		Marker:     catalog.Marker(cfg.Catalog.Marker),

		ReferenceFormat: extract.ReferenceFormat(cfg.Rewrite.ReferenceFormat),
		AccessorFile:    cfg.Path(cfg.Rewrite.AccessorFile),
		AccessorEnum:    cfg.Rewrite.AccessorEnum,

		TermsDir:  cfg.Path(cfg.Terms.Dir),
		MaxTokens: cfg.Terms.MaxTokens,
	}

	for _, dir := range cfg.Project.SourceDirs {
		opts.SourceDirs = append(opts.SourceDirs, cfg.Path(dir))
	}

	opts.Classify = classify.DefaultOptions(cfg.Catalog.BaseLocale)
	opts.Classify.Profile = opts.Classify.Profile.Override(cfg.Classify.Diacritics, cfg.Classify.FunctionWords)
	opts.Classify.ReferencePrefixes = cfg.Classify.ReferencePrefixes
	opts.Classify.Permissive = cfg.Classify.Permissive
	opts.Classify.PermissiveLength = cfg.Classify.PermissiveLength
	opts.Classify.MinLength = cfg.Classify.MinLength

	opts.Keys = keygen.Options{
		Rules:         cfg.ContextRules(),
		DefaultTag:    cfg.Keys.DefaultTag,
		MaxSlugLength: cfg.Keys.MaxSlugLength,
		MaxWords:      cfg.Keys.MaxWords,
	}

	return opts
}
