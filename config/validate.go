// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/culina/locsync/core/catalog"
	"codeberg.org/culina/locsync/core/keygen"
)

// validation errors.
var (
	errInvalidLocale          = errors.New("invalid locale")
	errBaseLocaleIsTarget     = errors.New("catalog.locales must not contain the base locale")
	errInvalidCatalogFormat   = errors.New("catalog.format must be json or yaml")
	errEmptyCatalogDir        = errors.New("catalog.dir cannot be empty")
	errBlankMarker            = errors.New("catalog.marker cannot be blank")
	errNoSourceDirs           = errors.New("project.sourceDirs cannot be empty")
	errNoExtensions           = errors.New("project.extensions cannot be empty")
	errInvalidExcludePattern  = errors.New("invalid project.exclude pattern")
	errNegativeWorkers        = errors.New("project.workers cannot be negative")
	errNegativeTimeout        = errors.New("project.timeout cannot be negative")
	errInvalidLength          = errors.New("classify lengths must be positive")
	errInvalidSlugLength      = errors.New("keys.maxSlugLength must be between 35 and 40")
	errInvalidMaxWords        = errors.New("keys.maxWords must be positive")
	errInvalidTag             = errors.New("context tags must match [a-z0-9_]+")
	errInvalidContextRule     = errors.New("keys.contextRules entries must look like Match=tag")
	errInvalidReferenceFormat = errors.New("rewrite.referenceFormat must contain {accessor} or {key}")
	errInvalidAccessorEnum    = errors.New("rewrite.accessorEnum must be a Swift identifier")
	errInvalidMaxTokens       = errors.New("terms.maxTokens must be positive")
	errInvalidLogLevel        = errors.New("log.logLevel must be one of debug, info, warn, error")
	errInvalidLogFormat       = errors.New("log.logFormat must be console or json")
)

const (
	minSlugLength = 35
	maxSlugLength = 40
)

var (
	tagRegexp        = regexp.MustCompile(`^[a-z0-9_]+$`)
	identifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	if err := cfg.validateProject(); err != nil {
		return err
	}

	if err := cfg.validateCatalog(); err != nil {
		return err
	}

	if cfg.Classify.PermissiveLength < 1 || cfg.Classify.MinLength < 1 {
		return errInvalidLength
	}

	if err := cfg.validateKeys(); err != nil {
		return err
	}

	if !strings.Contains(cfg.Rewrite.ReferenceFormat, "{accessor}") &&
		!strings.Contains(cfg.Rewrite.ReferenceFormat, "{key}") {
		return errInvalidReferenceFormat
	}

	if !identifierRegexp.MatchString(cfg.Rewrite.AccessorEnum) {
		return fmt.Errorf("%w: %q", errInvalidAccessorEnum, cfg.Rewrite.AccessorEnum)
	}

	// Text already routed through the accessor enum is never extracted again.
	if len(cfg.Classify.ReferencePrefixes) == 0 {
		cfg.Classify.ReferencePrefixes = []string{cfg.Rewrite.AccessorEnum + ".", "$"}
	}

	if cfg.Terms.MaxTokens < 1 {
		return errInvalidMaxTokens
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("%w, got %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return fmt.Errorf("%w, got %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}

func (cfg *Config) validateProject() error {
	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}

	if len(cfg.Project.SourceDirs) == 0 {
		return errNoSourceDirs
	}

	if len(cfg.Project.Extensions) == 0 {
		return errNoExtensions
	}

	for i, ext := range cfg.Project.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Project.Extensions[i] = "." + ext
		}
	}

	for _, pattern := range cfg.Project.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w %q: %w", errInvalidExcludePattern, pattern, err)
		}
	}

	if cfg.Project.Workers < 0 {
		return errNegativeWorkers
	}

	if cfg.Project.Timeout < 0 {
		return errNegativeTimeout
	}

	return nil
}

func (cfg *Config) validateCatalog() error {
	if cfg.Catalog.Dir == "" {
		return errEmptyCatalogDir
	}

	cfg.Catalog.Format = catalog.Format(strings.ToLower(cfg.Catalog.RawFormat))
	if !cfg.Catalog.Format.Valid() {
		return fmt.Errorf("%w, got %q", errInvalidCatalogFormat, cfg.Catalog.RawFormat)
	}

	base, err := canonicalLocale(cfg.Catalog.BaseLocale)
	if err != nil {
		return err
	}

	cfg.Catalog.BaseLocale = base

	locales := make([]string, 0, len(cfg.Catalog.Locales))

	for _, raw := range cfg.Catalog.Locales {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		loc, err := canonicalLocale(raw)
		if err != nil {
			return err
		}

		if loc == base {
			return fmt.Errorf("%w: %s", errBaseLocaleIsTarget, loc)
		}

		if !slices.Contains(locales, loc) {
			locales = append(locales, loc)
		}
	}

	cfg.Catalog.Locales = locales

	if cfg.Catalog.Marker == "" {
		cfg.Catalog.Marker = string(catalog.MarkerFor(base))
	}

	if strings.TrimSpace(cfg.Catalog.Marker) == "" {
		return errBlankMarker
	}

	return nil
}

func (cfg *Config) validateKeys() error {
	if !tagRegexp.MatchString(cfg.Keys.DefaultTag) {
		return fmt.Errorf("%w, got %q", errInvalidTag, cfg.Keys.DefaultTag)
	}

	if cfg.Keys.MaxSlugLength < minSlugLength || cfg.Keys.MaxSlugLength > maxSlugLength {
		return errInvalidSlugLength
	}

	if cfg.Keys.MaxWords < 1 {
		return errInvalidMaxWords
	}

	cfg.Keys.rules = make([]keygen.Rule, 0, len(cfg.Keys.ContextRules))

	for _, raw := range cfg.Keys.ContextRules {
		match, tag, ok := strings.Cut(raw, "=")

		match, tag = strings.TrimSpace(match), strings.TrimSpace(tag)
		if !ok || match == "" {
			return fmt.Errorf("%w, got %q", errInvalidContextRule, raw)
		}

		if !tagRegexp.MatchString(tag) {
			return fmt.Errorf("%w, got %q", errInvalidTag, tag)
		}

		cfg.Keys.rules = append(cfg.Keys.rules, keygen.Rule{Match: match, Tag: tag})
	}

	return nil
}

// canonicalLocale validates raw as a BCP 47 tag and returns its canonical
// form. Surrounding space and underscore separators are accepted.
func canonicalLocale(raw string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", errInvalidLocale, raw, err)
	}

	return tag.String(), nil
}
