// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package terms loads the per-locale term dictionaries used to resolve
// placeholders.
//
// A dictionary directory holds one main file per locale and any number of
// fragments:
//
//	<dir>/<locale>.<ext>
//	<dir>/<locale>.<name>.<ext>
//
// where ext is one of yaml, yml, json, toml or po. The locale part may use
// hyphens or underscores, for example "pt-BR.yaml" or "pt_BR.yaml". Main
// files come first, then fragments in file name order; the first definition
// of a phrase wins.
package terms

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

var (
	// ErrNoDictionary is returned when a locale has no dictionary file.
	ErrNoDictionary = errors.New("no term dictionary")

	// ErrMalformed is returned for dictionary files that are not a flat
	// phrase to translation mapping.
	ErrMalformed = errors.New("malformed term dictionary")
)

// extensions lists the supported file extensions in main file precedence order.
var extensions = []string{".yaml", ".yml", ".json", ".toml", ".po"}

// Dictionary is the merged view of every dictionary file of a locale.
type Dictionary struct {
	Locale string

	files  []string
	tables []*Table
}

// Lookup returns the translation of phrase from the first file defining it.
func (d *Dictionary) Lookup(phrase string) (string, bool) {
	for _, t := range d.tables {
		if v, ok := t.Lookup(phrase); ok {
			return v, true
		}
	}

	return "", false
}

// Files returns the loaded file names in precedence order.
func (d *Dictionary) Files() []string {
	return slices.Clone(d.files)
}

// Load reads every dictionary file of locale from dir.
//
// It returns an error wrapping ErrNoDictionary if there is none, and one
// wrapping ErrMalformed if a file cannot be decoded.
func Load(dir, locale string) (*Dictionary, error) {
	logger := log.With().Str("sys", "terms").Str("locale", locale).Logger()

	files, err := discover(dir, locale)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w for %s in %s", ErrNoDictionary, locale, dir)
	}

	d := &Dictionary{Locale: locale}

	for _, name := range files {
		t, err := loadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		reportConflicts(logger, d, t, name)

		d.files = append(d.files, name)
		d.tables = append(d.tables, t)

		logger.Debug().Str("file", name).Int("phrases", t.Len()).Msg("Loaded term dictionary")
	}

	return d, nil
}

// LoadOrEmpty is Load, returning an empty dictionary when locale has none.
func LoadOrEmpty(dir, locale string) (*Dictionary, error) {
	d, err := Load(dir, locale)
	if errors.Is(err, ErrNoDictionary) {
		log.Warn().Str("sys", "terms").Str("locale", locale).Str("dir", dir).Msg("No term dictionary, using an empty one")

		return &Dictionary{Locale: locale}, nil
	}

	return d, err
}

func reportConflicts(logger zerolog.Logger, d *Dictionary, t *Table, name string) {
	for _, phrase := range t.Phrases() {
		prev, ok := d.Lookup(phrase)
		if !ok {
			continue
		}

		if next, _ := t.Lookup(phrase); next != prev {
			logger.Warn().
				Str("file", name).
				Str("phrase", phrase).
				Str("kept", prev).
				Str("ignored", next).
				Msg("Conflicting term definition")
		}
	}
}

// discover returns the dictionary files of locale: main files in extension
// order, then fragments sorted by name.
func discover(dir, locale string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read term directory: %w", err)
	}

	want := canonical(locale)

	var main, fragments []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := filepath.Ext(name)

		if !slices.Contains(extensions, ext) {
			continue
		}

		stem := strings.TrimSuffix(name, ext)
		prefix, fragment, isFragment := strings.Cut(stem, ".")

		if canonical(prefix) != want {
			continue
		}

		if isFragment && fragment != "" {
			fragments = append(fragments, name)
		} else {
			main = append(main, name)
		}
	}

	slices.SortFunc(main, func(a, b string) int {
		return slices.Index(extensions, filepath.Ext(a)) - slices.Index(extensions, filepath.Ext(b))
	})
	slices.Sort(fragments)

	return append(main, fragments...), nil
}

// canonical returns the BCP 47 form of a locale name, or the name itself
// when it does not parse.
func canonical(locale string) string {
	t, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return locale
	}

	return t.String()
}
