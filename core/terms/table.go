// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package terms

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Table is an in-memory phrase to translation mapping.
type Table struct {
	entries map[string]string
}

// NewTable returns a Table holding a copy of m.
func NewTable(m map[string]string) *Table {
	return &Table{entries: maps.Clone(m)}
}

// Lookup returns the translation of phrase.
func (t *Table) Lookup(phrase string) (string, bool) {
	v, ok := t.entries[phrase]

	return v, ok
}

// Len returns the number of phrases.
func (t *Table) Len() int {
	return len(t.entries)
}

// Phrases returns every phrase in lexicographic order.
func (t *Table) Phrases() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

func loadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- dictionary paths come from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read term dictionary: %w", err)
	}

	var doc map[string]any

	switch filepath.Ext(path) {
	case ".po":
		return loadPO(path, data), nil
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		// JSON documents are valid YAML.
		err = yaml.Unmarshal(data, &doc)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}

	entries, err := flatten(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Table{entries: entries}, nil
}

// flatten accepts either a plain phrase mapping or the versioned form
//
//	version: 1
//	terms:
//	  Speichern: Save
func flatten(doc map[string]any) (map[string]string, error) {
	if nested, ok := doc["terms"].(map[string]any); ok {
		if _, versioned := doc["version"]; versioned {
			doc = nested
		}
	}

	out := make(map[string]string, len(doc))

	for phrase, v := range doc {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: translation of %q is %T, want string", ErrMalformed, phrase, v)
		}

		out[phrase] = s
	}

	return out, nil
}
