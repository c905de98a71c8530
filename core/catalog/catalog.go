// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package catalog loads and persists per-locale translation catalogs.
package catalog

import (
	"maps"
	"slices"
)

// Catalog is the key to text mapping of a single locale.
//
// Keys are unique. Iteration through Keys is always in lexicographic order so
// that persisted output and reports are deterministic.
type Catalog struct {
	Locale  string
	entries map[string]string
}

// New returns an empty catalog for locale.
func New(locale string) *Catalog {
	return &Catalog{Locale: locale, entries: make(map[string]string)}
}

// FromMap returns a catalog holding a copy of m.
func FromMap(locale string, m map[string]string) *Catalog {
	c := New(locale)
	maps.Copy(c.entries, m)

	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get returns the text stored under key.
func (c *Catalog) Get(key string) (string, bool) {
	v, ok := c.entries[key]

	return v, ok
}

// Has reports whether key is present.
func (c *Catalog) Has(key string) bool {
	_, ok := c.entries[key]

	return ok
}

// Set stores text under key, replacing any previous value.
func (c *Catalog) Set(key, text string) {
	c.entries[key] = text
}

// Keys returns all keys in lexicographic order.
func (c *Catalog) Keys() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Map returns a copy of the underlying mapping.
func (c *Catalog) Map() map[string]string {
	return maps.Clone(c.entries)
}

// Clone returns a deep copy of c.
func (c *Catalog) Clone() *Catalog {
	return FromMap(c.Locale, c.entries)
}

// Equal reports whether c and other hold the same key to text mapping.
// The locale is not compared.
func (c *Catalog) Equal(other *Catalog) bool {
	if other == nil {
		return false
	}

	return maps.Equal(c.entries, other.entries)
}
