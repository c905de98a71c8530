// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "strings"

// Marker is the reserved prefix that flags a catalog value as a placeholder:
// text copied verbatim from the base locale and still waiting for a translation.
type Marker string

// MarkerFor returns the default marker for a base locale, for example "[DE] " for "de".
func MarkerFor(baseLocale string) Marker {
	return Marker("[" + strings.ToUpper(baseLocale) + "] ")
}

// Mark prefixes text with the marker.
func (m Marker) Mark(text string) string {
	return string(m) + text
}

// IsPlaceholder reports whether value carries the marker.
func (m Marker) IsPlaceholder(value string) bool {
	return m != "" && strings.HasPrefix(value, string(m))
}

// Strip returns value without the marker and whether the marker was present.
func (m Marker) Strip(value string) (string, bool) {
	if !m.IsPlaceholder(value) {
		return value, false
	}

	return strings.TrimPrefix(value, string(m)), true
}

// Contains reports whether the marker appears anywhere in s.
// Confirmed translations must never contain it.
func (m Marker) Contains(s string) bool {
	return m != "" && strings.Contains(s, strings.TrimSpace(string(m)))
}

// Placeholders returns the keys of c whose values carry the marker, in key order.
func (m Marker) Placeholders(c *Catalog) []string {
	var keys []string

	for _, k := range c.Keys() {
		if v, _ := c.Get(k); m.IsPlaceholder(v) {
			keys = append(keys, k)
		}
	}

	return keys
}
