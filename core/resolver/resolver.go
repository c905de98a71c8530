// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package resolver replaces placeholder entries of a target catalog with
// confirmed translations from a term dictionary.
package resolver

import (
	"strings"

	"codeberg.org/culina/locsync/core/catalog"
)

// DefaultMaxTokens is the longest phrase, in whitespace-separated tokens,
// that may be translated token by token.
const DefaultMaxTokens = 3

// Dictionary maps a base-language phrase to its translation.
type Dictionary interface {
	Lookup(phrase string) (string, bool)
}

// Map is a Dictionary backed by a Go map.
type Map map[string]string

// Lookup implements Dictionary.
func (m Map) Lookup(phrase string) (string, bool) {
	v, ok := m[phrase]

	return v, ok
}

// Result describes one resolution pass.
type Result struct {
	Locale string `json:"locale"`

	// Resolved lists the keys whose placeholder was replaced.
	Resolved []string `json:"resolved,omitempty"`

	// Unresolved lists the keys still carrying the marker.
	Unresolved []string `json:"unresolved,omitempty"`
}

// Resolver translates placeholders.
type Resolver struct {
	maxTokens int
}

// New returns a Resolver. A non-positive maxTokens uses DefaultMaxTokens.
func New(maxTokens int) *Resolver {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &Resolver{maxTokens: maxTokens}
}

// Resolve uses a Resolver with default settings.
func Resolve(target *catalog.Catalog, dict Dictionary, marker catalog.Marker) (*catalog.Catalog, Result) {
	return New(DefaultMaxTokens).Resolve(target, dict, marker)
}

// Resolve returns a copy of target in which placeholders are replaced where
// dict allows it.
//
// A placeholder is resolved by an exact dictionary entry for its text, or,
// for short phrases, by translating every token and joining the results with
// single spaces. Anything else is left as it is. Confirmed values are never
// changed.
func (r *Resolver) Resolve(target *catalog.Catalog, dict Dictionary, marker catalog.Marker) (*catalog.Catalog, Result) {
	out := target.Clone()
	res := Result{Locale: target.Locale}

	for _, key := range marker.Placeholders(target) {
		value, _ := target.Get(key)
		text, _ := marker.Strip(value)

		translated, ok := r.translate(text, dict, marker)
		if !ok {
			res.Unresolved = append(res.Unresolved, key)

			continue
		}

		out.Set(key, translated)
		res.Resolved = append(res.Resolved, key)
	}

	return out, res
}

func (r *Resolver) translate(text string, dict Dictionary, marker catalog.Marker) (string, bool) {
	if v, ok := lookup(dict, text, marker); ok {
		return v, true
	}

	tokens := strings.Fields(text)
	if len(tokens) == 0 || len(tokens) > r.maxTokens {
		return "", false
	}

	parts := make([]string, 0, len(tokens))

	for _, tok := range tokens {
		v, ok := lookup(dict, tok, marker)
		if !ok {
			return "", false
		}

		parts = append(parts, v)
	}

	return strings.Join(parts, " "), true
}

// lookup treats empty entries and entries carrying the marker as missing, so
// a resolved value can never look like a placeholder.
func lookup(dict Dictionary, phrase string, marker catalog.Marker) (string, bool) {
	if dict == nil {
		return "", false
	}

	v, ok := dict.Lookup(phrase)
	if !ok || strings.TrimSpace(v) == "" || marker.Contains(v) {
		return "", false
	}

	return v, true
}
