// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package syncer converges target catalogs onto the key set of the base catalog.
package syncer

import (
	"codeberg.org/culina/locsync/core/catalog"
)

// Result describes one synchronization.
type Result struct {
	Locale string `json:"locale"`

	// Added lists the keys inserted as placeholders, in key order.
	Added []string `json:"added,omitempty"`

	// Orphaned lists keys present in the target only. They are kept.
	Orphaned []string `json:"orphaned,omitempty"`
}

// Sync returns a copy of target holding every key of base. Missing keys get
// the base text prefixed with marker. Existing values are never touched and
// nothing is removed, so syncing an already synced catalog changes nothing.
func Sync(base, target *catalog.Catalog, marker catalog.Marker) (*catalog.Catalog, Result) {
	out := target.Clone()
	res := Result{Locale: target.Locale}

	for _, key := range base.Keys() {
		if out.Has(key) {
			continue
		}

		text, _ := base.Get(key)
		out.Set(key, marker.Mark(text))
		res.Added = append(res.Added, key)
	}

	for _, key := range target.Keys() {
		if !base.Has(key) {
			res.Orphaned = append(res.Orphaned, key)
		}
	}

	return out, res
}

// Drift describes how far a target catalog is from the base catalog.
type Drift struct {
	Locale string `json:"locale"`

	// Missing lists base keys absent from the target.
	Missing []string `json:"missing,omitempty"`

	Orphaned     []string `json:"orphaned,omitempty"`
	Placeholders []string `json:"placeholders,omitempty"`
}

// Consistent reports whether the target holds every base key.
func (d Drift) Consistent() bool {
	return len(d.Missing) == 0
}

// Check compares target against base without modifying either.
func Check(base, target *catalog.Catalog, marker catalog.Marker) Drift {
	_, res := Sync(base, target, marker)

	return Drift{
		Locale:       target.Locale,
		Missing:      res.Added,
		Orphaned:     res.Orphaned,
		Placeholders: marker.Placeholders(target),
	}
}
