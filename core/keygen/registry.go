// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package keygen

import (
	"iter"
	"maps"
	"slices"
	"sync"
)

// Registry tracks which key is bound to which text during a run.
//
// It is seeded from the base catalog and only ever grows. A Registry is safe
// for concurrent use.
type Registry struct {
	mu    sync.Mutex
	keys  map[string]string
	added []string
}

// NewRegistry returns a registry holding a copy of seed.
func NewRegistry(seed map[string]string) *Registry {
	keys := make(map[string]string, len(seed))
	maps.Copy(keys, seed)

	return &Registry{keys: keys}
}

// Lookup returns the text bound to key.
func (r *Registry) Lookup(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	text, ok := r.keys[key]

	return text, ok
}

// Len returns the number of bound keys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.keys)
}

// Added returns the keys bound since the registry was created, in binding order.
func (r *Registry) Added() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.added)
}

// claim walks candidates in order and returns the first key that is free or
// already bound to text, binding it if needed.
func (r *Registry) claim(text string, candidates iter.Seq[string]) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var chosen string

	for key := range candidates {
		bound, ok := r.keys[key]
		if !ok {
			r.keys[key] = text
			r.added = append(r.added, key)
			chosen = key

			break
		}

		if bound == text {
			chosen = key

			break
		}
	}

	return chosen
}
