// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

var (
	// ErrNotFound is returned when a locale has no catalog file.
	ErrNotFound = errors.New("catalog not found")

	// ErrMalformed is returned when a catalog file cannot be parsed as a flat string map.
	// A malformed catalog is never replaced by an empty one.
	ErrMalformed = errors.New("malformed catalog")
)

const dirPermissions = 0o755

// Store reads and writes the catalogs of one project, one file per locale:
//
//	<Dir>/<locale>.<format>
type Store struct {
	Dir    string
	Format Format
}

// NewStore returns a Store rooted at dir. An invalid format falls back to JSON.
func NewStore(dir string, format Format) *Store {
	if !format.Valid() {
		format = JSON
	}

	return &Store{Dir: dir, Format: format}
}

// Path returns the file path of locale's catalog.
func (s *Store) Path(locale string) string {
	return filepath.Join(s.Dir, locale+s.Format.Ext())
}

// Exists reports whether locale has a catalog file.
func (s *Store) Exists(locale string) bool {
	fi, err := os.Stat(s.Path(locale))

	return err == nil && !fi.IsDir()
}

// Load reads locale's catalog.
//
// It returns an error wrapping ErrNotFound if the file does not exist and
// ErrMalformed if it cannot be decoded.
func (s *Store) Load(locale string) (*Catalog, error) {
	path := s.Path(locale)

	data, err := os.ReadFile(path) // #nosec G304 -- catalog paths come from configuration
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformed, path)
	}

	m, err := codecFor(s.Format).decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	c := New(locale)
	c.entries = m

	return c, nil
}

// LoadOrNew reads locale's catalog, returning an empty catalog if the file does not exist.
// The boolean result reports whether the file existed.
func (s *Store) LoadOrNew(locale string) (*Catalog, bool, error) {
	c, err := s.Load(locale)
	if errors.Is(err, ErrNotFound) {
		return New(locale), false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return c, true, nil
}

// Encode returns the serialized form of c, including the trailing newline.
func (s *Store) Encode(c *Catalog) ([]byte, error) {
	return codecFor(s.Format).encode(c)
}

// Save atomically replaces c's catalog file.
//
// The file is left untouched when its content would not change; the boolean
// result reports whether a write happened.
func (s *Store) Save(c *Catalog) (bool, error) {
	data, err := s.Encode(c)
	if err != nil {
		return false, err
	}

	path := s.Path(c.Locale)

	// #nosec G304 -- catalog paths come from configuration
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return false, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	if err := WriteFile(path, data); err != nil {
		return false, err
	}

	return true, nil
}

// WriteFile replaces path with data through a temporary file in the same
// directory, so readers never observe a partially written file.
func WriteFile(path string, data []byte) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
