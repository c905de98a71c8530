// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"codeberg.org/culina/locsync/core/catalog"
)

const dumpDirPermissions = 0o755

// DumpFormat picks the dump encoding from the extension of path. Anything but
// .yaml and .yml is JSON.
func DumpFormat(path string) catalog.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return catalog.YAML
	default:
		return catalog.JSON
	}
}

// EncodeEntries writes entries to w as a JSON or YAML list.
func EncodeEntries(w io.Writer, format catalog.Format, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	var err error

	switch format {
	case catalog.YAML:
		err = yaml.NewEncoder(w, yaml.Indent(2), yaml.IndentSequence(true)).Encode(entries)
	default:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		err = enc.Encode(entries)
	}

	if err != nil {
		return fmt.Errorf("failed to encode candidates: %w", err)
	}

	return nil
}

// DumpEntries writes entries to path in the format its extension names.
func DumpEntries(path string, entries []Entry) error {
	var sb strings.Builder
	if err := EncodeEntries(&sb, DumpFormat(path), entries); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dumpDirPermissions); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}

	return catalog.WriteFile(path, []byte(sb.String()))
}
