// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"time"

	"codeberg.org/culina/locsync/core/catalog"
	"codeberg.org/culina/locsync/core/classify"
	"codeberg.org/culina/locsync/core/extract"
	"codeberg.org/culina/locsync/core/keygen"
	"codeberg.org/culina/locsync/core/resolver"
)

const (
	// Default run timeout in minutes.
	defaultTimeoutMinutes = 5

	defaultBaseLocale = "de"
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Project.Root = "."
	cfg.Project.SourceDirs = []string{"."}
	cfg.Project.Extensions = []string{".swift"}
	cfg.Project.Exclude = []string{".build", "Pods", "*Tests"}
	cfg.Project.Workers = 0
	cfg.Project.Timeout = defaultTimeoutMinutes * time.Minute

	cfg.Catalog.Dir = "Localization"
	cfg.Catalog.RawFormat = string(catalog.JSON)
	cfg.Catalog.BaseLocale = defaultBaseLocale
	cfg.Catalog.Locales = []string{"en"}
	cfg.Catalog.Marker = ""

	classifyDefaults := classify.DefaultOptions(defaultBaseLocale)
	cfg.Classify.Permissive = classifyDefaults.Permissive
	cfg.Classify.PermissiveLength = classifyDefaults.PermissiveLength
	cfg.Classify.MinLength = classifyDefaults.MinLength
	cfg.Classify.Diacritics = ""
	cfg.Classify.FunctionWords = nil
	cfg.Classify.ReferencePrefixes = nil

	keyDefaults := keygen.DefaultOptions()
	cfg.Keys.DefaultTag = keyDefaults.DefaultTag
	cfg.Keys.MaxSlugLength = keyDefaults.MaxSlugLength
	cfg.Keys.MaxWords = keyDefaults.MaxWords
	cfg.Keys.ContextRules = make([]string, 0, len(keyDefaults.Rules))

	for _, r := range keyDefaults.Rules {
		cfg.Keys.ContextRules = append(cfg.Keys.ContextRules, r.Match+"="+r.Tag)
	}

	cfg.Rewrite.ReferenceFormat = string(extract.DefaultReferenceFormat)
	cfg.Rewrite.AccessorFile = ""
	cfg.Rewrite.AccessorEnum = "L"

	cfg.Terms.Dir = "Localization/terms"
	cfg.Terms.MaxTokens = resolver.DefaultMaxTokens

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
