// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig regenerates the example configuration files in deploy/
// from the configuration defaults.
package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/culina/locsync/config"
	"codeberg.org/culina/locsync/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/locsync.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# locsync configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
# Lists are comma-separated.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# locsync configuration (via configuration file)
#
# Copy this file to locsync.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

// essential lists the settings left uncommented in the generated files.
var essential = map[string]bool{
	"LOCSYNC_BASE_LOCALE": true,
	"LOCSYNC_LOCALES":     true,
	"LOCSYNC_SOURCE_DIRS": true,
	"LOCSYNC_CATALOG_DIR": true,
}

func main() {
	audit.SetDefaultLogger()

	cfg := &config.Config{}
	cfg.SetDefaults()

	if err := os.WriteFile(envOutputFile, []byte(envFile(cfg)), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", envOutputFile).Msg("Failed to write .env.example file")
	}

	log.Info().Str("path", envOutputFile).Msg("Successfully generated .env.example")

	yamlFile, err := yamlFile(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	if err := os.WriteFile(yamlOutputFile, []byte(yamlFile), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", yamlOutputFile).Msg("Failed to write config file")
	}

	log.Info().Str("path", yamlOutputFile).Msg("Successfully generated locsync.yaml.example")
}

// envFile renders the .env.example content.
func envFile(cfg *config.Config) string {
	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	// Iterate over the top-level struct fields.
	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		// Iterate over the fields of the nested struct.
		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			field := innerTyp.Field(j)
			value := structValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			envVarName := strings.Split(tag, ",")[0]

			prefix := "# "
			if essential[envVarName] {
				prefix = ""
			}

			fmt.Fprintf(&sb, "%s%s=%s\n", prefix, envVarName, envValue(value))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// envValue formats v the way the environment loader parses it back.
func envValue(v reflect.Value) string {
	switch {
	case v.Kind() == reflect.Slice:
		parts := make([]string, v.Len())
		for i := range v.Len() {
			parts[i] = fmt.Sprint(v.Index(i).Interface())
		}

		return strings.Join(parts, ",")
	case v.Kind() == reflect.String && v.Len() == 0:
		return ""
	case v.Kind() == reflect.String:
		return fmt.Sprintf("%q", v.String())
	default:
		return fmt.Sprint(v.Interface())
	}
}

// yamlFile renders the locsync.yaml.example content.
func yamlFile(cfg *config.Config) (string, error) {
	yamlContent, err := cfg.YAML()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	section := ""
	keepItems := false

	// Process the marshaled YAML line-by-line to create a clean template.
	for line := range strings.SplitSeq(string(yamlContent), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys (e.g., "catalog:") are treated as section headers.
		if !strings.HasPrefix(line, " ") {
			section = strings.TrimSuffix(trimmed, ":")
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		// Items of a kept list stay with their key.
		if keepItems && strings.HasPrefix(trimmed, "- ") {
			sb.WriteString(line + "\n")

			continue
		}

		keepItems = false

		if keepYAML(section, trimmed) {
			keepItems = strings.HasSuffix(trimmed, ":")
			sb.WriteString(line + "\n")

			continue
		}

		// By default, comment out the line.
		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}

// keepYAML reports whether a line of section stays uncommented.
func keepYAML(section, trimmed string) bool {
	switch section {
	case "catalog":
		return strings.HasPrefix(trimmed, "dir:") ||
			strings.HasPrefix(trimmed, "baseLocale:") ||
			strings.HasPrefix(trimmed, "locales:")
	case "project":
		return strings.HasPrefix(trimmed, "sourceDirs:")
	}

	return false
}
