// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/culina/locsync/cli"
	"codeberg.org/culina/locsync/pipeline"
)

const view = `struct SettingsView: View {
    var body: some View {
        Text("Konto löschen")
        Button("Abmelden") { logout() }
    }
}
`

// Commands load configuration into global logging state, so these tests run
// sequentially.

func newProject(t *testing.T) (string, string) {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"Sources/SettingsView.swift": view,
		"Sources/L.swift":            "enum L {\n}\n",
		"Localization/terms/en.yaml": "Abmelden: Sign out\n",
		"locsync.yaml": "project:\n  root: " + root + "\n  sourceDirs: [Sources]\n" +
			"rewrite:\n  accessorFile: Sources/L.swift\n" +
			"log:\n  logLevel: error\n",
	}

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return root, filepath.Join(root, "locsync.yaml")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := cli.NewRootCommand(&out)
	cmd.SetArgs(args)
	cmd.SetErr(&out)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	root, cfg := newProject(t)

	out, err := run(t, "--config", cfg, "--json", "run")
	require.NoError(t, err)

	var rep pipeline.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.Equal(t, "run", rep.Command)
	assert.Len(t, rep.RunID, 10)
	assert.Equal(t, []string{"settings.abmelden", "settings.konto_loeschen"}, rep.AccessorsAdded)
	require.Len(t, rep.Locales, 1)
	assert.Equal(t, 1, rep.Locales[0].Resolved)
	assert.Equal(t, 1, rep.Locales[0].Unresolved)

	data, err := os.ReadFile(filepath.Join(root, "Sources", "SettingsView.swift"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `Text(L.settings_konto_loeschen.localized)`)

	out, err = run(t, "--config", cfg, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "locsync check")
}

func TestDryRunFlag(t *testing.T) {
	root, cfg := newProject(t)

	out, err := run(t, "--config", cfg, "apply", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would modify")

	data, err := os.ReadFile(filepath.Join(root, "Sources", "SettingsView.swift"))
	require.NoError(t, err)
	assert.Equal(t, view, string(data))
}

func TestExtractCommand(t *testing.T) {
	root, cfg := newProject(t)

	dump := filepath.Join(root, "candidates.json")

	_, err := run(t, "--config", cfg, "extract", "--output", dump)
	require.NoError(t, err)

	data, err := os.ReadFile(dump)
	require.NoError(t, err)

	var entries []pipeline.Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Konto löschen", entries[0].Text)
	assert.Equal(t, "settings.konto_loeschen", entries[0].Key)

	out, err := run(t, "--config", cfg, "extract", "-o", "-")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 2)
}

func TestSyncWithoutBase(t *testing.T) {
	_, cfg := newProject(t)

	_, err := run(t, "--config", cfg, "sync")
	require.ErrorIs(t, err, pipeline.ErrBaseMissing)
}

func TestInvalidConfig(t *testing.T) {
	_, cfg := newProject(t)

	_, err := run(t, "--config", cfg, "--log-level", "loud", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--config", "/nonexistent/locsync.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "locsync v")
}

func TestUnknownCommand(t *testing.T) {
	_, err := run(t, "translate")
	require.Error(t, err)
}
