// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/culina/locsync/core/accessor"
	"codeberg.org/culina/locsync/core/catalog"
	"codeberg.org/culina/locsync/core/classify"
	"codeberg.org/culina/locsync/core/keygen"
	"codeberg.org/culina/locsync/pipeline"
)

const shoppingView = `import SwiftUI

struct ShoppingListView: View {
    var body: some View {
        VStack {
            Text("Neue Liste")
            Text("Zutaten für \(count) Personen")
            Text("OK")
            Button("Speichern") { save() }
        }
        .navigationTitle("Einkaufsliste")
    }
}
`

const accessorSource = `enum L {
}

extension String {
    var localized: String { self }
}
`

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)

	return string(data)
}

func newProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Sources/ShoppingListView.swift": shoppingView,
		"Sources/L.swift":                accessorSource,
		"Sources/README.md":              `Text("Nicht gescannt")`,
		"Localization/terms/en.yaml":     "Neue Liste: New list\nSpeichern: Save\n",
	})

	return root
}

func testOptions(root string) pipeline.Options {
	return pipeline.Options{
		Root:         root,
		SourceDirs:   []string{filepath.Join(root, "Sources")},
		Extensions:   []string{".swift"},
		CatalogDir:   filepath.Join(root, "Localization"),
		Format:       catalog.JSON,
		BaseLocale:   "de",
		Locales:      []string{"en"},
		Classify:     classify.DefaultOptions("de"),
		Keys:         keygen.DefaultOptions(),
		AccessorFile: filepath.Join(root, "Sources", "L.swift"),
		AccessorEnum: "L",
		TermsDir:     filepath.Join(root, "Localization", "terms"),
		MaxTokens:    3,
	}
}

func execute(t *testing.T, opts pipeline.Options, cmd pipeline.Command) (*pipeline.Report, error) {
	t.Helper()

	return pipeline.New(opts, "test").Execute(context.Background(), cmd)
}

func TestRun(t *testing.T) {
	t.Parallel()

	root := newProject(t)
	opts := testOptions(root)

	rep, err := execute(t, opts, pipeline.CommandRun)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.FilesScanned)
	assert.Positive(t, rep.Elapsed)
	assert.Equal(t, 4, rep.Candidates)
	assert.Equal(t, 1, rep.Rejected)
	assert.Equal(t, 1, rep.Interpolated)
	assert.Equal(t, 3, rep.Rewritten)
	assert.Equal(t, []string{"shopping.neue_liste", "shopping.speichern", "shopping.einkaufsliste"}, rep.KeysAdded)
	assert.Equal(t, []string{"shopping.einkaufsliste", "shopping.neue_liste", "shopping.speichern"}, rep.AccessorsAdded)
	assert.Equal(t, []string{
		"Localization/de.json",
		"Sources/L.swift",
		"Sources/ShoppingListView.swift",
		"Localization/en.json",
	}, rep.FilesModified)

	require.Len(t, rep.Locales, 1)
	assert.Equal(t, pipeline.LocaleReport{
		Locale:       "en",
		Added:        3,
		Resolved:     2,
		Unresolved:   1,
		Placeholders: 1,
		Written:      true,
	}, *rep.Locales[0])

	assert.Equal(t, `import SwiftUI

struct ShoppingListView: View {
    var body: some View {
        VStack {
            Text(L.shopping_neue_liste.localized)
            Text("Zutaten für \(count) Personen")
            Text("OK")
            Button(L.shopping_speichern.localized) { save() }
        }
        .navigationTitle(L.shopping_einkaufsliste.localized)
    }
}
`, readFile(t, root, "Sources/ShoppingListView.swift"))

	assert.Equal(t, `{
  "shopping.einkaufsliste": "Einkaufsliste",
  "shopping.neue_liste": "Neue Liste",
  "shopping.speichern": "Speichern"
}
`, readFile(t, root, "Localization/de.json"))

	assert.Equal(t, `{
  "shopping.einkaufsliste": "[DE] Einkaufsliste",
  "shopping.neue_liste": "New list",
  "shopping.speichern": "Save"
}
`, readFile(t, root, "Localization/en.json"))

	assert.Equal(t, `enum L {

    // MARK: - Auto-generated Keys
    static let shopping_einkaufsliste = "shopping.einkaufsliste"
    static let shopping_neue_liste = "shopping.neue_liste"
    static let shopping_speichern = "shopping.speichern"
}
`, readFile(t, root, "Sources/L.swift"))

	// A second run finds nothing left to do.
	again, err := execute(t, opts, pipeline.CommandRun)
	require.NoError(t, err)

	assert.Empty(t, again.FilesModified)
	assert.Empty(t, again.KeysAdded)
	assert.Zero(t, again.Rewritten)
	assert.Equal(t, 1, again.Interpolated)
	assert.Zero(t, again.Locales[0].Added)
	assert.Equal(t, 1, again.Locales[0].Unresolved)

	check, err := execute(t, opts, pipeline.CommandCheck)
	require.NoError(t, err)
	assert.Equal(t, 1, check.Locales[0].Placeholders)
	assert.Zero(t, check.Locales[0].Missing)
}

func TestSyncResolve_Scenarios(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Localization/de.json":       `{"a.greeting": "Hallo"}`,
		"Localization/en.json":       `{}`,
		"Localization/terms/en.json": `{"Hallo": "Hello"}`,
	})

	opts := testOptions(root)

	rep, err := execute(t, opts, pipeline.CommandSync)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Locales[0].Added)
	assert.JSONEq(t, `{"a.greeting": "[DE] Hallo"}`, readFile(t, root, "Localization/en.json"))

	rep, err = execute(t, opts, pipeline.CommandResolve)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Locales[0].Resolved)
	assert.Zero(t, rep.Locales[0].Unresolved)
	assert.JSONEq(t, `{"a.greeting": "Hello"}`, readFile(t, root, "Localization/en.json"))

	// The base gains a key without a dictionary entry.
	writeTree(t, root, map[string]string{
		"Localization/de.json": `{"a.greeting": "Hallo", "b.farewell": "Tschüss"}`,
	})

	_, err = execute(t, opts, pipeline.CommandSync)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a.greeting": "Hello", "b.farewell": "[DE] Tschüss"}`, readFile(t, root, "Localization/en.json"))

	rep, err = execute(t, opts, pipeline.CommandResolve)
	require.NoError(t, err)
	assert.Zero(t, rep.Locales[0].Resolved)
	assert.Equal(t, 1, rep.Locales[0].Unresolved)
	assert.False(t, rep.Locales[0].Written)
	assert.JSONEq(t, `{"a.greeting": "Hello", "b.farewell": "[DE] Tschüss"}`, readFile(t, root, "Localization/en.json"))
}

func TestDryRun(t *testing.T) {
	t.Parallel()

	root := newProject(t)
	opts := testOptions(root)
	opts.DryRun = true

	rep, err := execute(t, opts, pipeline.CommandRun)
	require.NoError(t, err)

	assert.True(t, rep.DryRun)
	assert.Equal(t, []string{
		"Localization/de.json",
		"Sources/L.swift",
		"Sources/ShoppingListView.swift",
		"Localization/en.json",
	}, rep.FilesModified)

	// Later stages see the earlier ones' catalogs in memory.
	assert.Equal(t, 2, rep.Locales[0].Resolved)
	assert.False(t, rep.Locales[0].Written)

	assert.Equal(t, shoppingView, readFile(t, root, "Sources/ShoppingListView.swift"))
	assert.Equal(t, accessorSource, readFile(t, root, "Sources/L.swift"))
	assert.NoFileExists(t, filepath.Join(root, "Localization", "de.json"))
	assert.NoFileExists(t, filepath.Join(root, "Localization", "en.json"))
}

func TestMissingBase(t *testing.T) {
	t.Parallel()

	for _, cmd := range []pipeline.Command{pipeline.CommandSync, pipeline.CommandResolve, pipeline.CommandCheck} {
		t.Run(string(cmd), func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, testOptions(t.TempDir()), cmd)
			require.ErrorIs(t, err, pipeline.ErrBaseMissing)
			require.ErrorIs(t, err, catalog.ErrNotFound)
		})
	}
}

func TestMalformedTarget(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Localization/de.json": `{"ui.ok": "Alles klar"}`,
		"Localization/en.json": `{"ui.ok": 1}`,
		"Localization/fr.json": `{}`,
	})

	opts := testOptions(root)
	opts.Locales = []string{"en", "fr"}

	rep, err := execute(t, opts, pipeline.CommandSync)
	require.ErrorIs(t, err, catalog.ErrMalformed)

	assert.NotEmpty(t, rep.Locale("en").Error)
	assert.Equal(t, `{"ui.ok": 1}`, readFile(t, root, "Localization/en.json"))

	assert.Empty(t, rep.Locale("fr").Error)
	assert.True(t, rep.Locale("fr").Written)
	assert.JSONEq(t, `{"ui.ok": "[DE] Alles klar"}`, readFile(t, root, "Localization/fr.json"))
}

func TestCheck_Drift(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Localization/de.json": `{"ui.ok": "Alles klar", "ui.weiter": "Weiter"}`,
		"Localization/en.json": `{"ui.ok": "Okay", "ui.alt": "Old"}`,
	})

	rep, err := execute(t, testOptions(root), pipeline.CommandCheck)
	require.ErrorIs(t, err, pipeline.ErrDrift)

	assert.Equal(t, 1, rep.Locales[0].Missing)
	assert.Equal(t, 1, rep.Locales[0].Orphaned)
	assert.Empty(t, rep.FilesModified)
}

func TestApply_MissingEnum(t *testing.T) {
	t.Parallel()

	root := newProject(t)
	writeTree(t, root, map[string]string{"Sources/L.swift": "struct Keys {}\n"})

	rep, err := execute(t, testOptions(root), pipeline.CommandApply)
	require.ErrorIs(t, err, accessor.ErrEnumNotFound)

	assert.Empty(t, rep.AccessorsAdded)
	assert.Equal(t, "struct Keys {}\n", readFile(t, root, "Sources/L.swift"))
	assert.Contains(t, readFile(t, root, "Sources/ShoppingListView.swift"), "Text(L.shopping_neue_liste.localized)")
	assert.FileExists(t, filepath.Join(root, "Localization", "de.json"))
}

func TestApply_ReusesExistingKeys(t *testing.T) {
	t.Parallel()

	root := newProject(t)
	writeTree(t, root, map[string]string{
		"Localization/de.json": `{"shopping.neue_liste": "Neue Liste", "shopping.speichern": "Etwas anderes"}`,
	})

	rep, err := execute(t, testOptions(root), pipeline.CommandApply)
	require.NoError(t, err)

	assert.NotContains(t, rep.KeysAdded, "shopping.neue_liste")
	assert.Len(t, rep.KeysAdded, 2)

	src := readFile(t, root, "Sources/ShoppingListView.swift")
	assert.Contains(t, src, "Text(L.shopping_neue_liste.localized)")
	assert.NotContains(t, src, "Button(L.shopping_speichern.localized)")

	var base map[string]string
	require.NoError(t, json.Unmarshal([]byte(readFile(t, root, "Localization/de.json")), &base))
	assert.Equal(t, "Etwas anderes", base["shopping.speichern"])
	assert.Len(t, base, 4)
}

func TestExtract(t *testing.T) {
	t.Parallel()

	root := newProject(t)
	p := pipeline.New(testOptions(root), "test")
	rep := p.NewReport(pipeline.CommandExtract)

	entries, err := p.Extract(context.Background(), rep)
	require.NoError(t, err)
	require.NoError(t, p.Err())

	require.Len(t, entries, 4)
	assert.Equal(t, "Sources/ShoppingListView.swift", entries[0].File)
	assert.Equal(t, "Neue Liste", entries[0].Text)
	assert.Equal(t, "shopping.neue_liste", entries[0].Key)
	assert.True(t, entries[1].Interpolated)
	assert.Empty(t, entries[1].Key)

	// Nothing is written.
	assert.Equal(t, shoppingView, readFile(t, root, "Sources/ShoppingListView.swift"))
	assert.NoFileExists(t, filepath.Join(root, "Localization", "de.json"))

	var buf bytes.Buffer
	require.NoError(t, pipeline.EncodeEntries(&buf, catalog.JSON, entries[:1]))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "shopping.neue_liste", decoded[0]["key"])
	assert.Equal(t, "text", decoded[0]["construct"])
	assert.InDelta(t, 6, decoded[0]["line"], 0)

	out := filepath.Join(root, "out", "candidates.yaml")
	require.NoError(t, pipeline.DumpEntries(out, entries))
	assert.Contains(t, readFile(t, root, "out/candidates.yaml"), "key: shopping.neue_liste")
}

func TestExecute_UnknownCommand(t *testing.T) {
	t.Parallel()

	_, err := execute(t, testOptions(t.TempDir()), "translate")
	require.ErrorIs(t, err, pipeline.ErrUnknownCommand)
}

func TestDumpFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, catalog.YAML, pipeline.DumpFormat("a/b.YML"))
	assert.Equal(t, catalog.YAML, pipeline.DumpFormat("b.yaml"))
	assert.Equal(t, catalog.JSON, pipeline.DumpFormat("b.json"))
	assert.Equal(t, catalog.JSON, pipeline.DumpFormat("b"))
}
