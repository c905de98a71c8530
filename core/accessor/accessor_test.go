// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package accessor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/culina/locsync/core/accessor"
)

const manager = `import Foundation

// enum L { static let fake = "fake" }
final class LocalizationManager {
    static let shared = LocalizationManager()
}

enum L {
    static let ui_speichern = "ui.speichern"
    // static let ui_alt = "ui.alt"
    enum Nested { static let x = "y" }
}

extension String {
    var localized: String { LocalizationManager.shared.string(for: self) }
}
`

func TestInsert(t *testing.T) {
	t.Parallel()

	out, added, err := accessor.Insert([]byte(manager), "L", []string{
		"shopping.liste_leeren", "ui.speichern", "auth.anmelden",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"auth.anmelden", "shopping.liste_leeren"}, added)

	want := `import Foundation

// enum L { static let fake = "fake" }
final class LocalizationManager {
    static let shared = LocalizationManager()
}

enum L {
    static let ui_speichern = "ui.speichern"
    // static let ui_alt = "ui.alt"
    enum Nested { static let x = "y" }

    // MARK: - Auto-generated Keys
    static let auth_anmelden = "auth.anmelden"
    static let shopping_liste_leeren = "shopping.liste_leeren"
}

extension String {
    var localized: String { LocalizationManager.shared.string(for: self) }
}
`
	assert.Equal(t, want, string(out))

	// A second run adds nothing.
	again, added, err := accessor.Insert(out, "L", []string{"auth.anmelden", "shopping.liste_leeren"})
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, string(out), string(again))

	// Later keys go below the existing heading.
	more, added, err := accessor.Insert(out, "L", []string{"ui.fertig"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ui.fertig"}, added)
	assert.Contains(t, string(more),
		"    static let shopping_liste_leeren = \"shopping.liste_leeren\"\n    static let ui_fertig = \"ui.fertig\"\n}\n")
}

func TestInsert_SingleLineEnum(t *testing.T) {
	t.Parallel()

	out, _, err := accessor.Insert([]byte("  enum L { }\n"), "L", []string{"ui.ok"})
	require.NoError(t, err)

	assert.Equal(t, "  enum L { \n\n      // MARK: - Auto-generated Keys\n      static let ui_ok = \"ui.ok\"\n  }\n", string(out))
}

func TestInsert_EnumNotFound(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing":    "struct L {}\n",
		"commented":  "// enum L {}\n",
		"other name": "enum Labels {}\n",
		"unclosed":   "enum L {\n    static let a = \"a\"\n",
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := accessor.Insert([]byte(src), "L", []string{"ui.ok"})
			require.ErrorIs(t, err, accessor.ErrEnumNotFound)
		})
	}
}
