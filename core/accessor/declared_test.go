// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package accessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/culina/locsync/core/extract"
)

func TestDeclared(t *testing.T) {
	t.Parallel()

	src := extract.Parse([]byte(`// enum L { static let fake = "fake" }
enum L {
    static let ui_speichern = "ui.speichern"
    // static let ui_alt = "ui.alt"
    static let ui_text = "static let x = \"y\""
    enum Nested { static let x = "y" }
}
`))

	e, err := findEnum(src, "L")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"ui_speichern": "ui.speichern",
		"ui_text":      `static let x = "y"`,
		"x":            "y",
	}, declared(src, e))
}
