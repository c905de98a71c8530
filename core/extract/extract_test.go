// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/culina/locsync/core/classify"
	"codeberg.org/culina/locsync/core/extract"
)

const shoppingView = `import SwiftUI

struct ShoppingListView: View {
    @State private var name = ""
    // Text("Kommentar im Code")
    /* Button("Kein Kandidat") /* verschachtelt */ Text("Immer noch Kommentar") */
    var body: some View {
        VStack {
            Text("Einkaufsliste")
            Text("Zutaten für \(count) Personen")
            Text("Hallo \(user.name ?? "Gast")")
            Text("Sag \"Hallo\" zur Welt")
            Text("OK")
            Text("Kaputt \q")
            Button("Liste leeren") { clear() }
            Button("Abbrechen", role: .cancel) { }
            Label("Einstellungen", systemImage: "gear")
            TextField("Name eingeben", text: $name)
            Text(verbatim: "Nicht übersetzen")
            Text("L.ui_save")
            SearchBar(placeholder: "Rezepte suchen")
        }
        .navigationTitle("Meine Liste")
        .alert("Löschen bestätigen", isPresented: $showAlert) { }
        .confirmationDialog("Wirklich löschen?", isPresented: $showDialog) { }
    }

    let raw = #"Text("Roh")"#
    let multi = """
        Text("Mehrzeilig")
        """
}
`

func newExtractor() *extract.Extractor {
	return extract.New(classify.New(classify.DefaultOptions("de")))
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	res := newExtractor().Extract("ShoppingListView.swift", []byte(shoppingView))

	type found struct {
		construct    extract.Construct
		text         string
		interpolated bool
	}

	var got []found
	for _, c := range res.Candidates {
		got = append(got, found{c.Construct, c.Text, c.Interpolated})

		assert.Equal(t, "ShoppingListView.swift", c.File)
		assert.Equal(t, byte('"'), shoppingView[c.Span.Start])
		assert.Equal(t, byte('"'), shoppingView[c.Span.End-1])
	}

	want := []found{
		{extract.ConstructText, "Einkaufsliste", false},
		{extract.ConstructText, `Zutaten für \(count) Personen`, true},
		{extract.ConstructText, `Hallo \(user.name ?? "Gast")`, true},
		{extract.ConstructText, `Sag "Hallo" zur Welt`, false},
		{extract.ConstructButton, "Liste leeren", false},
		{extract.ConstructButton, "Abbrechen", false},
		{extract.ConstructLabel, "Einstellungen", false},
		{extract.ConstructPlaceholder, "Rezepte suchen", false},
		{extract.ConstructNavTitle, "Meine Liste", false},
		{extract.ConstructAlert, "Löschen bestätigen", false},
		{extract.ConstructDialog, "Wirklich löschen?", false},
	}
	assert.Equal(t, want, got)

	rejected := make(map[string]classify.Reason)
	for _, c := range res.Rejected {
		rejected[c.Text] = c.Reason
	}

	assert.Equal(t, map[string]classify.Reason{
		"OK":        classify.ReasonTooShort,
		`Kaputt \q`: extract.ReasonUndecodable,
		"L.ui_save": classify.ReasonReference,
	}, rejected)
}

func TestExtractor_Positions(t *testing.T) {
	t.Parallel()

	src := "VStack {\n    Text(\"Einkaufsliste\")\n}\n"
	res := newExtractor().Extract("", []byte(src))

	require.Len(t, res.Candidates, 1)

	c := res.Candidates[0]
	assert.Equal(t, 2, c.Line)
	assert.Equal(t, 10, c.Column)
	assert.Equal(t, `"Einkaufsliste"`, src[c.Span.Start:c.Span.End])
}

func TestExtractor_ConstructBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
		want int
	}{
		{"text with spaces", `Text(  "Hallo Welt"  )`, 1},
		{"text with comment", `Text( /* titel */ "Hallo Welt")`, 1},
		{"text concatenation", `Text("Hallo Welt" + suffix)`, 0},
		{"second argument", `Text(title, "Hallo Welt")`, 0},
		{"text field", `TextField("Hallo Welt")`, 0},
		{"identifier suffix", `MyText("Hallo Welt")`, 0},
		{"alert without comma", `.alert("Hallo Welt")`, 0},
		{"button trailing closure", `Button("Hallo Welt") {}`, 1},
		{"label without icon", `Label("Hallo Welt")`, 0},
		{"placeholder label", `Field(placeholder:"Hallo Welt")`, 1},
		{"inside string", `print("Text(\"Hallo Welt\")")`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res := newExtractor().Extract("", []byte(tc.src))
			assert.Len(t, res.Candidates, tc.want)
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	res := newExtractor().Extract("ShoppingListView.swift", []byte(shoppingView))

	var repls []extract.Replacement

	for i, c := range res.Rewritable() {
		assert.False(t, c.Interpolated)

		repls = append(repls, extract.Replacement{
			Span: c.Span,
			Text: extract.DefaultReferenceFormat.Render("", "k"+strconv.Itoa(i)),
		})
	}

	out, err := extract.Apply([]byte(shoppingView), repls)
	require.NoError(t, err)

	want := shoppingView
	for _, r := range []struct{ old, ref string }{
		{`Text("Einkaufsliste")`, `Text(L.k0.localized)`},
		{`Text("Sag \"Hallo\" zur Welt")`, `Text(L.k1.localized)`},
		{`Button("Liste leeren")`, `Button(L.k2.localized)`},
		{`Button("Abbrechen",`, `Button(L.k3.localized,`},
		{`Label("Einstellungen",`, `Label(L.k4.localized,`},
		{`placeholder: "Rezepte suchen"`, `placeholder: L.k5.localized`},
		{`.navigationTitle("Meine Liste")`, `.navigationTitle(L.k6.localized)`},
		{`.alert("Löschen bestätigen",`, `.alert(L.k7.localized,`},
		{`.confirmationDialog("Wirklich löschen?",`, `.confirmationDialog(L.k8.localized,`},
	} {
		require.Equal(t, 1, strings.Count(want, r.old), r.old)
		want = strings.Replace(want, r.old, r.ref, 1)
	}

	assert.Equal(t, want, string(out))
	assert.Contains(t, string(out), `Text("Zutaten für \(count) Personen")`)
	assert.Contains(t, string(out), `// Text("Kommentar im Code")`)
}

func TestApply_Overlap(t *testing.T) {
	t.Parallel()

	src := []byte("0123456789")

	out, err := extract.Apply(src, []extract.Replacement{
		{Span: extract.Span{Start: 6, End: 8}, Text: "b"},
		{Span: extract.Span{Start: 1, End: 3}, Text: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "0a345b89", string(out))

	_, err = extract.Apply(src, []extract.Replacement{
		{Span: extract.Span{Start: 1, End: 5}},
		{Span: extract.Span{Start: 4, End: 6}},
	})
	require.ErrorIs(t, err, extract.ErrOverlap)

	_, err = extract.Apply(src, []extract.Replacement{{Span: extract.Span{Start: 8, End: 12}}})
	require.ErrorIs(t, err, extract.ErrOverlap)
}

func TestReferenceFormat_Render(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "L.ui_speichern.localized",
		extract.DefaultReferenceFormat.Render("ui.speichern", "ui_speichern"))
	assert.Equal(t, `NSLocalizedString("ui.speichern", comment: "")`,
		extract.ReferenceFormat(`NSLocalizedString("{key}", comment: "")`).Render("ui.speichern", "ui_speichern"))
}
