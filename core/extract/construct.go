// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import "regexp"

// Construct names the syntactic form wrapping a string literal.
type Construct string

// Recognized constructs.
const (
	ConstructText        Construct = "text"
	ConstructAlert       Construct = "alert"
	ConstructDialog      Construct = "dialog"
	ConstructButton      Construct = "button"
	ConstructNavTitle    Construct = "nav_title"
	ConstructPlaceholder Construct = "placeholder"
	ConstructLabel       Construct = "label"
)

// pattern matches a construct around a literal. prefix must match the code
// ending exactly at the literal's opening quote and suffix the code starting
// right after its closing quote. A nil suffix accepts anything.
type pattern struct {
	construct Construct
	prefix    *regexp.Regexp
	suffix    *regexp.Regexp
}

var patterns = []pattern{
	{ConstructText, regexp.MustCompile(`\bText\(\s*$`), regexp.MustCompile(`^\s*\)`)},
	{ConstructAlert, regexp.MustCompile(`\.alert\(\s*$`), regexp.MustCompile(`^\s*,`)},
	{ConstructDialog, regexp.MustCompile(`\.confirmationDialog\(\s*$`), regexp.MustCompile(`^\s*,`)},
	{ConstructButton, regexp.MustCompile(`\bButton\(\s*$`), regexp.MustCompile(`^\s*[),]`)},
	{ConstructNavTitle, regexp.MustCompile(`\.navigationTitle\(\s*$`), regexp.MustCompile(`^\s*\)`)},
	{ConstructPlaceholder, regexp.MustCompile(`\bplaceholder:\s*$`), nil},
	{ConstructLabel, regexp.MustCompile(`\bLabel\(\s*$`), regexp.MustCompile(`^\s*,`)},
}

const (
	lookbehind = 128
	lookahead  = 64
)

// match returns the construct wrapping the literal at lit, if any.
func match(code []byte, lit Span) (Construct, bool) {
	from := max(0, lit.Start-lookbehind)
	before := code[from:lit.Start]
	after := code[lit.End:min(len(code), lit.End+lookahead)]

	for _, p := range patterns {
		loc := p.prefix.FindIndex(before)
		if loc == nil {
			continue
		}

		// A match at the window edge may have lost its word boundary.
		if loc[0] == 0 && from > 0 {
			continue
		}

		if p.suffix != nil && !p.suffix.Match(after) {
			continue
		}

		return p.construct, true
	}

	return "", false
}
