// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package classify

import "strings"

// Profile holds the language signals of a base locale.
type Profile struct {
	Locale        string
	Diacritics    string
	FunctionWords []string
}

var profiles = map[string]Profile{
	"de": {
		Locale:     "de",
		Diacritics: "äöüßÄÖÜ",
		FunctionWords: []string{
			"und", "oder", "für", "mit", "von", "zu",
			"der", "die", "das", "ein", "eine",
			"ist", "sind", "mein", "dein", "keine", "alle", "hinzu",
		},
	},
	"en": {
		Locale: "en",
		FunctionWords: []string{
			"and", "or", "for", "with", "from", "to",
			"the", "a", "an", "is", "are",
			"my", "your", "no", "all", "add",
		},
	},
}

// ProfileFor returns the built-in profile for locale, matched on its base
// language. Unknown locales get a profile without signals, so only the
// permissive length rule can accept text.
func ProfileFor(locale string) Profile {
	base, _, _ := strings.Cut(strings.ToLower(locale), "-")
	base, _, _ = strings.Cut(base, "_")

	if p, ok := profiles[base]; ok {
		p.Locale = locale
		p.FunctionWords = append([]string(nil), p.FunctionWords...)

		return p
	}

	return Profile{Locale: locale}
}

// Override replaces the non-empty parts of p.
func (p Profile) Override(diacritics string, words []string) Profile {
	if diacritics != "" {
		p.Diacritics = diacritics
	}

	if len(words) > 0 {
		p.FunctionWords = words
	}

	return p
}
