// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package classify decides whether a string literal is natural-language text
// worth translating, as opposed to an identifier, a format string or a
// reference to an already extracted key.
package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Reason explains a verdict.
type Reason string

// Verdict reasons. Every rejection carries a distinct reason.
const (
	ReasonSignal     Reason = "language_signal"
	ReasonLength     Reason = "length"
	ReasonEmpty      Reason = "empty"
	ReasonReference  Reason = "reference"
	ReasonIdentifier Reason = "identifier"
	ReasonNoLetters  Reason = "no_letters"
	ReasonTooShort   Reason = "too_short"
	ReasonNoSignal   Reason = "no_language_signal"
)

// Verdict is the outcome of classifying one text.
type Verdict struct {
	Translatable bool
	Reason       Reason

	// Interpolated is set when the text contains an interpolation marker.
	// Such text is reported but never rewritten.
	Interpolated bool
}

// Options tunes a Classifier.
type Options struct {
	Profile Profile

	// ReferencePrefixes mark text that already is a key reference or a binding.
	ReferencePrefixes []string

	// Permissive accepts any text longer than PermissiveLength runes, even
	// without a language signal.
	Permissive       bool
	PermissiveLength int

	// MinLength is the shortest text, in runes, accepted in strict mode.
	MinLength int

	InterpolationMarker string
}

// DefaultOptions returns the options used for extraction from Swift sources
// whose base language is locale.
func DefaultOptions(locale string) Options {
	return Options{
		Profile:             ProfileFor(locale),
		ReferencePrefixes:   []string{"L.", "$"},
		Permissive:          true,
		PermissiveLength:    3,
		MinLength:           2,
		InterpolationMarker: `\(`,
	}
}

// formatVerb matches printf and Swift String(format:) specifiers such as
// %d, %lld, %.1f, %1$@ and %%.
var formatVerb = regexp.MustCompile(`%(\d+\$)?[-+ #0]*\d*(\.\d+)?(hh|h|ll|l|q|L|z|t|j)?[@dDiuUxXoOfFeEgGcCsSpaA%]`)

// Classifier is safe for concurrent use once constructed.
type Classifier struct {
	opts  Options
	words map[string]struct{}
	tag   language.Tag
}

// New returns a Classifier for opts.
func New(opts Options) *Classifier {
	tag, err := language.Parse(opts.Profile.Locale)
	if err != nil {
		tag = language.Und
	}

	lower := cases.Lower(tag)

	words := make(map[string]struct{}, len(opts.Profile.FunctionWords))
	for _, w := range opts.Profile.FunctionWords {
		words[lower.String(w)] = struct{}{}
	}

	return &Classifier{opts: opts, words: words, tag: tag}
}

// IsTranslatable reports whether text is natural-language text.
func (c *Classifier) IsTranslatable(text string) bool {
	return c.Classify(text).Translatable
}

// Classify returns the verdict for text.
func (c *Classifier) Classify(text string) Verdict {
	v := Verdict{
		Interpolated: c.opts.InterpolationMarker != "" && strings.Contains(text, c.opts.InterpolationMarker),
	}

	trimmed := strings.TrimSpace(text)

	switch {
	case trimmed == "":
		v.Reason = ReasonEmpty

		return v
	case c.isReference(trimmed):
		v.Reason = ReasonReference

		return v
	case strings.Contains(trimmed, ".") && !strings.ContainsFunc(trimmed, unicode.IsSpace):
		v.Reason = ReasonIdentifier

		return v
	}

	// Format specifiers carry letters but no language.
	prose := strings.TrimSpace(formatVerb.ReplaceAllString(trimmed, " "))
	if !strings.ContainsFunc(prose, unicode.IsLetter) {
		v.Reason = ReasonNoLetters

		return v
	}

	length := utf8.RuneCountInString(prose)
	signal := c.hasSignal(prose)

	if c.opts.Permissive {
		switch {
		case signal:
			v.Translatable, v.Reason = true, ReasonSignal
		case length > c.opts.PermissiveLength:
			v.Translatable, v.Reason = true, ReasonLength
		default:
			v.Reason = ReasonTooShort
		}

		return v
	}

	switch {
	case length < c.opts.MinLength:
		v.Reason = ReasonTooShort
	case !signal:
		v.Reason = ReasonNoSignal
	default:
		v.Translatable, v.Reason = true, ReasonSignal
	}

	return v
}

func (c *Classifier) isReference(text string) bool {
	for _, p := range c.opts.ReferencePrefixes {
		if p != "" && strings.HasPrefix(text, p) {
			return true
		}
	}

	return false
}

// hasSignal reports whether text contains a diacritic or a whole function word
// of the profile's language.
func (c *Classifier) hasSignal(text string) bool {
	if c.opts.Profile.Diacritics != "" && strings.ContainsAny(text, c.opts.Profile.Diacritics) {
		return true
	}

	if len(c.words) == 0 {
		return false
	}

	// A Caser is stateful, so each call gets its own.
	for _, w := range strings.FieldsFunc(cases.Lower(c.tag).String(text), notLetter) {
		if _, ok := c.words[w]; ok {
			return true
		}
	}

	return false
}

func notLetter(r rune) bool {
	return !unicode.IsLetter(r)
}
