// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package keygen derives short, ASCII-safe, collision-free catalog keys from
// source text and a context hint.
//
// Keys have the form
//
//	<context>.<slug>
//	<context>.<slug>_<disambiguator>
//
// where the disambiguator is a prefix of the MD5 digest of the full text.
package keygen

import (
	"crypto/md5" // #nosec G501 -- digest only shortens keys, no security property
	"encoding/hex"
	"iter"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Rule maps file names containing Match to the context tag Tag.
type Rule struct {
	Match string `yaml:"match"`
	Tag   string `yaml:"tag"`
}

// DefaultRules are checked in order; the first match wins.
var DefaultRules = []Rule{
	{Match: "Shopping", Tag: "shopping"},
	{Match: "Recipe", Tag: "recipe"},
	{Match: "Auth", Tag: "auth"},
	{Match: "Settings", Tag: "settings"},
	{Match: "Chat", Tag: "chat"},
	{Match: "Onboarding", Tag: "onboarding"},
	{Match: "Dietary", Tag: "dietary"},
	{Match: "Community", Tag: "community"},
	{Match: "Detail", Tag: "detail"},
}

const (
	shortDigest   = 4
	fallbackSlug  = 8
	maxDigestSize = md5.Size * 2
)

// Options tunes a Synthesizer.
type Options struct {
	Rules         []Rule
	DefaultTag    string
	MaxSlugLength int
	MaxWords      int
}

// DefaultOptions returns the options matching the historical key layout.
func DefaultOptions() Options {
	return Options{
		Rules:         DefaultRules,
		DefaultTag:    "ui",
		MaxSlugLength: 35,
		MaxWords:      4,
	}
}

// Synthesizer builds keys. It holds no per-run state; all bindings live in the
// Registry passed to Synthesize.
type Synthesizer struct {
	opts Options
}

// New returns a Synthesizer. Zero option fields take their defaults.
func New(opts Options) *Synthesizer {
	def := DefaultOptions()

	if opts.Rules == nil {
		opts.Rules = def.Rules
	}

	if opts.DefaultTag == "" {
		opts.DefaultTag = def.DefaultTag
	}

	if opts.MaxSlugLength <= 0 {
		opts.MaxSlugLength = def.MaxSlugLength
	}

	if opts.MaxWords <= 0 {
		opts.MaxWords = def.MaxWords
	}

	return &Synthesizer{opts: opts}
}

// ContextTag returns the tag of the first rule whose Match occurs in hint.
func (s *Synthesizer) ContextTag(hint string) string {
	for _, r := range s.opts.Rules {
		if r.Match != "" && strings.Contains(hint, r.Match) {
			return r.Tag
		}
	}

	return s.opts.DefaultTag
}

// Synthesize returns the key for text found in a file described by hint and
// binds it in reg.
//
// The result is never bound to a different text. Calling Synthesize again with
// the same text and hint against the same registry returns the same key.
func (s *Synthesizer) Synthesize(text, hint string, reg *Registry) string {
	base := s.ContextTag(hint) + "." + s.Slug(text)

	return reg.claim(text, candidates(base, digest(text)))
}

// candidates yields base, then base with ever wider digest suffixes, then
// numbered variants of the widest one.
func candidates(base, sum string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(base) {
			return
		}

		for n := shortDigest; n <= maxDigestSize; n += 2 {
			if !yield(base + "_" + sum[:n]) {
				return
			}
		}

		widest := base + "_" + sum

		for i := 2; ; i++ {
			if !yield(widest + "_" + strconv.Itoa(i)) {
				return
			}
		}
	}
}

var germanFold = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// Slug returns the ASCII slug of text: at most MaxWords words, joined by
// underscores and cut to MaxSlugLength. Text without any usable character
// gets a digest-based slug.
func (s *Synthesizer) Slug(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if isWord(r) || unicode.IsSpace(r) {
			return r
		}

		return -1
	}, text)

	cleaned = germanFold.Replace(strings.ToLower(strings.TrimSpace(cleaned)))
	cleaned = toASCII(cleaned)

	words := strings.Fields(cleaned)
	if len(words) > s.opts.MaxWords {
		words = words[:s.opts.MaxWords]
	}

	slug := strings.Join(words, "_")
	if len(slug) > s.opts.MaxSlugLength {
		slug = slug[:s.opts.MaxSlugLength]
	}

	slug = strings.TrimRight(slug, "_")
	if slug == "" {
		return digest(text)[:fallbackSlug]
	}

	return slug
}

// Accessor converts key into the identifier used in source references.
func Accessor(key string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(key)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// toASCII strips diacritics through canonical decomposition and drops every
// remaining non-ASCII rune.
func toASCII(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)

	out, _, err := transform.String(t, s)
	if err != nil {
		return ""
	}

	return out
}

func digest(text string) string {
	sum := md5.Sum([]byte(text)) // #nosec G401

	return hex.EncodeToString(sum[:])
}
