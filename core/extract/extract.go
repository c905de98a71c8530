// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package extract finds translatable string literals in Swift view code and
// rewrites them into key references.
//
// Matching runs on lexed source: literals inside comments, other literals or
// interpolations are never candidates, and only single-line, non-raw literals
// wrapped by a known construct are considered.
package extract

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/culina/locsync/core/classify"
)

// ReasonUndecodable marks literals skipped because their escapes could not
// be decoded.
const ReasonUndecodable classify.Reason = "undecodable_escape"

// Candidate is a literal found inside a construct.
type Candidate struct {
	File      string    `json:"file,omitempty" yaml:"file,omitempty"`
	Line      int       `json:"line"           yaml:"line"`
	Column    int       `json:"column"         yaml:"column"`
	Construct Construct `json:"construct"      yaml:"construct"`
	Text      string    `json:"text"           yaml:"text"`

	// Span covers the literal including its quotes.
	Span Span `json:"span" yaml:"span"`

	Interpolated bool            `json:"interpolated,omitempty" yaml:"interpolated,omitempty"`
	Reason       classify.Reason `json:"reason,omitempty"       yaml:"reason,omitempty"`
}

// Result holds the literals found in one file.
type Result struct {
	File string

	// Candidates are accepted by the classifier, in source order.
	Candidates []Candidate

	// Rejected are construct literals the classifier turned down or that
	// could not be decoded.
	Rejected []Candidate
}

// Rewritable returns the candidates that may be replaced by a reference.
func (r *Result) Rewritable() []Candidate {
	var out []Candidate

	for _, c := range r.Candidates {
		if !c.Interpolated {
			out = append(out, c)
		}
	}

	return out
}

// LogRejected writes one debug line per rejected literal.
func (r *Result) LogRejected() {
	for _, c := range r.Rejected {
		log.Debug().
			Str("file", r.File).
			Int("line", c.Line).
			Int("column", c.Column).
			Str("construct", string(c.Construct)).
			Str("reason", string(c.Reason)).
			Str("text", c.Text).
			Msg("Skipped literal")
	}
}

// Extractor finds candidates. It is safe for concurrent use.
type Extractor struct {
	classifier *classify.Classifier
}

// New returns an Extractor filtering literals through classifier.
func New(classifier *classify.Classifier) *Extractor {
	return &Extractor{classifier: classifier}
}

// Extract lexes src and returns its candidates. file only labels the result.
func (e *Extractor) Extract(file string, src []byte) *Result {
	return e.ExtractSource(file, Parse(src))
}

// ExtractSource is Extract on an already lexed file.
func (e *Extractor) ExtractSource(file string, s *Source) *Result {
	res := &Result{File: file}
	code := s.Code()

	for _, tok := range s.Tokens {
		if tok.Kind != String || tok.Multiline || tok.Raw() || !tok.Terminated {
			continue
		}

		construct, ok := match(code, tok.Span)
		if !ok {
			continue
		}

		line, col := s.Position(tok.Span.Start)
		c := Candidate{
			File:         file,
			Line:         line,
			Column:       col,
			Construct:    construct,
			Span:         tok.Span,
			Interpolated: len(tok.Interpolations) > 0,
		}

		text, err := decodeLiteral(s.Bytes, tok)
		if err != nil {
			body := tok.Body()
			c.Text = string(s.Bytes[body.Start:body.End])
			c.Reason = ReasonUndecodable
			res.Rejected = append(res.Rejected, c)

			continue
		}

		c.Text = text

		v := e.classifier.Classify(text)
		c.Reason = v.Reason
		c.Interpolated = c.Interpolated || v.Interpolated

		if v.Translatable {
			res.Candidates = append(res.Candidates, c)
		} else {
			res.Rejected = append(res.Rejected, c)
		}
	}

	return res
}

// ErrOverlap is returned by Apply for replacements sharing bytes.
var ErrOverlap = errors.New("overlapping replacements")

// Replacement substitutes Text for the bytes covered by Span.
type Replacement struct {
	Span Span
	Text string
}

// Apply returns src with every replacement applied. Bytes outside the
// replaced spans are copied unchanged.
func Apply(src []byte, repls []Replacement) ([]byte, error) {
	sorted := slices.Clone(repls)
	slices.SortFunc(sorted, func(a, b Replacement) int {
		return a.Span.Start - b.Span.Start
	})

	out := make([]byte, 0, len(src))
	last := 0

	for _, r := range sorted {
		if r.Span.Start < last || r.Span.End < r.Span.Start || r.Span.End > len(src) {
			return nil, fmt.Errorf("%w: [%d, %d)", ErrOverlap, r.Span.Start, r.Span.End)
		}

		out = append(out, src[last:r.Span.Start]...)
		out = append(out, r.Text...)
		last = r.Span.End
	}

	return append(out, src[last:]...), nil
}

// ReferenceFormat renders the expression replacing a literal. The
// placeholders {accessor} and {key} are substituted.
type ReferenceFormat string

// DefaultReferenceFormat is the reference shape of the L accessor enum.
const DefaultReferenceFormat ReferenceFormat = "L.{accessor}.localized"

// Render returns the reference for key whose identifier form is accessor.
func (f ReferenceFormat) Render(key, accessor string) string {
	return strings.NewReplacer("{accessor}", accessor, "{key}", key).Replace(string(f))
}
