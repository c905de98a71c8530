// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"bytes"
	"slices"
	"strings"
	"unicode/utf8"
)

// Kind classifies a lexical token.
type Kind int

const (
	Code Kind = iota
	LineComment
	BlockComment
	String
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case LineComment:
		return "line_comment"
	case BlockComment:
		return "block_comment"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Span is a half-open byte range [Start, End) of a source file.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end"   yaml:"end"`
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int {
	return s.End - s.Start
}

// Token is a top-level lexical unit. Tokens cover the source without gaps.
type Token struct {
	Kind Kind
	Span Span

	// The remaining fields are only set for String tokens.
	Multiline  bool
	Hashes     int
	Terminated bool

	// Interpolations holds the spans of `\( ... )` segments, backslash and
	// closing parenthesis included.
	Interpolations []Span
}

// Raw reports whether t is a raw string literal such as #"..."#.
func (t Token) Raw() bool {
	return t.Hashes > 0
}

// Body returns the span between the delimiters of a terminated string literal.
func (t Token) Body() Span {
	quotes := 1
	if t.Multiline {
		quotes = 3
	}

	return Span{
		Start: t.Span.Start + t.Hashes + quotes,
		End:   t.Span.End - t.Hashes - quotes,
	}
}

// Lex splits Swift source into code, comments and string literals.
//
// Comments nest. String interpolations are scanned recursively, so quotes
// inside `\( ... )` never terminate the enclosing literal. Unterminated
// single-line literals end at the line break.
func Lex(src []byte) []Token {
	l := lexer{src: src}

	var tokens []Token

	codeStart := 0

	for pos := 0; pos < len(src); {
		tok, ok := l.special(pos)
		if !ok {
			pos++

			continue
		}

		if codeStart < pos {
			tokens = append(tokens, Token{Kind: Code, Span: Span{codeStart, pos}})
		}

		tokens = append(tokens, tok)
		pos = tok.Span.End
		codeStart = pos
	}

	if codeStart < len(src) {
		tokens = append(tokens, Token{Kind: Code, Span: Span{codeStart, len(src)}})
	}

	return tokens
}

type lexer struct {
	src []byte
}

func (l lexer) at(pos int, prefix string) bool {
	return pos < len(l.src) && bytes.HasPrefix(l.src[pos:], []byte(prefix))
}

// special returns the comment or string literal starting at pos, if any.
func (l lexer) special(pos int) (Token, bool) {
	switch {
	case l.at(pos, "//"):
		return Token{Kind: LineComment, Span: Span{pos, l.lineEnd(pos)}}, true
	case l.at(pos, "/*"):
		return Token{Kind: BlockComment, Span: Span{pos, l.blockCommentEnd(pos)}}, true
	}

	if hashes, ok := l.stringStart(pos); ok {
		return l.scanString(pos, hashes), true
	}

	return Token{}, false
}

// stringStart reports whether a string literal opens at pos and how many
// raw-string hashes precede its quote.
func (l lexer) stringStart(pos int) (int, bool) {
	hashes := 0
	for pos+hashes < len(l.src) && l.src[pos+hashes] == '#' {
		hashes++
	}

	return hashes, pos+hashes < len(l.src) && l.src[pos+hashes] == '"'
}

func (l lexer) lineEnd(pos int) int {
	if i := bytes.IndexByte(l.src[pos:], '\n'); i >= 0 {
		return pos + i
	}

	return len(l.src)
}

func (l lexer) blockCommentEnd(pos int) int {
	depth := 0

	for i := pos; i < len(l.src); {
		switch {
		case l.at(i, "/*"):
			depth++
			i += 2
		case l.at(i, "*/"):
			depth--
			i += 2

			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}

	return len(l.src)
}

func (l lexer) scanString(start, hashes int) Token {
	tok := Token{Kind: String, Hashes: hashes}

	quote := start + hashes
	tok.Multiline = l.at(quote, `"""`)

	delim := `"`
	if tok.Multiline {
		delim = `"""`
	}

	closing := delim + strings.Repeat("#", hashes)
	escape := `\` + strings.Repeat("#", hashes)

	i := quote + len(delim)

	for i < len(l.src) {
		switch {
		case !tok.Multiline && l.src[i] == '\n':
			tok.Span = Span{start, i}

			return tok
		case l.at(i, escape):
			j := i + len(escape)

			switch {
			case j >= len(l.src):
				i = j
			case l.src[j] == '(':
				end := l.interpolationEnd(j)
				tok.Interpolations = append(tok.Interpolations, Span{i, end})
				i = end
			case l.src[j] == '\n' && !tok.Multiline:
				tok.Span = Span{start, j}

				return tok
			default:
				_, size := utf8.DecodeRune(l.src[j:])
				i = j + size
			}
		case l.at(i, closing):
			tok.Span = Span{start, i + len(closing)}
			tok.Terminated = true

			return tok
		default:
			i++
		}
	}

	tok.Span = Span{start, len(l.src)}

	return tok
}

// interpolationEnd returns the offset just past the parenthesis closing the
// one at pos.
func (l lexer) interpolationEnd(pos int) int {
	depth := 0

	for i := pos; i < len(l.src); {
		switch c := l.src[i]; {
		case c == '(':
			depth++
			i++
		case c == ')':
			depth--
			i++

			if depth == 0 {
				return i
			}
		case l.at(i, "//"):
			i = l.lineEnd(i)
		case l.at(i, "/*"):
			i = l.blockCommentEnd(i)
		default:
			if hashes, ok := l.stringStart(i); ok {
				i = l.scanString(i, hashes).Span.End
			} else {
				i++
			}
		}
	}

	return len(l.src)
}

// Source is a lexed source file.
type Source struct {
	Bytes  []byte
	Tokens []Token

	code  []byte
	lines []int
}

// Parse lexes src.
func Parse(src []byte) *Source {
	s := &Source{Bytes: src, Tokens: Lex(src)}

	s.code = bytes.Clone(src)

	for _, tok := range s.Tokens {
		var fill byte

		switch tok.Kind {
		case Code:
			continue
		case LineComment, BlockComment:
			fill = ' '
		case String:
			fill = 0
		}

		for i := tok.Span.Start; i < tok.Span.End; i++ {
			if s.code[i] != '\n' {
				s.code[i] = fill
			}
		}
	}

	s.lines = []int{0}

	for i, c := range src {
		if c == '\n' {
			s.lines = append(s.lines, i+1)
		}
	}

	return s
}

// Code returns the source with comments blanked to spaces and string
// literals to NUL bytes. Offsets and line breaks are preserved, so patterns
// matched against it only ever see code.
func (s *Source) Code() []byte {
	return s.code
}

// Position returns the 1-based line and rune column of offset.
func (s *Source) Position(offset int) (int, int) {
	line, found := slices.BinarySearch(s.lines, offset)
	if !found {
		line--
	}

	col := utf8.RuneCount(s.Bytes[s.lines[line]:offset]) + 1

	return line + 1, col
}
