// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrUndecodable is returned for literals whose escapes cannot be decoded
// unambiguously.
var ErrUndecodable = errors.New("undecodable string literal")

const maxUnicodeDigits = 8

// decodeLiteral returns the text of a terminated single-line literal with
// simple escapes decoded. Interpolation segments are kept verbatim.
func decodeLiteral(src []byte, tok Token) (string, error) {
	body := tok.Body()
	raw := src[body.Start:body.End]

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: invalid UTF-8", ErrUndecodable)
	}

	interpolations := make(map[int]int, len(tok.Interpolations))
	for _, s := range tok.Interpolations {
		interpolations[s.Start-body.Start] = s.End - body.Start
	}

	var b strings.Builder

	b.Grow(len(raw))

	for i := 0; i < len(raw); {
		if raw[i] != '\\' {
			b.WriteByte(raw[i])
			i++

			continue
		}

		if i+1 >= len(raw) {
			return "", fmt.Errorf("%w: dangling backslash", ErrUndecodable)
		}

		switch c := raw[i+1]; c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteByte(c)
		case '(':
			end, ok := interpolations[i]
			if !ok {
				return "", fmt.Errorf("%w: unbalanced interpolation", ErrUndecodable)
			}

			b.Write(raw[i:end])
			i = end

			continue
		case 'u':
			r, n, err := decodeUnicode(raw[i+2:])
			if err != nil {
				return "", err
			}

			b.WriteRune(r)
			i += 2 + n

			continue
		default:
			return "", fmt.Errorf("%w: unknown escape \\%c", ErrUndecodable, c)
		}

		i += 2
	}

	return b.String(), nil
}

// decodeUnicode parses the "{XXXX}" part of a \u{XXXX} escape and returns
// the rune and the number of bytes consumed.
func decodeUnicode(s []byte) (rune, int, error) {
	if len(s) == 0 || s[0] != '{' {
		return 0, 0, fmt.Errorf("%w: malformed unicode escape", ErrUndecodable)
	}

	end := bytes.IndexByte(s, '}')
	if end < 2 || end-1 > maxUnicodeDigits {
		return 0, 0, fmt.Errorf("%w: malformed unicode escape", ErrUndecodable)
	}

	v, err := strconv.ParseUint(string(s[1:end]), 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: malformed unicode escape: %w", ErrUndecodable, err)
	}

	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, 0, fmt.Errorf("%w: invalid code point U+%X", ErrUndecodable, v)
	}

	return r, end + 1, nil
}
