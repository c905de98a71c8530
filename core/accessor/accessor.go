// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package accessor keeps the key accessor enum of the host project in step
// with the catalog:
//
//	enum L {
//	    static let ui_speichern = "ui.speichern"
//	}
//
// Rewritten source references such as L.ui_speichern.localized resolve
// through it.
package accessor

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/culina/locsync/core/extract"
	"codeberg.org/culina/locsync/core/keygen"
)

// Heading introduces the generated declarations inside the enum.
const Heading = "// MARK: - Auto-generated Keys"

const indentUnit = "    "

// ErrEnumNotFound is returned when the source declares no enum of the given name.
var ErrEnumNotFound = errors.New("accessor enum not found")

var declPattern = regexp.MustCompile(`\bstatic\s+let\s+(\w+)\s*(?::\s*String\s*)?=\s*"((?:[^"\\\n]|\\.)*)"`)

// enum locates the body of the accessor enum.
type enum struct {
	decl  int // offset of the enum keyword
	open  int // offset of the opening brace
	close int // offset of the closing brace
}

func findEnum(s *extract.Source, name string) (enum, error) {
	code := s.Code()

	re := regexp.MustCompile(`\benum\s+` + regexp.QuoteMeta(name) + `\b[^{}]*\{`)

	loc := re.FindIndex(code)
	if loc == nil {
		return enum{}, fmt.Errorf("%w: enum %s", ErrEnumNotFound, name)
	}

	e := enum{decl: loc[0], open: loc[1] - 1}
	depth := 0

	for i := e.open; i < len(code); i++ {
		switch code[i] {
		case '{':
			depth++
		case '}':
			depth--

			if depth == 0 {
				e.close = i

				return e, nil
			}
		}
	}

	return enum{}, fmt.Errorf("%w: enum %s is not closed", ErrEnumNotFound, name)
}

// declared returns the accessor to key declarations inside e.
func declared(s *extract.Source, e enum) map[string]string {
	out := make(map[string]string)
	code := s.Code()

	for _, m := range declPattern.FindAllSubmatchIndex(s.Bytes[e.open:e.close], -1) {
		start := e.open + m[0]

		// Declarations inside comments are blanked in the code view.
		if code[start] != s.Bytes[start] {
			continue
		}

		key, err := strconv.Unquote(`"` + string(s.Bytes[e.open+m[4]:e.open+m[5]]) + `"`)
		if err != nil {
			continue
		}

		out[string(s.Bytes[e.open+m[2]:e.open+m[3]])] = key
	}

	return out
}

// Insert declares every key of keys missing from the enum named name and
// returns the updated source and the keys it added, sorted.
//
// Declarations go right before the enum's closing brace, below a single
// Heading. Keys whose accessor is already declared are left out, so running
// Insert twice with the same keys changes nothing.
func Insert(src []byte, name string, keys []string) ([]byte, []string, error) {
	s := extract.Parse(src)

	e, err := findEnum(s, name)
	if err != nil {
		return nil, nil, err
	}

	existing := declared(s, e)

	var added []string

	for _, key := range slices.Sorted(slices.Values(keys)) {
		acc := keygen.Accessor(key)

		if prev, ok := existing[acc]; ok {
			if prev != key {
				log.Warn().
					Str("accessor", acc).
					Str("declared", prev).
					Str("key", key).
					Msg("Accessor already declared for another key")
			}

			continue
		}

		existing[acc] = key
		added = append(added, key)
	}

	if len(added) == 0 {
		return src, nil, nil
	}

	indent := lineIndent(src, e.decl) + indentUnit

	var block bytes.Buffer

	if !bytes.Contains(src[e.open:e.close], []byte(Heading)) {
		block.WriteString("\n" + indent + Heading + "\n")
	}

	for _, key := range added {
		fmt.Fprintf(&block, "%sstatic let %s = %s\n", indent, keygen.Accessor(key), strconv.Quote(key))
	}

	at := e.close
	lead, trail := "", ""

	// A closing brace alone on its line gets the block inserted above it.
	lineStart := bytes.LastIndexByte(src[:e.close], '\n') + 1
	if strings.TrimSpace(string(src[lineStart:e.close])) == "" {
		at = lineStart
	} else {
		lead, trail = "\n", lineIndent(src, e.decl)
	}

	out := make([]byte, 0, len(src)+len(lead)+block.Len()+len(trail))
	out = append(out, src[:at]...)
	out = append(out, lead...)
	out = append(out, block.Bytes()...)
	out = append(out, trail...)
	out = append(out, src[at:]...)

	return out, added, nil
}

// lineIndent returns the leading whitespace of the line containing offset.
func lineIndent(src []byte, offset int) string {
	start := bytes.LastIndexByte(src[:offset], '\n') + 1
	end := start

	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}

	return string(src[start:end])
}
