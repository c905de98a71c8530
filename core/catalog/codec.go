// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
)

// Format identifies the on-disk serialization of a catalog.
type Format string

// Supported catalog formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Ext returns the file extension, including the dot, used for f.
func (f Format) Ext() string {
	return "." + string(f)
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f == JSON || f == YAML
}

// codec converts between a catalog mapping and its serialized form.
type codec interface {
	decode(data []byte) (map[string]string, error)
	encode(c *Catalog) ([]byte, error)
}

func codecFor(f Format) codec {
	if f == YAML {
		return yamlCodec{}
	}

	return jsonCodec{}
}

type jsonCodec struct{}

// decode walks the top-level object in document order so that duplicated keys,
// which encoding/json would silently collapse, are reported.
func (jsonCodec) decode(data []byte) (map[string]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformed)
	}

	out := make(map[string]string)

	var err error

	root.ForEach(func(key, value gjson.Result) bool {
		k := key.String()

		if _, dup := out[k]; dup {
			err = fmt.Errorf("%w: duplicate key %q", ErrMalformed, k)

			return false
		}

		if value.Type != gjson.String {
			err = fmt.Errorf("%w: value of %q is %s, want string", ErrMalformed, k, value.Type)

			return false
		}

		out[k] = value.Str

		return true
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (jsonCodec) encode(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	// encoding/json writes map keys in sorted order and terminates with a newline.
	if err := enc.Encode(c.entries); err != nil {
		return nil, fmt.Errorf("failed to encode %s catalog: %w", c.Locale, err)
	}

	return buf.Bytes(), nil
}

type yamlCodec struct{}

func (yamlCodec) decode(data []byte) (map[string]string, error) {
	var doc yaml.MapSlice

	// Duplicate mapping keys are rejected by the decoder.
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	out := make(map[string]string, len(doc))

	for _, item := range doc {
		k, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: key %v is not a string", ErrMalformed, item.Key)
		}

		v, ok := item.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: value of %q is %T, want string", ErrMalformed, k, item.Value)
		}

		out[k] = v
	}

	return out, nil
}

// encode writes one "key": "value" line per entry. Values are always
// double-quoted: a plain scalar can turn tabs, ".inf" or "null" into
// something else on the way back.
func (yamlCodec) encode(c *Catalog) ([]byte, error) {
	keys := c.Keys()
	if len(keys) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer

	for _, k := range keys {
		buf.WriteString(yamlKey(k))
		buf.WriteString(": ")
		buf.WriteString(yamlQuote(c.entries[k]))
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

var (
	plainKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

	// reservedScalars resolve to non-strings when written plain.
	reservedScalars = map[string]bool{
		"null": true, "true": true, "false": true,
		"yes": true, "no": true, "on": true, "off": true, "y": true, "n": true,
	}
)

// yamlKey leaves generated keys such as ui.speichern plain and quotes the rest.
func yamlKey(k string) string {
	if plainKey.MatchString(k) && !reservedScalars[strings.ToLower(k)] {
		return k
	}

	return yamlQuote(k)
}

// yamlQuote returns s as a double-quoted scalar. Control characters and
// line or paragraph separators are escaped as \uXXXX.
func yamlQuote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case unicode.IsControl(r) || r == '\u2028' || r == '\u2029' || r == '\uFEFF':
			b.WriteString(`\u`)
			b.WriteString(strconv.FormatInt(int64(r)+0x10000, 16)[1:])
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}
