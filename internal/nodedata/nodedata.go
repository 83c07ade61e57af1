// Package nodedata holds a node payload in one of three representations and
// converts between them.
//
// Conversions never fail loudly: a conversion that cannot be performed returns
// the receiver unchanged.
package nodedata

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/oakwood-commons/zkx/internal/formatter"
	"github.com/oakwood-commons/zkx/pkg/loader"
)

// Kind identifies the active representation.
type Kind int

const (
	KindRaw Kind = iota
	KindText
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindText:
		return "text"
	case KindStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Style selects how a structured value is displayed.
type Style string

const (
	StyleJSON       Style = "json"
	StyleJSONPretty Style = "json-pretty"
	StyleYAML       Style = "yaml"
	StyleTree       Style = "tree"
)

// ParseStyle maps a config value to a Style, defaulting to StyleJSON.
func ParseStyle(s string) Style {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleJSONPretty:
		return StyleJSONPretty
	case StyleYAML:
		return StyleYAML
	case StyleTree:
		return StyleTree
	default:
		return StyleJSON
	}
}

var errTrailingData = errors.New("trailing data after JSON value")

// NodeData is a payload in exactly one representation. The zero value is
// Raw(empty).
type NodeData struct {
	kind  Kind
	raw   []byte
	text  string
	value any
}

// Raw wraps payload bytes as stored.
func Raw(b []byte) NodeData {
	return NodeData{kind: KindRaw, raw: append([]byte(nil), b...)}
}

// Text wraps a decoded string.
func Text(s string) NodeData {
	return NodeData{kind: KindText, text: s}
}

// Structured wraps a parsed value (maps, slices, scalars, nil).
func Structured(v any) NodeData {
	return NodeData{kind: KindStructured, value: v}
}

func (d NodeData) Kind() Kind { return d.kind }

// Bytes returns the payload when the representation is Raw.
func (d NodeData) Bytes() ([]byte, bool) {
	if d.kind != KindRaw {
		return nil, false
	}
	return append([]byte(nil), d.raw...), true
}

// Str returns the string when the representation is Text.
func (d NodeData) Str() (string, bool) {
	if d.kind != KindText {
		return "", false
	}
	return d.text, true
}

// Value returns the parsed value when the representation is Structured.
func (d NodeData) Value() (any, bool) {
	if d.kind != KindStructured {
		return nil, false
	}
	return d.value, true
}

// ToText decodes Raw as lossy UTF-8 and renders Structured in canonical form.
// Invalid byte sequences become U+FFFD.
func (d NodeData) ToText() NodeData {
	switch d.kind {
	case KindRaw:
		return Text(strings.ToValidUTF8(string(d.raw), string(utf8.RuneError)))
	case KindStructured:
		return Text(canonical(d.value))
	default:
		return d
	}
}

// ToStructured parses Raw or Text. JSON is tried first; other encodings
// (YAML, TOML, JWT) are accepted when they yield a map or a list that has a
// canonical JSON form. On failure the receiver is returned unchanged.
func (d NodeData) ToStructured() NodeData {
	var input []byte
	switch d.kind {
	case KindRaw:
		input = d.raw
	case KindText:
		input = []byte(d.text)
	default:
		return d
	}
	if v, err := parseJSON(input); err == nil {
		return Structured(v)
	}
	if v, ok := loader.TryDecode(string(input)); ok {
		// YAML admits values such as .inf that have no JSON text.
		if _, err := formatter.MarshalJSON(v, ""); err == nil {
			return Structured(v)
		}
	}
	return d
}

// ToRaw encodes Text as UTF-8 and Structured as canonical JSON. A structured
// value that cannot be serialized becomes an empty payload.
func (d NodeData) ToRaw() NodeData {
	switch d.kind {
	case KindText:
		return Raw([]byte(d.text))
	case KindStructured:
		b, err := formatter.MarshalJSON(d.value, "")
		if err != nil {
			return Raw(nil)
		}
		return Raw(b)
	default:
		return d
	}
}

// String renders Raw as a byte list, Text as itself and Structured in
// canonical form.
func (d NodeData) String() string {
	switch d.kind {
	case KindText:
		return d.text
	case KindStructured:
		return canonical(d.value)
	default:
		return byteList(d.raw)
	}
}

// Render is String with a display style applied to structured values. Styles
// that fail to render fall back to the canonical form.
func (d NodeData) Render(style Style) string {
	if d.kind != KindStructured {
		return d.String()
	}
	switch style {
	case StyleJSONPretty:
		if b, err := formatter.MarshalJSON(d.value, "  "); err == nil {
			return string(b)
		}
	case StyleYAML:
		if s, err := formatter.FormatYAML(d.value, formatter.YAMLFormatOptions{LiteralBlockStrings: true}); err == nil {
			return strings.TrimRight(s, "\n")
		}
	case StyleTree:
		return formatter.FormatTree(d.value)
	}
	return canonical(d.value)
}

func canonical(v any) string {
	b, err := formatter.MarshalJSON(v, "")
	if err != nil {
		return ""
	}
	return string(b)
}

func parseJSON(input []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return v, nil
}

func byteList(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, c := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(c)))
	}
	sb.WriteByte(']')
	return sb.String()
}
