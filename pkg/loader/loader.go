// Package loader decodes node payloads into generic structured values.
//
// ZooKeeper payloads are opaque bytes, but in practice they are usually JSON,
// YAML, TOML or a bearer token. The loader sniffs the payload and returns the
// parsed tree as map[string]any / []any / scalars.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrEmptyPayload is returned when there is nothing to decode.
var ErrEmptyPayload = errors.New("empty payload")

// Format names the encoding detected for a payload.
type Format string

const (
	FormatJWT  Format = "jwt"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

var (
	tomlSectionPattern  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// Detect guesses the payload format. JSON is only reported for input that
// starts like an object or array; everything else not matched falls to YAML.
func Detect(input string) Format {
	input = strings.TrimSpace(input)
	switch {
	case IsJWT(input):
		return FormatJWT
	case strings.HasPrefix(input, "---") || strings.Contains(input, "\n---"):
		return FormatYAML
	case isLikelyTOML(input):
		return FormatTOML
	case strings.HasPrefix(input, "{") || strings.HasPrefix(input, "["):
		return FormatJSON
	default:
		return FormatYAML
	}
}

// LoadPayload parses a payload into a single root value. Multi-document YAML
// is returned as a slice of documents.
func LoadPayload(data []byte) (any, Format, error) {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return nil, "", ErrEmptyPayload
	}

	format := Detect(input)
	var (
		root any
		err  error
	)
	switch format {
	case FormatJWT:
		root, err = DecodeJWT(input)
	case FormatTOML:
		err = toml.Unmarshal([]byte(input), &root)
		if err != nil {
			err = fmt.Errorf("invalid TOML: %w", err)
		}
	case FormatJSON, FormatYAML:
		// YAML is a superset of JSON, so one decoder serves both.
		root, err = loadYAMLDocuments(input)
		root = stringKeys(root)
	}
	if err != nil {
		return nil, format, err
	}
	return root, format, nil
}

// TryDecode attempts to parse a string as structured data. Only results that
// are maps or slices count: a bare word parses as a YAML scalar, which is not
// a useful structured view of a payload.
func TryDecode(value string) (any, bool) {
	root, _, err := LoadPayload([]byte(value))
	if err != nil {
		return nil, false
	}
	switch root.(type) {
	case map[string]any, []any:
		return root, true
	}
	return nil, false
}

func loadYAMLDocuments(input string) (any, error) {
	var docs []any
	dec := yaml.NewDecoder(bytes.NewReader([]byte(input)))
	for {
		var doc any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	switch len(docs) {
	case 0:
		return nil, fmt.Errorf("no documents found in payload")
	case 1:
		return docs[0], nil
	default:
		return docs, nil
	}
}

// stringKeys rewrites YAML mappings with non-string keys (map[any]any) into
// map[string]any so every decoded tree has JSON-compatible keys.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}

// isLikelyTOML looks for [section] headers or a majority of key = value lines.
func isLikelyTOML(input string) bool {
	sections, pairs, nonEmpty := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSectionPattern.MatchString(line) {
			sections++
		}
		if tomlKeyValuePattern.MatchString(line) {
			pairs++
		}
	}
	if sections > 0 {
		return true
	}
	return nonEmpty > 0 && pairs > nonEmpty/2
}
