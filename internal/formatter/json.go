// Package formatter renders structured node payloads and stat snapshots as text.
package formatter

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// MarshalJSON encodes v without HTML escaping and without a trailing newline.
// An empty indent produces the compact canonical form.
func MarshalJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// PlainNumbers returns a copy of v where json.Number leaves are replaced by
// int64 or float64 values.
func PlainNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(t.String(), 64); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = PlainNumbers(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = PlainNumbers(val)
		}
		return out
	default:
		return v
	}
}
