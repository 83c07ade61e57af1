package loader

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

func splitToken(input string) []string {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "Bearer "))
	return strings.Split(input, ".")
}

func decodeSegment(part string) (map[string]any, error) {
	raw, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// IsJWT reports whether input is three non-empty base64url parts whose first
// two decode to JSON objects. Tokens are commonly stored in config nodes.
func IsJWT(input string) bool {
	parts := splitToken(input)
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	for _, part := range parts[:2] {
		if _, err := decodeSegment(part); err != nil {
			return false
		}
	}
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT returns the token as {header, payload, signature}. The signature
// stays base64url encoded.
func DecodeJWT(input string) (map[string]any, error) {
	parts := splitToken(input)
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid JWT: expected 3 parts, got %d", len(parts))
	}
	header, err := decodeSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT header: %w", err)
	}
	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT payload: %w", err)
	}
	return map[string]any{
		"header":    header,
		"payload":   payload,
		"signature": parts[2],
	}, nil
}
