package octopart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// structureChars pass through unescaped so embedded JSON stays readable to
// the server.
const structureChars = `[]{}":+,`

// EncodeQuery serializes validated arguments into a query string. Booleans
// become 1/0, lists and mappings become compact JSON, and everything else
// uses its canonical string form. Keys are emitted in sorted order.
func EncodeQuery(args Args) (string, error) {
	parts := make([]string, 0, len(args))
	for _, k := range slices.Sorted(maps.Keys(args)) {
		v, err := encodeValue(args[k])
		if err != nil {
			return "", fmt.Errorf("encoding argument %q: %w", k, err)
		}
		parts = append(parts, escape(k)+"="+escape(v))
	}
	return strings.Join(parts, "&"), nil
}

func encodeValue(v any) (string, error) {
	if b, ok := boolValue(v); ok {
		if b {
			return "1", nil
		}
		return "0", nil
	}
	if _, ok := listValue(v); ok {
		return compactJSON(v)
	}
	if _, ok := mapValue(v); ok {
		return compactJSON(v)
	}
	return scalarString(v), nil
}

func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := range len(s) {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case isUnreserved(c), strings.IndexByte(structureChars, c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	default:
		return false
	}
}
