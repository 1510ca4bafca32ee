package testgen

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("(?i)^```[a-z0-9_+-]*[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?```\\s*$")
)

// ExtractJSON isolates the first balanced top-level array or object in raw provider text.
// It strips a single markdown fence around the payload and ignores brackets inside string
// literals. The result is not guaranteed to be valid JSON; a truncated payload is returned
// from its opening bracket to the end so the decoder can report it. ok is false only when
// raw is empty.
func ExtractJSON(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	cleaned := strings.TrimSpace(raw)
	cleaned = leadingFence.ReplaceAllString(cleaned, "")
	cleaned = trailingFence.ReplaceAllString(cleaned, "")

	start := strings.IndexAny(cleaned, "[{")
	if start < 0 {
		return strings.TrimSpace(cleaned), true
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(cleaned[start : i+1]), true
			}
		}
	}
	return strings.TrimSpace(cleaned[start:]), true
}
