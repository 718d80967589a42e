// Package lower implements the structural translation core of the Exalt
// backend: loop exit analysis, switch-to-pattern compilation, structural
// literal classification, and the recursive expression compiler they share.
// All state lives for exactly one function's compilation; lowering the same
// tree twice produces byte-identical output.
package lower

import "strings"

// Normalize converts a camelCase identifier to the target's snake_case
// convention. Normalization is idempotent: an already snake_case name comes
// back unchanged. An uppercase run is treated as one word, so "parseURL"
// becomes "parse_url" and "maxHTTPRetries" becomes "max_http_retries".
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 && name[i-1] != '_' && (!isUpper(name[i-1]) || (i+1 < len(name) && isLower(name[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteByte(c - 'A' + 'a')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
