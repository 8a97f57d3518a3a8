package logging

import (
	"fmt"
	"strings"
)

// Sanitize escapes control characters in s so a hostile file name cannot
// forge log lines or emit terminal escape sequences. Printable Unicode is
// kept as-is.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 32 || r == 127 {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
