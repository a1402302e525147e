package txtp

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// Sanitize makes a descriptor name safe as a filename: filesystem
// separators and control characters become spaces, runs of whitespace
// collapse.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '<' || r == '>' || r == '|' || r == '"':
			r = ' '
			fallthrough
		case unicode.IsSpace(r):
			if !prevSpace && b.Len() > 0 {
				b.WriteRune(' ')
				prevSpace = true
			}
		case unicode.IsControl(r):
			// drop
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

// FoldKey returns the case-folded collision key for a name. Artifact
// names land on case-insensitive filesystems, so collision detection
// must fold rather than compare bytes.
func FoldKey(name string) string {
	return foldCaser.String(name)
}
