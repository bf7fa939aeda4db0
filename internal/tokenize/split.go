// Package tokenize splits text into the units the typist emits one at a time.
package tokenize

import (
	"strings"

	"github.com/rivo/uniseg"
)

const esc = '\x1b'

// Split breaks text into user-perceived characters. ANSI escape sequences
// are kept whole so that a color change is emitted as a single unit.
func Split(text string) []string {
	units := make([]string, 0, len(text))
	for len(text) > 0 {
		i := strings.IndexByte(text, esc)
		if i < 0 {
			return appendGraphemes(units, text)
		}
		units = appendGraphemes(units, text[:i])
		n := escapeLen(text[i:])
		units = append(units, text[i:i+n])
		text = text[i+n:]
	}
	return units
}

func appendGraphemes(units []string, text string) []string {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		units = append(units, g.Str())
	}
	return units
}

// escapeLen returns the length of the escape sequence at the start of s.
// s[0] must be ESC. Unterminated sequences extend to the end of s.
func escapeLen(s string) int {
	if len(s) < 2 {
		return len(s)
	}
	switch s[1] {
	case '[':
		// CSI: parameter and intermediate bytes, then a final byte in 0x40..0x7e
		for i := 2; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return len(s)
	case ']':
		// OSC: terminated by BEL or ST (ESC \)
		for i := 2; i < len(s); i++ {
			if s[i] == '\a' {
				return i + 1
			}
			if s[i] == esc && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return len(s)
	default:
		return 2
	}
}
