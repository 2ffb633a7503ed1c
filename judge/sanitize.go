package judge

import (
	"strings"
	"unicode"
)

// sanitize strips non-printable runes (newline and tab excepted)
// and replaces invalid UTF-8 with spaces. Submitted code may be
// LLM-generated and carry encoding artifacts the judge rejects.
func sanitize(s string) string {
	s = strings.ToValidUTF8(s, " ")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}
