// Package textnorm folds Unicode text to the ASCII the transcriber reads.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punct maps typographic punctuation to its ASCII form.
var punct = map[rune]rune{
	'‘': '\'', '’': '\'', '‚': '\'', '′': '\'',
	'“': '"', '”': '"', '„': '"', '″': '"',
	'‐': '-', '‑': '-', '‒': '-', '–': '-', '—': '-', '−': '-',
	'«': '"', '»': '"',
}

func toASCII(r rune) rune {
	if r < 0x80 {
		return r
	}
	if a, ok := punct[r]; ok {
		return a
	}
	return ' '
}

// Fold decomposes s, strips combining marks, maps typographic punctuation
// to ASCII and replaces any other non-ASCII rune with a space. Runs of
// whitespace collapse to one space.
func Fold(s string) string {
	// Transformers carry state, so the chain is built per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), runes.Map(toASCII))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}
