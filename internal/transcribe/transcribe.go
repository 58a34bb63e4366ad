// Package transcribe turns English text into phoneme strings.
//
// Text is scanned once, left to right, and split into tokens: bracketed
// phoneme literals, words, numbers and punctuation. Words go through the
// letter-to-sound rules unless they look like abbreviations, in which case
// they are spelled out. Numbers are read as cardinals or digit by digit.
package transcribe

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/nadzzz/formantd/internal/elements"
	"github.com/nadzzz/formantd/internal/rules"
)

// DefaultMaxCardinalDigits is the longest bare digit run read as a number.
const DefaultMaxCardinalDigits = 2

// Options configures a Transcriber.
type Options struct {
	// MaxCardinalDigits is the longest unsigned, ungrouped digit run read
	// as a cardinal. Longer runs are read digit by digit. 0 takes the
	// default.
	MaxCardinalDigits int
	// Rules translates words. nil takes rules.English.
	Rules *rules.Table
}

// Stats counts what happened to the tokens of one text.
type Stats struct {
	Words     int // words read through the rules
	Spelled   int // words spelled letter by letter
	Numbers   int // numeric tokens
	Literals  int // bracketed phoneme literals
	Unmatched int // letters no rule covered
	Dropped   int // bytes with no reading
}

// Transcriber converts text to phonemes. It is safe for concurrent use.
type Transcriber struct {
	maxDigits int
	table     *rules.Table
}

// New returns a Transcriber.
func New(opts Options) *Transcriber {
	if opts.MaxCardinalDigits <= 0 {
		opts.MaxCardinalDigits = DefaultMaxCardinalDigits
	}
	if opts.Rules == nil {
		opts.Rules = rules.English()
	}
	return &Transcriber{maxDigits: opts.MaxCardinalDigits, table: opts.Rules}
}

// Transcribe returns the phoneme string for text. Tokens are separated by
// single spaces; "." marks the end of a phrase and "_" a short pause.
func (t *Transcriber) Transcribe(text string) (string, Stats) {
	var (
		out   []string
		stats Stats
	)
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case isSpace(c):
			i++

		case c == '[':
			end := strings.IndexByte(text[i+1:], ']')
			if end < 0 {
				stats.Dropped++
				i++
				continue
			}
			if lit := strings.TrimSpace(text[i+1 : i+1+end]); lit != "" {
				out = append(out, lit)
				stats.Literals++
			}
			i += end + 2

		default:
			if end, ok := scanNumber(text, i); ok {
				out = t.words(out, t.numberWords(text[i:end]), &stats)
				stats.Numbers++
				i = end
				continue
			}
			if isAlnum(c) {
				end := scanWord(text, i)
				w := text[i:end]
				if suspect(w) {
					out = t.words(out, SpellWords(w), &stats)
					stats.Spelled++
				} else {
					out = t.word(out, w, &stats)
					stats.Words++
				}
				i = end
				continue
			}
			out = t.punct(out, c, &stats)
			i++
		}
	}
	return strings.Join(out, " "), stats
}

func (t *Transcriber) punct(out []string, c byte, stats *Stats) []string {
	switch c {
	case '.', '!', '?':
		return append(out, ".")
	case ',', ';', ':':
		return append(out, "_")
	}
	if n := Name(c); n != "" {
		return t.words(out, strings.Fields(n), stats)
	}
	if c != '-' && c != '\'' && c != '"' {
		stats.Dropped++
	}
	return out
}

func (t *Transcriber) words(out []string, ws []string, stats *Stats) []string {
	for _, w := range ws {
		out = t.word(out, w, stats)
	}
	return out
}

func (t *Transcriber) word(out []string, w string, stats *Stats) []string {
	ph, unmatched := t.table.Apply(w)
	stats.Unmatched += unmatched
	if unmatched > 0 {
		slog.Debug("word partly transcribed", "word", w, "unmatched", unmatched)
	}
	ph = strings.TrimSpace(ph)
	if ph == "" {
		return out
	}
	return append(out, Stress(ph))
}

// numberWords reads a token accepted by scanNumber.
func (t *Transcriber) numberWords(tok string) []string {
	var w []string
	switch tok[0] {
	case '-':
		w = append(w, "minus")
		tok = tok[1:]
	case '+':
		w = append(w, "plus")
		tok = tok[1:]
	}
	intPart, frac, hasPoint := strings.Cut(tok, ".")
	grouped := strings.ContainsRune(intPart, ',')
	digits := strings.ReplaceAll(intPart, ",", "")

	cardinal := len(w) > 0 || grouped || hasPoint ||
		(len(digits) <= t.maxDigits && (len(digits) == 1 || digits[0] != '0'))
	n, err := strconv.ParseInt(digits, 10, 64)
	if !cardinal || err != nil {
		w = append(w, DigitWords(digits)...)
	} else {
		w = append(w, CardinalWords(n)...)
	}
	if hasPoint {
		w = append(w, "point")
		w = append(w, DigitWords(frac)...)
	}
	return w
}

// Stress marks primary stress on the first full vowel of a word's phonemes
// unless it already carries a stress marker. Words whose only vowel is
// schwa stay unstressed.
func Stress(ph string) string {
	if strings.ContainsAny(ph, "',+") {
		return ph
	}
	for i := 0; i < len(ph); {
		sym := elements.Next(ph, i)
		if sym == "" {
			i++
			continue
		}
		if sym != "@" && elements.IsVowel(sym) {
			return ph[:i] + "'" + ph[i:]
		}
		i += len(sym)
	}
	return ph
}

// suspect reports whether w should be spelled rather than read: it holds
// a digit, has no vowel, is all capitals, or has a capital after the
// first letter alongside lower case.
func suspect(w string) bool {
	var vowel, lower, upper, innerUpper bool
	for i := 0; i < len(w); i++ {
		c := w[i]
		switch {
		case isDigit(c):
			return true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
			if i > 0 {
				innerUpper = true
			}
		}
		if strings.IndexByte("AEIOUYaeiouy", c) >= 0 {
			vowel = true
		}
	}
	letters := len(w) - strings.Count(w, "'")
	switch {
	case !vowel:
		return true
	case innerUpper && lower:
		return true
	case upper && !lower && letters > 1:
		return true
	}
	return false
}

// scanWord returns the end of the alphanumeric run starting at i. An
// apostrophe stays in the word when a letter follows it.
func scanWord(s string, i int) int {
	for i < len(s) {
		c := s[i]
		if isAlnum(c) || (c == '\'' && i+1 < len(s) && isAlpha(s[i+1])) {
			i++
			continue
		}
		break
	}
	return i
}

// scanNumber reports whether a number starts at i and where it ends. A
// number is an optional sign not preceded by a letter or digit, a digit
// run with optional comma groups of three, and an optional decimal
// fraction. A number running into a letter is part of a word instead.
func scanNumber(s string, i int) (int, bool) {
	j := i
	if s[j] == '-' || s[j] == '+' {
		if i > 0 && isAlnum(s[i-1]) {
			return 0, false
		}
		j++
	}
	start := j
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == start {
		return 0, false
	}
	for j < len(s) && s[j] == ',' && allDigits(s, j+1, j+4) && (j+4 == len(s) || !isDigit(s[j+4])) {
		j += 4
	}
	if j+1 < len(s) && s[j] == '.' && isDigit(s[j+1]) {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
		}
	}
	if j < len(s) && isAlpha(s[j]) {
		return 0, false
	}
	return j, true
}

func allDigits(s string, from, to int) bool {
	if to > len(s) {
		return false
	}
	for k := from; k < to; k++ {
		if !isDigit(s[k]) {
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }
