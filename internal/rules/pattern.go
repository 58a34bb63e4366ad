package rules

import (
	"log/slog"
	"strings"
)

type opcode uint8

const (
	opLiteral    opcode = iota // exact character
	opVowels                   // '#' one or more of A E I O U
	opConsonants               // ':' zero or more consonants
	opConsonant                // '^' exactly one consonant
	opVoiced                   // '.' one of B D V G J L M N R W Z
	opFront                    // '+' one of E I Y
	opSuffix                   // '%' E ER ES ED ELY ING
	opSibilant                 // '&' S C G Z X J CH SH
	opLongU                    // '@' T S R D L Z N J TH CH SH
	opInvalid
)

type op struct {
	code opcode
	ch   byte
}

// Pattern is a compiled context pattern. The zero Pattern matches
// anything.
type Pattern struct {
	src string
	ops []op
}

// Compile translates a context pattern into op-codes. Letters, the
// apostrophe and space are literals. Characters outside the pattern
// alphabet compile to an invalid op that is reported and skipped at match
// time.
func Compile(src string) Pattern {
	p := Pattern{src: src, ops: make([]op, 0, len(src))}
	for i := 0; i < len(src); i++ {
		c := src[i]
		var code opcode
		switch {
		case c == '#':
			code = opVowels
		case c == ':':
			code = opConsonants
		case c == '^':
			code = opConsonant
		case c == '.':
			code = opVoiced
		case c == '+':
			code = opFront
		case c == '%':
			code = opSuffix
		case c == '&':
			code = opSibilant
		case c == '@':
			code = opLongU
		case c == ' ' || c == '\'' || (c >= 'A' && c <= 'Z'):
			code = opLiteral
		default:
			code = opInvalid
		}
		p.ops = append(p.ops, op{code: code, ch: c})
	}
	return p
}

// String returns the pattern source.
func (p Pattern) String() string { return p.src }

// MatchRight reports whether the pattern matches word read forward from
// index start.
func (p Pattern) MatchRight(word []byte, start int) bool {
	i := start
	for _, o := range p.ops {
		c := at(word, i)
		switch o.code {
		case opLiteral:
			if c != o.ch {
				return false
			}
			i++
		case opVowels:
			if !isVowel(c) {
				return false
			}
			i++
			for isVowel(at(word, i)) {
				i++
			}
		case opConsonants:
			for isConsonant(at(word, i)) {
				i++
			}
		case opConsonant:
			if !isConsonant(c) {
				return false
			}
			i++
		case opVoiced:
			if !isVoiced(c) {
				return false
			}
			i++
		case opFront:
			if !isFront(c) {
				return false
			}
			i++
		case opSuffix:
			n := suffixAhead(word, i)
			if n == 0 {
				return false
			}
			i += n
		case opSibilant:
			switch {
			case (c == 'C' || c == 'S') && at(word, i+1) == 'H':
				i += 2
			case oneOf(c, "SCGZXJ"):
				i++
			default:
				return false
			}
		case opLongU:
			switch {
			case oneOf(c, "TCS") && at(word, i+1) == 'H':
				i += 2
			case oneOf(c, "TSRDLZNJ"):
				i++
			default:
				return false
			}
		default:
			p.invalid(o)
		}
	}
	return true
}

// MatchLeft reports whether the pattern matches word read backward from
// index end, the character just before the matched text. The pattern is
// written in reading order and applied from its last character.
func (p Pattern) MatchLeft(word []byte, end int) bool {
	i := end
	for k := len(p.ops) - 1; k >= 0; k-- {
		o := p.ops[k]
		c := at(word, i)
		switch o.code {
		case opLiteral:
			if c != o.ch {
				return false
			}
			i--
		case opVowels:
			if !isVowel(c) {
				return false
			}
			i--
			for isVowel(at(word, i)) {
				i--
			}
		case opConsonants:
			for isConsonant(at(word, i)) {
				i--
			}
		case opConsonant:
			if !isConsonant(c) {
				return false
			}
			i--
		case opVoiced:
			if !isVoiced(c) {
				return false
			}
			i--
		case opFront:
			if !isFront(c) {
				return false
			}
			i--
		case opSuffix:
			n := suffixBehind(word, i)
			if n == 0 {
				return false
			}
			i -= n
		case opSibilant:
			switch {
			case c == 'H' && oneOf(at(word, i-1), "CS"):
				i -= 2
			case oneOf(c, "SCGZXJ"):
				i--
			default:
				return false
			}
		case opLongU:
			switch {
			case c == 'H' && oneOf(at(word, i-1), "TCS"):
				i -= 2
			case oneOf(c, "TSRDLZNJ"):
				i--
			default:
				return false
			}
		default:
			p.invalid(o)
		}
	}
	return true
}

func (p Pattern) invalid(o op) {
	slog.Warn("invalid context pattern character skipped", "pattern", p.src, "char", string(o.ch))
}

// suffixAhead returns the length of the suffix shape starting at i, or 0.
// A lone E matches, and an L after E is only taken as part of ELY.
func suffixAhead(word []byte, i int) int {
	switch at(word, i) {
	case 'E':
		switch at(word, i+1) {
		case 'L':
			if at(word, i+2) == 'Y' {
				return 3
			}
			return 1
		case 'R', 'S', 'D':
			return 2
		}
		return 1
	case 'I':
		if at(word, i+1) == 'N' && at(word, i+2) == 'G' {
			return 3
		}
	}
	return 0
}

var suffixes = []string{"ING", "ELY", "ER", "ES", "ED", "E"}

// suffixBehind returns the length of the suffix shape ending at i, or 0.
func suffixBehind(word []byte, i int) int {
	for _, s := range suffixes {
		start := i - len(s) + 1
		if start >= 0 && i < len(word) && string(word[start:i+1]) == s {
			return len(s)
		}
	}
	return 0
}

func at(word []byte, i int) byte {
	if i < 0 || i >= len(word) {
		return 0
	}
	return word[i]
}

func oneOf(c byte, set string) bool {
	return c != 0 && strings.IndexByte(set, c) >= 0
}

func isVowel(c byte) bool { return oneOf(c, "AEIOU") }

func isConsonant(c byte) bool { return c >= 'A' && c <= 'Z' && !isVowel(c) }

func isVoiced(c byte) bool { return oneOf(c, "BDVGJLMNRWZ") }

func isFront(c byte) bool { return oneOf(c, "EIY") }
