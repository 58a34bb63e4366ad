// Package rules implements letter-to-sound translation with ordered
// context rules.
//
// A rule rewrites a run of letters to phoneme symbols when the letters
// before and after it match its context patterns. Rules are grouped by the
// first character of their match text, one list per letter plus one for
// punctuation, and within a list the first rule that matches wins.
package rules

import (
	"log/slog"
	"strings"
)

// Rule rewrites Match to Output when Left matches the text before it and
// Right matches the text after it.
type Rule struct {
	Left   Pattern
	Match  string
	Right  Pattern
	Output string
}

// Table holds 27 ordered rule lists: index 0 for punctuation and 1-26 for
// the letters A to Z.
type Table struct {
	lists [27][]Rule
}

// Source is an uncompiled rule: left context, match text, right context
// and phoneme output.
type Source [4]string

// NewTable compiles rule sources into a table. Each rule is filed under the
// list for the first character of its match text; rules with empty match
// text are ignored.
func NewTable(src []Source) *Table {
	t := &Table{}
	for _, s := range src {
		if s[1] == "" {
			slog.Warn("letter-to-sound rule with empty match ignored", "left", s[0], "right", s[2])
			continue
		}
		i := listIndex(s[1][0])
		t.lists[i] = append(t.lists[i], Rule{
			Left:   Compile(s[0]),
			Match:  s[1],
			Right:  Compile(s[2]),
			Output: s[3],
		})
	}
	return t
}

func listIndex(c byte) int {
	if c >= 'A' && c <= 'Z' {
		return int(c-'A') + 1
	}
	return 0
}

// List returns the rules tried for words whose cursor is at character c.
func (t *Table) List(c byte) []Rule {
	return t.lists[listIndex(c)]
}

// Len returns the total number of rules in the table.
func (t *Table) Len() int {
	n := 0
	for _, l := range t.lists {
		n += len(l)
	}
	return n
}

// Find returns the first rule matching word at index i, where word is the
// space-padded upper-case buffer.
func (t *Table) Find(word []byte, i int) (Rule, bool) {
	for _, r := range t.List(word[i]) {
		end := i + len(r.Match)
		if end > len(word) || string(word[i:end]) != r.Match {
			continue
		}
		if !r.Left.MatchLeft(word, i-1) {
			continue
		}
		if !r.Right.MatchRight(word, end) {
			continue
		}
		return r, true
	}
	return Rule{}, false
}

// Apply translates one word to phoneme symbols. The word is upper-cased and
// padded with a space on both sides. Characters no rule covers are skipped
// and counted in unmatched.
func (t *Table) Apply(word string) (phonemes string, unmatched int) {
	buf := make([]byte, 0, len(word)+2)
	buf = append(buf, ' ')
	buf = append(buf, strings.ToUpper(word)...)
	buf = append(buf, ' ')

	var out strings.Builder
	for i := 1; i < len(buf)-1; {
		r, ok := t.Find(buf, i)
		if !ok {
			slog.Debug("no letter-to-sound rule", "char", string(buf[i]), "word", word)
			unmatched++
			i++
			continue
		}
		out.WriteString(r.Output)
		i += len(r.Match)
	}
	return out.String(), unmatched
}
