package rules

import (
	"strings"
	"testing"
)

func TestPattern_MatchRight(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		word    string
		start   int
		want    bool
	}{
		{"empty matches", "", " CAT ", 1, true},
		{"literal", "AT", " CAT ", 2, true},
		{"literal mismatch", "AX", " CAT ", 2, false},
		{"boundary", " ", " CAT ", 4, true},
		{"vowel run", "#", " TEA ", 2, true},
		{"vowel run needs one", "#", " TEA ", 1, false},
		{"vowel run then literal", "#S", " TEAS ", 2, true},
		{"consonant run zero", ":A", " CAT ", 2, true},
		{"consonant run many", ":A", " STRAP ", 1, true},
		{"one consonant", "^", " CAT ", 1, true},
		{"one consonant rejects vowel", "^", " CAT ", 2, false},
		{"voiced", ".", " BAD ", 1, true},
		{"voiced rejects T", ".", " TAD ", 1, false},
		{"front vowel", "+", " CITY ", 2, true},
		{"front vowel rejects A", "+", " CAT ", 2, false},
		{"suffix ING", "% ", " WALKING ", 5, true},
		{"suffix ELY", "% ", " LATELY ", 4, true},
		{"suffix ED", "% ", " NAMED ", 4, true},
		{"suffix lone E", "% ", " MATE ", 4, true},
		{"suffix keeps L", "%L", " CAMEL ", 4, true},
		{"suffix rejects A", "%", " CAT ", 2, false},
		{"sibilant CH", "&E", " CHE ", 1, true},
		{"sibilant X", "&", " AX ", 2, true},
		{"sibilant rejects T", "&", " AT ", 2, false},
		{"long U TH", "@U", " THU ", 1, true},
		{"long U N", "@", " NU ", 1, true},
		{"long U rejects K", "@", " KU ", 1, false},
		{"invalid skipped", "1A", " CAT ", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile(tt.pattern)
			if got := p.MatchRight([]byte(tt.word), tt.start); got != tt.want {
				t.Errorf("Compile(%q).MatchRight(%q, %d) = %v, want %v", tt.pattern, tt.word, tt.start, got, tt.want)
			}
		})
	}
}

func TestPattern_MatchLeft(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		word    string
		end     int
		want    bool
	}{
		{"empty matches", "", " CAT ", 0, true},
		{"word start", " ", " CAT ", 0, true},
		{"literal read backward", "CA", " CAT ", 2, true},
		{"literal mismatch", "AC", " CAT ", 2, false},
		{"space then consonants", " :", " STRAP ", 3, true},
		{"space then consonants blocked by vowel", " :", " SEAT ", 3, false},
		{"vowels then consonants", "#:", " BAKED ", 3, true},
		{"vowels then consonant then E", "#:^E", " BAKED ", 4, true},
		{"front vowel", "+", " CITY ", 2, true},
		{"sibilant SH", "&", " WISHES ", 4, true},
		{"long U CH", "@", " CHEW ", 2, true},
		{"long U rejects B", "@", " BEW ", 1, false},
		{"suffix ING", "%", " SINGING ", 7, true},
		{"invalid skipped", "C1", " CAT ", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile(tt.pattern)
			if got := p.MatchLeft([]byte(tt.word), tt.end); got != tt.want {
				t.Errorf("Compile(%q).MatchLeft(%q, %d) = %v, want %v", tt.pattern, tt.word, tt.end, got, tt.want)
			}
		})
	}
}

// A pattern of letters only matches exactly where the text is byte-equal.
func TestPattern_LiteralMatchesIffEqual(t *testing.T) {
	word := []byte(" ABRACADABRA ")
	for _, lit := range []string{"A", "AB", "BRA", "CAD", "ABRA", "RAC", "XYZ"} {
		p := Compile(lit)
		for i := 0; i <= len(word); i++ {
			want := i+len(lit) <= len(word) && string(word[i:i+len(lit)]) == lit
			if got := p.MatchRight(word, i); got != want {
				t.Errorf("MatchRight(%q, %d) = %v, want %v", lit, i, got, want)
			}
			end := i + len(lit) - 1
			if got := p.MatchLeft(word, end); got != want {
				t.Errorf("MatchLeft(%q, %d) = %v, want %v", lit, end, got, want)
			}
		}
	}
}

func TestEnglish_Apply(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"cat", "k{t"},
		{"CAT", "k{t"},
		{"the", "D@"},
		{"this", "DIs"},
		{"phone", "f@Un"},
		{"ship", "SIp"},
		{"knight", "naIt"},
		{"bee", "bi:"},
		{"one", "wVn"},
		{"two", "tu:"},
		{"three", "Tri:"},
		{"five", "faIv"},
		{"six", "sIks"},
		{"nine", "naIn"},
		{"eight", "eIt"},
		{"owe", "@U"},
		{"why", "waI"},
		{"zed", "zed"},
		{"john's", "dZ0nz"},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, unmatched := English().Apply(tt.word)
			if got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.word, got, tt.want)
			}
			if unmatched != 0 {
				t.Errorf("Apply(%q) left %d characters unmatched", tt.word, unmatched)
			}
		})
	}
}

func TestEnglish_UnknownCharacterSkipped(t *testing.T) {
	got, unmatched := English().Apply("c%t")
	if unmatched != 1 {
		t.Errorf("unmatched = %d, want 1", unmatched)
	}
	if got != "kt" {
		t.Errorf("Apply(c%%t) = %q, want %q", got, "kt")
	}
}

func TestEnglish_EveryLetterHasFallback(t *testing.T) {
	tab := English()
	for c := byte('A'); c <= 'Z'; c++ {
		list := tab.List(c)
		if len(list) == 0 {
			t.Fatalf("no rules for %c", c)
		}
		// A single letter in any context must translate.
		for _, w := range []string{string(c), "A" + string(c) + "A", "T" + string(c) + "T"} {
			if _, unmatched := tab.Apply(w); unmatched != 0 {
				t.Errorf("Apply(%q) left %d unmatched", w, unmatched)
			}
		}
	}
}

func TestEnglish_RulesFiledByFirstLetter(t *testing.T) {
	tab := English()
	if tab.Len() != len(englishRules) {
		t.Errorf("Len() = %d, want %d", tab.Len(), len(englishRules))
	}
	for c := byte('A'); c <= 'Z'; c++ {
		for _, r := range tab.List(c) {
			if !strings.HasPrefix(r.Match, string(c)) {
				t.Errorf("rule %q filed under %c", r.Match, c)
			}
		}
	}
}
