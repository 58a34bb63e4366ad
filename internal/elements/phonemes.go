package elements

import "log/slog"

// phonemes maps each symbol to the elements it expands to.
var phonemes = map[string][]ID{
	"i:": {IY},
	"I":  {I},
	"e":  {E},
	"{":  {AA},
	"V":  {U},
	"0":  {O},
	"U":  {OO},
	"@":  {A},
	"3:": {ER},
	"A:": {AR},
	"O:": {AW},
	"u:": {UU},

	"eI": {AI, IX},
	"aI": {IE, IX},
	"OI": {OI, IX},
	"aU": {OU, OV},
	"@U": {OA, OV},
	"I@": {IA, A},
	"e@": {AIR, A},
	"U@": {OOR, A},

	"p":  {P, PY, PZ},
	"t":  {T, TY, TZ},
	"k":  {K, KY, KZ},
	"b":  {B, BY, BZ},
	"d":  {D, DY, DZ},
	"g":  {G, GY, GZ},
	"tS": {T, CH, CI},
	"dZ": {D, J, JY},

	"m": {M},
	"n": {N},
	"N": {NG},

	"f": {F},
	"T": {TH},
	"s": {S},
	"S": {SH},
	"h": {H},
	"v": {V},
	"D": {DH},
	"z": {Z},
	"Z": {ZH},

	"l": {L},
	"r": {R},
	"w": {W},
	"j": {Y},

	"_": {Q},
	".": {END},
}

// Stress returns the stress level set by marker c.
func Stress(c byte) (level int, ok bool) {
	switch c {
	case '\'':
		return 3, true
	case ',':
		return 2, true
	case '+':
		return 1, true
	case '-':
		return 0, true
	}
	return 0, false
}

// Next returns the longest phoneme symbol at s[i:], trying two characters
// before one. It returns "" when no symbol starts at i.
func Next(s string, i int) string {
	if i+2 <= len(s) {
		if _, ok := phonemes[s[i:i+2]]; ok {
			return s[i : i+2]
		}
	}
	if i < len(s) {
		if _, ok := phonemes[s[i:i+1]]; ok {
			return s[i : i+1]
		}
	}
	return ""
}

// IsVowel reports whether symbol expands to a vowel.
func IsVowel(symbol string) bool {
	ids, ok := phonemes[symbol]
	return ok && Get(ids[0]).Is(Vowel)
}

// MapStats counts what Map could not translate.
type MapStats struct {
	Skipped int // input bytes with no symbol
}

// Map translates a phoneme string into element instances. A stress marker
// applies to the vowel elements of the next vowel symbol. Spaces separate
// words and produce nothing; any other byte that starts no symbol is
// skipped.
func Map(s string) ([]Instance, MapStats) {
	var (
		out     = make([]Instance, 0, len(s)*2)
		stats   MapStats
		pending int
	)
	for i := 0; i < len(s); {
		c := s[i]
		if level, ok := Stress(c); ok {
			pending = level
			i++
			continue
		}
		if c == ' ' {
			i++
			continue
		}
		sym := Next(s, i)
		if sym == "" {
			slog.Debug("unknown phoneme symbol skipped", "char", string(c), "offset", i)
			stats.Skipped++
			i++
			continue
		}
		i += len(sym)

		stressed := false
		for _, id := range phonemes[sym] {
			e := Get(id)
			inst := Instance{ID: id}
			if e.Is(Vowel) {
				inst.Stress = pending
				stressed = true
			}
			inst.Duration = e.Duration(inst.Stress)
			out = append(out, inst)
		}
		if stressed {
			pending = 0
		}
	}
	return out, stats
}
