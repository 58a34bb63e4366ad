package transcribe

// names are the spoken names of printable ASCII characters, written as
// words the letter-to-sound rules read correctly.
var names = [128]string{
	'A': "ay", 'B': "bee", 'C': "see", 'D': "dee", 'E': "ee", 'F': "ef",
	'G': "jee", 'H': "aych", 'I': "eye", 'J': "jay", 'K': "kay", 'L': "el",
	'M': "em", 'N': "en", 'O': "owe", 'P': "pee", 'Q': "cue", 'R': "ar",
	'S': "ess", 'T': "tee", 'U': "you", 'V': "vee", 'W': "double you",
	'X': "ex", 'Y': "why", 'Z': "zed",

	'0': "zero", '1': "one", '2': "two", '3': "three", '4': "four",
	'5': "five", '6': "six", '7': "seven", '8': "eight", '9': "nine",

	'$': "dollar", '%': "percent", '&': "and", '@': "at", '+': "plus",
	'=': "equals", '#': "hash",
}

// Name returns the spoken name of c, or "" if it has none.
func Name(c byte) string {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c >= 128 {
		return ""
	}
	return names[c]
}

// SpellWords names each character of s in turn. Characters without a name
// are skipped.
func SpellWords(s string) []string {
	w := make([]string, 0, len(s))
	for i := 0; i < len(s); i++ {
		if n := Name(s[i]); n != "" {
			w = append(w, n)
		}
	}
	return w
}
