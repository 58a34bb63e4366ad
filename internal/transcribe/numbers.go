package transcribe

var ones = [20]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = [10]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

var scales = []struct {
	value int64
	name  string
}{
	{1_000_000_000_000_000_000, "quintillion"},
	{1_000_000_000_000_000, "quadrillion"},
	{1_000_000_000_000, "trillion"},
	{1_000_000_000, "billion"},
	{1_000_000, "million"},
	{1_000, "thousand"},
}

// CardinalWords spells n as English words. "and" appears only before a
// remainder below one hundred that follows a larger part.
func CardinalWords(n int64) []string {
	if n < 0 {
		if n == -n {
			// math.MinInt64 has no positive counterpart; read it digit by digit.
			return append([]string{"minus"}, DigitWords("9223372036854775808")...)
		}
		return append([]string{"minus"}, CardinalWords(-n)...)
	}
	if n == 0 {
		return []string{ones[0]}
	}
	var w []string
	for _, sc := range scales {
		if n >= sc.value {
			w = append(w, hundreds(n/sc.value)...)
			w = append(w, sc.name)
			n %= sc.value
		}
	}
	if n >= 100 {
		w = append(w, ones[n/100], "hundred")
		n %= 100
	}
	if n > 0 {
		if len(w) > 0 {
			w = append(w, "and")
		}
		w = append(w, belowHundred(n)...)
	}
	return w
}

// hundreds spells a group multiplier between 1 and 999.
func hundreds(n int64) []string {
	var w []string
	if n >= 100 {
		w = append(w, ones[n/100], "hundred")
		n %= 100
		if n > 0 {
			w = append(w, "and")
		}
	}
	if n > 0 {
		w = append(w, belowHundred(n)...)
	}
	return w
}

func belowHundred(n int64) []string {
	if n < 20 {
		return []string{ones[n]}
	}
	if n%10 == 0 {
		return []string{tens[n/10]}
	}
	return []string{tens[n/10], ones[n%10]}
}

// DigitWords names each decimal digit of s. Other bytes are ignored.
func DigitWords(s string) []string {
	w := make([]string, 0, len(s))
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			w = append(w, ones[s[i]-'0'])
		}
	}
	return w
}
