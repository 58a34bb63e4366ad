package rules

import "sync"

// Context shorthands used in the English rules.
const (
	anything = ""  // no constraint
	nothing  = " " // word boundary
)

// englishRules are the Naval Research Laboratory letter-to-sound rules
// (Elovitz, Johnson, McHugh and Shore, 1976) with output in SAMPA.
var englishRules = []Source{
	// Punctuation inside a word.
	{anything, " ", anything, " "},
	{anything, "-", anything, ""},
	{".", "'S", anything, "z"},
	{"#:.E", "'S", anything, "z"},
	{"#", "'S", anything, "z"},
	{anything, "'", anything, ""},

	// A
	{nothing, "A", nothing, "@"},
	{nothing, "ARE", nothing, "A:"},
	{nothing, "AR", "O", "@r"},
	{anything, "AR", "#", "e@r"},
	{"^", "AS", "#", "eIs"},
	{anything, "A", "WA", "@"},
	{anything, "AW", anything, "O:"},
	{" :", "ANY", anything, "eni:"},
	{anything, "A", "^+#", "eI"},
	{"#:", "ALLY", anything, "@li:"},
	{nothing, "AL", "#", "@l"},
	{anything, "AGAIN", anything, "@gen"},
	{"#:", "AG", "E", "IdZ"},
	{anything, "A", "^+:#", "{"},
	{" :", "A", "^+ ", "eI"},
	{anything, "A", "^%", "eI"},
	{nothing, "ARR", anything, "@r"},
	{anything, "ARR", anything, "{r"},
	{" :", "AR", nothing, "A:"},
	{anything, "AR", nothing, "3:"},
	{anything, "AR", anything, "A:"},
	{anything, "AIR", anything, "e@"},
	{anything, "AI", anything, "eI"},
	{anything, "AY", anything, "eI"},
	{anything, "AU", anything, "O:"},
	{"#:", "AL", nothing, "@l"},
	{"#:", "ALS", nothing, "@lz"},
	{anything, "ALK", anything, "O:k"},
	{anything, "AL", "^", "O:l"},
	{" :", "ABLE", anything, "eIb@l"},
	{anything, "ABLE", anything, "@b@l"},
	{anything, "ANG", "+", "eIndZ"},
	{anything, "A", anything, "{"},

	// B
	{nothing, "BE", "^#", "bI"},
	{anything, "BEING", anything, "bi:IN"},
	{nothing, "BOTH", nothing, "b@UT"},
	{nothing, "BUS", "#", "bIz"},
	{anything, "BUIL", anything, "bIl"},
	{anything, "B", anything, "b"},

	// C
	{nothing, "CH", "^", "k"},
	{"^E", "CH", anything, "k"},
	{anything, "CH", anything, "tS"},
	{" S", "CI", "#", "saI"},
	{anything, "CI", "A", "S"},
	{anything, "CI", "O", "S"},
	{anything, "CI", "EN", "S"},
	{anything, "C", "+", "s"},
	{anything, "CK", anything, "k"},
	{anything, "COM", "%", "kVm"},
	{anything, "C", anything, "k"},

	// D
	{"#:", "DED", nothing, "dId"},
	{".E", "D", nothing, "d"},
	{"#:^E", "D", nothing, "t"},
	{nothing, "DE", "^#", "dI"},
	{nothing, "DO", nothing, "du:"},
	{nothing, "DOES", anything, "dVz"},
	{nothing, "DOING", anything, "du:IN"},
	{nothing, "DOW", anything, "daU"},
	{anything, "DU", "A", "dZu:"},
	{anything, "D", anything, "d"},

	// E
	{"#:", "E", nothing, ""},
	{"':^", "E", nothing, ""},
	{" :", "E", nothing, "i:"},
	{"#", "ED", nothing, "d"},
	{"#:", "E", "D ", ""},
	{anything, "EV", "ER", "ev"},
	{anything, "E", "^%", "i:"},
	{anything, "ERI", "#", "I@ri:"},
	{anything, "ERI", anything, "erI"},
	{"#:", "ER", "#", "3:"},
	{anything, "ER", "#", "er"},
	{anything, "ER", anything, "3:"},
	{nothing, "EVEN", anything, "i:v@n"},
	{"#:", "E", "W", ""},
	{"@", "EW", anything, "u:"},
	{anything, "EW", anything, "ju:"},
	{anything, "E", "O", "i:"},
	{"#:&", "ES", nothing, "Iz"},
	{"#:", "E", "S ", ""},
	{"#:", "ELY", nothing, "li:"},
	{"#:", "EMENT", anything, "m@nt"},
	{anything, "EFUL", anything, "fUl"},
	{anything, "EE", anything, "i:"},
	{anything, "EARN", anything, "3:n"},
	{nothing, "EAR", "^", "3:"},
	{anything, "EAD", anything, "ed"},
	{"#:", "EA", nothing, "i:@"},
	{anything, "EA", "SU", "e"},
	{anything, "EA", anything, "i:"},
	{anything, "EIGH", anything, "eI"},
	{anything, "EI", anything, "i:"},
	{nothing, "EYE", anything, "aI"},
	{anything, "EY", anything, "i:"},
	{anything, "EU", anything, "ju:"},
	{anything, "E", anything, "e"},

	// F
	{anything, "FUL", anything, "fUl"},
	{anything, "F", anything, "f"},

	// G
	{anything, "GIV", anything, "gIv"},
	{nothing, "G", "I^", "g"},
	{anything, "GE", "T", "ge"},
	{"SU", "GGES", anything, "gdZes"},
	{anything, "GG", anything, "g"},
	{" B#", "G", anything, "g"},
	{anything, "G", "+", "dZ"},
	{anything, "GREAT", anything, "greIt"},
	{"#", "GH", anything, ""},
	{anything, "G", anything, "g"},

	// H
	{nothing, "HAV", anything, "h{v"},
	{nothing, "HERE", anything, "hI@"},
	{nothing, "HOUR", anything, "aU@"},
	{anything, "HOW", anything, "haU"},
	{anything, "H", "#", "h"},
	{anything, "H", anything, ""},

	// I
	{nothing, "IN", anything, "In"},
	{nothing, "I", nothing, "aI"},
	{anything, "IN", "D", "aIn"},
	{anything, "IER", anything, "i:@"},
	{"#:R", "IED", anything, "i:d"},
	{anything, "IED", nothing, "aId"},
	{anything, "IEN", anything, "i:en"},
	{anything, "IE", "T", "aIe"},
	{" :", "I", "%", "aI"},
	{anything, "I", "%", "i:"},
	{anything, "IE", anything, "i:"},
	{anything, "I", "^+:#", "I"},
	{anything, "IR", "#", "aI@r"},
	{anything, "IZ", "%", "aIz"},
	{anything, "IS", "%", "aIz"},
	{anything, "I", "D%", "aI"},
	{"+^", "I", "^+", "I"},
	{anything, "I", "T%", "aI"},
	{"#:^", "I", "^+", "I"},
	{anything, "I", "^+", "aI"},
	{anything, "IR", anything, "3:"},
	{anything, "IGH", anything, "aI"},
	{anything, "ILD", anything, "aIld"},
	{anything, "IGN", nothing, "aIn"},
	{anything, "IGN", "^", "aIn"},
	{anything, "IGN", "%", "aIn"},
	{anything, "IQUE", anything, "i:k"},
	{anything, "I", anything, "I"},

	// J
	{anything, "J", anything, "dZ"},

	// K
	{nothing, "K", "N", ""},
	{anything, "K", anything, "k"},

	// L
	{anything, "LO", "C#", "l@U"},
	{"L", "L", anything, ""},
	{"#:^", "L", "%", "@l"},
	{anything, "LEAD", anything, "li:d"},
	{anything, "L", anything, "l"},

	// M
	{anything, "MOV", anything, "mu:v"},
	{anything, "M", anything, "m"},

	// N
	{"E", "NG", "+", "ndZ"},
	{anything, "NG", "R", "Ng"},
	{anything, "NG", "#", "Ng"},
	{anything, "NGL", "%", "Ng@l"},
	{anything, "NG", anything, "N"},
	{anything, "NK", anything, "Nk"},
	{nothing, "NOW", nothing, "naU"},
	{anything, "N", anything, "n"},

	// O
	{anything, "OF", nothing, "@v"},
	{anything, "OROUGH", anything, "Vr@"},
	{"#:", "OR", nothing, "3:"},
	{"#:", "ORS", nothing, "3:z"},
	{anything, "OR", anything, "O:"},
	{nothing, "ONE", anything, "wVn"},
	{anything, "OW", anything, "@U"},
	{nothing, "OVER", anything, "@Uv3:"},
	{anything, "OV", anything, "Vv"},
	{anything, "O", "^%", "@U"},
	{anything, "O", "^EN", "@U"},
	{anything, "O", "^I#", "@U"},
	{anything, "OL", "D", "@Ul"},
	{anything, "OUGHT", anything, "O:t"},
	{anything, "OUGH", anything, "Vf"},
	{nothing, "OU", anything, "aU"},
	{"H", "OU", "S#", "aU"},
	{anything, "OUS", anything, "@s"},
	{anything, "OUR", anything, "O:"},
	{anything, "OULD", anything, "Ud"},
	{"^", "OU", "^L", "V"},
	{anything, "OUP", anything, "u:p"},
	{anything, "OU", anything, "aU"},
	{anything, "OY", anything, "OI"},
	{anything, "OING", anything, "@UIN"},
	{anything, "OI", anything, "OI"},
	{anything, "OOR", anything, "O:"},
	{anything, "OOK", anything, "Uk"},
	{anything, "OOD", anything, "Ud"},
	{anything, "OO", anything, "u:"},
	{anything, "O", "E", "@U"},
	{anything, "O", nothing, "@U"},
	{anything, "OA", anything, "@U"},
	{nothing, "ONLY", anything, "@Unli:"},
	{nothing, "ONCE", anything, "wVns"},
	{anything, "ON'T", anything, "@Unt"},
	{"C", "O", "N", "0"},
	{anything, "O", "NG", "0"},
	{" :^", "O", "N", "V"},
	{"I", "ON", anything, "@n"},
	{"#:", "ON", nothing, "@n"},
	{"#^", "ON", anything, "@n"},
	{anything, "O", "ST ", "@U"},
	{anything, "OF", "^", "0f"},
	{anything, "OTHER", anything, "VD3:"},
	{anything, "OSS", nothing, "0s"},
	{"#:^", "OM", anything, "Vm"},
	{anything, "O", anything, "0"},

	// P
	{anything, "PH", anything, "f"},
	{anything, "PEOP", anything, "pi:p"},
	{anything, "POW", anything, "paU"},
	{anything, "PUT", nothing, "pUt"},
	{anything, "P", anything, "p"},

	// Q
	{anything, "QUAR", anything, "kwO:"},
	{anything, "QU", anything, "kw"},
	{anything, "Q", anything, "k"},

	// R
	{nothing, "RE", "^#", "ri:"},
	{anything, "R", anything, "r"},

	// S
	{anything, "SH", anything, "S"},
	{"#", "SION", anything, "Z@n"},
	{anything, "SOME", anything, "sVm"},
	{"#", "SUR", "#", "Z3:"},
	{anything, "SUR", "#", "S3:"},
	{"#", "SU", "#", "Zu:"},
	{"#", "SSU", "#", "Su:"},
	{"#", "SED", nothing, "zd"},
	{"#", "S", "#", "z"},
	{anything, "SAID", anything, "sed"},
	{"^", "SION", anything, "S@n"},
	{anything, "S", "S", ""},
	{".", "S", nothing, "z"},
	{"#:.E", "S", nothing, "z"},
	{"#:^##", "S", nothing, "z"},
	{"#:^#", "S", nothing, "s"},
	{"U", "S", nothing, "s"},
	{" :#", "S", nothing, "z"},
	{nothing, "SCH", anything, "sk"},
	{anything, "S", "C+", ""},
	{"#", "SM", anything, "zm"},
	{"#", "SN", "'", "z@n"},
	{anything, "S", anything, "s"},

	// T
	{nothing, "THE", nothing, "D@"},
	{anything, "TO", nothing, "tu:"},
	{anything, "THAT", nothing, "D{t"},
	{nothing, "THIS", nothing, "DIs"},
	{nothing, "THEY", anything, "DeI"},
	{nothing, "THERE", anything, "De@"},
	{anything, "THER", anything, "D3:"},
	{anything, "THEIR", anything, "De@"},
	{nothing, "THAN", nothing, "D{n"},
	{nothing, "THEM", nothing, "Dem"},
	{anything, "THESE", nothing, "Di:z"},
	{nothing, "THEN", anything, "Den"},
	{anything, "THROUGH", anything, "Tru:"},
	{anything, "THOSE", anything, "D@Uz"},
	{anything, "THOUGH", nothing, "D@U"},
	{nothing, "THUS", anything, "DVs"},
	{anything, "TH", anything, "T"},
	{"#:", "TED", nothing, "tId"},
	{"S", "TI", "#N", "tS"},
	{anything, "TI", "O", "S"},
	{anything, "TI", "A", "S"},
	{anything, "TIEN", anything, "S@n"},
	{anything, "TUR", "#", "tS3:"},
	{anything, "TU", "A", "tSu:"},
	{nothing, "TWO", anything, "tu:"},
	{anything, "T", anything, "t"},

	// U
	{nothing, "UN", "I", "ju:n"},
	{nothing, "UN", anything, "Vn"},
	{nothing, "UPON", anything, "@p0n"},
	{"@", "UR", "#", "U@r"},
	{anything, "UR", "#", "jU@r"},
	{anything, "UR", anything, "3:"},
	{anything, "U", "^ ", "V"},
	{anything, "U", "^^", "V"},
	{anything, "UY", anything, "aI"},
	{" G", "U", "#", ""},
	{"G", "U", "%", ""},
	{"G", "U", "#", "w"},
	{"#N", "U", anything, "ju:"},
	{"@", "U", anything, "u:"},
	{anything, "U", anything, "ju:"},

	// V
	{anything, "VIEW", anything, "vju:"},
	{anything, "V", anything, "v"},

	// W
	{nothing, "WERE", anything, "w3:"},
	{anything, "WA", "S", "w0"},
	{anything, "WA", "T", "w0"},
	{anything, "WHERE", anything, "we@"},
	{anything, "WHAT", anything, "w0t"},
	{anything, "WHOL", anything, "h@Ul"},
	{anything, "WHO", anything, "hu:"},
	{anything, "WH", anything, "w"},
	{anything, "WAR", anything, "wO:"},
	{anything, "WOR", "^", "w3:"},
	{anything, "WR", anything, "r"},
	{anything, "W", anything, "w"},

	// X
	{anything, "X", anything, "ks"},

	// Y
	{anything, "YOUNG", anything, "jVN"},
	{nothing, "YOU", anything, "ju:"},
	{nothing, "YES", anything, "jes"},
	{nothing, "Y", anything, "j"},
	{"#:^", "Y", nothing, "i:"},
	{"#:^", "Y", "I", "i:"},
	{" :", "Y", nothing, "aI"},
	{" :", "Y", "#", "aI"},
	{" :", "Y", "^+:#", "I"},
	{" :", "Y", "^#", "aI"},
	{anything, "Y", anything, "I"},

	// Z
	{anything, "Z", anything, "z"},
}

var (
	englishOnce  sync.Once
	englishTable *Table
)

// English returns the shared English rule table. It is compiled on first
// use and read-only afterwards.
func English() *Table {
	englishOnce.Do(func() {
		englishTable = NewTable(englishRules)
	})
	return englishTable
}
