package elements

// Catalog IDs.
const (
	END ID = iota // utterance boundary silence
	Q             // short pause

	IY // i:
	I  // I
	E  // e
	AA // {
	U  // V
	O  // 0
	OO // U
	A  // @
	ER // 3:
	AR // A:
	AW // O:
	UU // u:

	AI  // eI onset
	IE  // aI onset
	OI  // OI onset
	OU  // aU onset
	OA  // @U onset
	IA  // I@ onset
	AIR // e@ onset
	OOR // U@ onset
	IX  // front offglide
	OV  // back offglide

	L
	R
	W
	Y
	H

	M
	N
	NG

	F
	TH
	S
	SH
	V
	DH
	Z
	ZH

	P  // closure
	PY // burst
	PZ // aspiration
	T
	TY
	TZ
	K
	KY
	KZ
	B
	BY
	BZ // voiced release
	D
	DY
	DZ
	G
	GY
	GZ

	CH // affricate frication
	CI // affricate release
	J
	JY

	numElements
)

// transition is the blend template shared by one group of parameters.
type transition struct {
	prop    float64
	ext, in int
}

// class gives the rank and transition templates for a kind of element:
// formant frequencies, bandwidths and amplitudes.
type class struct {
	rank    int
	f, b, a transition
}

var (
	pauseClass      = class{31, transition{100, 0, 0}, transition{100, 0, 0}, transition{0, 2, 2}}
	shortPauseClass = class{30, transition{100, 0, 0}, transition{100, 0, 0}, transition{0, 2, 2}}
	burstClass      = class{29, transition{0, 0, 0}, transition{0, 0, 0}, transition{0, 0, 0}}
	releaseClass    = class{27, transition{50, 4, 0}, transition{50, 4, 0}, transition{0, 0, 0}}
	affricateClass  = class{26, transition{50, 4, 0}, transition{50, 4, 0}, transition{0, 1, 0}}
	closureClass    = class{25, transition{50, 4, 0}, transition{50, 4, 0}, transition{0, 2, 0}}
	fricClass       = class{20, transition{50, 4, 0}, transition{50, 4, 0}, transition{0, 2, 1}}
	voicedFricClass = class{18, transition{50, 4, 0}, transition{50, 4, 0}, transition{0, 2, 1}}
	nasalClass      = class{16, transition{50, 3, 0}, transition{50, 3, 0}, transition{0, 1, 0}}
	glideClass      = class{11, transition{50, 5, 3}, transition{50, 5, 3}, transition{50, 2, 1}}
	hClass          = class{9, transition{100, 0, 10}, transition{100, 0, 10}, transition{0, 1, 0}}
	vowelClass      = class{2, transition{50, 4, 4}, transition{50, 4, 4}, transition{50, 2, 2}}
)

// amps are the steady amplitude targets in dB.
type amps struct {
	AN, A1, A2, A3, A4, A5, A6, AB, AV, AVC, ASP, AF float64
}

type def struct {
	id       ID
	name     string
	class    class
	stressed int
	plain    int
	feat     Feature
	f        [3]float64
	b        [3]float64
	amp      amps
}

const (
	oralZero  = 270 // matches the nasal pole, cancelling it
	nasalZero = 450
)

var defs = []def{
	{END, "END", pauseClass, 5, 5, Pause, [3]float64{500, 1500, 2500}, [3]float64{60, 90, 150}, amps{}},
	{Q, "Q", shortPauseClass, 6, 6, Pause, [3]float64{500, 1500, 2500}, [3]float64{60, 90, 150}, amps{}},

	{IY, "IY", vowelClass, 17, 9, Vowel | Voiced, [3]float64{310, 2020, 2960}, [3]float64{45, 200, 400}, amps{AV: 62}},
	{I, "I", vowelClass, 10, 6, Vowel | Voiced, [3]float64{400, 1800, 2570}, [3]float64{50, 100, 140}, amps{AV: 62}},
	{E, "E", vowelClass, 12, 7, Vowel | Voiced, [3]float64{530, 1680, 2500}, [3]float64{60, 90, 200}, amps{AV: 62}},
	{AA, "AA", vowelClass, 16, 9, Vowel | Voiced, [3]float64{620, 1660, 2430}, [3]float64{70, 150, 320}, amps{AV: 62}},
	{U, "U", vowelClass, 11, 6, Vowel | Voiced, [3]float64{620, 1220, 2550}, [3]float64{80, 50, 140}, amps{AV: 62}},
	{O, "O", vowelClass, 13, 7, Vowel | Voiced, [3]float64{600, 990, 2570}, [3]float64{90, 100, 80}, amps{AV: 62}},
	{OO, "OO", vowelClass, 10, 6, Vowel | Voiced, [3]float64{450, 1100, 2350}, [3]float64{80, 100, 80}, amps{AV: 62}},
	{A, "A", vowelClass, 7, 5, Vowel | Voiced, [3]float64{500, 1400, 2300}, [3]float64{100, 60, 110}, amps{AV: 58}},
	{ER, "ER", vowelClass, 16, 9, Vowel | Voiced, [3]float64{470, 1270, 1540}, [3]float64{100, 60, 110}, amps{AV: 62}},
	{AR, "AR", vowelClass, 18, 10, Vowel | Voiced, [3]float64{700, 1220, 2600}, [3]float64{130, 70, 160}, amps{AV: 62}},
	{AW, "AW", vowelClass, 17, 10, Vowel | Voiced, [3]float64{540, 840, 2410}, [3]float64{80, 40, 170}, amps{AV: 62}},
	{UU, "UU", vowelClass, 16, 9, Vowel | Voiced, [3]float64{350, 1250, 2200}, [3]float64{65, 110, 140}, amps{AV: 62}},

	{AI, "AI", vowelClass, 13, 8, Vowel | Diphthong | Voiced, [3]float64{480, 1720, 2520}, [3]float64{70, 100, 200}, amps{AV: 62}},
	{IE, "IE", vowelClass, 15, 9, Vowel | Diphthong | Voiced, [3]float64{660, 1200, 2550}, [3]float64{100, 70, 200}, amps{AV: 62}},
	{OI, "OI", vowelClass, 15, 9, Vowel | Diphthong | Voiced, [3]float64{550, 960, 2400}, [3]float64{80, 50, 130}, amps{AV: 62}},
	{OU, "OU", vowelClass, 15, 9, Vowel | Diphthong | Voiced, [3]float64{640, 1230, 2550}, [3]float64{80, 70, 140}, amps{AV: 62}},
	{OA, "OA", vowelClass, 13, 8, Vowel | Diphthong | Voiced, [3]float64{520, 1190, 2390}, [3]float64{80, 50, 130}, amps{AV: 62}},
	{IA, "IA", vowelClass, 12, 7, Vowel | Diphthong | Voiced, [3]float64{400, 1800, 2570}, [3]float64{50, 100, 140}, amps{AV: 62}},
	{AIR, "AIR", vowelClass, 14, 8, Vowel | Diphthong | Voiced, [3]float64{530, 1680, 2500}, [3]float64{60, 90, 200}, amps{AV: 62}},
	{OOR, "OOR", vowelClass, 12, 7, Vowel | Diphthong | Voiced, [3]float64{450, 1100, 2350}, [3]float64{80, 100, 80}, amps{AV: 62}},
	{IX, "IX", vowelClass, 6, 4, Vowel | Diphthong | Voiced, [3]float64{400, 1800, 2570}, [3]float64{50, 100, 140}, amps{AV: 60}},
	{OV, "OV", vowelClass, 6, 4, Vowel | Diphthong | Voiced, [3]float64{450, 1100, 2350}, [3]float64{80, 100, 80}, amps{AV: 60}},

	{L, "L", glideClass, 7, 7, Liquid | Voiced, [3]float64{330, 1050, 2800}, [3]float64{50, 100, 280}, amps{AV: 57}},
	{R, "R", glideClass, 8, 8, Liquid | Voiced, [3]float64{330, 1060, 1380}, [3]float64{70, 100, 120}, amps{AV: 57}},
	{W, "W", glideClass, 7, 7, Glide | Voiced, [3]float64{285, 610, 2150}, [3]float64{50, 80, 60}, amps{AV: 57}},
	{Y, "Y", glideClass, 7, 7, Glide | Voiced, [3]float64{260, 2070, 3020}, [3]float64{40, 250, 500}, amps{AV: 57}},
	{H, "H", hClass, 6, 6, Aspirated, [3]float64{450, 1450, 2450}, [3]float64{300, 160, 300}, amps{ASP: 60}},

	{M, "M", nasalClass, 7, 7, Nasal | Voiced, [3]float64{480, 1270, 2130}, [3]float64{40, 200, 200}, amps{AV: 55}},
	{N, "N", nasalClass, 6, 6, Nasal | Voiced, [3]float64{480, 1340, 2470}, [3]float64{40, 300, 300}, amps{AV: 55}},
	{NG, "NG", nasalClass, 8, 8, Nasal | Voiced, [3]float64{480, 2000, 2900}, [3]float64{160, 150, 400}, amps{AV: 55}},

	{F, "F", fricClass, 10, 10, Fricative, [3]float64{340, 1100, 2080}, [3]float64{200, 120, 150}, amps{AB: 57, AF: 60}},
	{TH, "TH", fricClass, 10, 10, Fricative, [3]float64{320, 1290, 2540}, [3]float64{200, 90, 200}, amps{A6: 28, AB: 48, AF: 60}},
	{S, "S", fricClass, 12, 12, Fricative, [3]float64{320, 1390, 2530}, [3]float64{200, 80, 200}, amps{A5: 42, A6: 52, AF: 60}},
	{SH, "SH", fricClass, 12, 12, Fricative, [3]float64{300, 1840, 2750}, [3]float64{200, 100, 300}, amps{A3: 57, A4: 48, A5: 48, A6: 46, AF: 60}},
	{V, "V", voicedFricClass, 6, 6, Fricative | Voiced, [3]float64{220, 1100, 2080}, [3]float64{60, 90, 120}, amps{AB: 57, AV: 47, AVC: 20, AF: 50}},
	{DH, "DH", voicedFricClass, 5, 5, Fricative | Voiced, [3]float64{270, 1290, 2540}, [3]float64{60, 80, 170}, amps{AB: 48, AV: 47, AVC: 20, AF: 50}},
	{Z, "Z", voicedFricClass, 7, 7, Fricative | Voiced, [3]float64{240, 1390, 2530}, [3]float64{70, 60, 180}, amps{A5: 42, A6: 52, AV: 47, AVC: 20, AF: 50}},
	{ZH, "ZH", voicedFricClass, 7, 7, Fricative | Voiced, [3]float64{300, 1840, 2750}, [3]float64{60, 100, 300}, amps{A3: 57, A4: 48, A5: 48, A6: 46, AV: 47, AVC: 20, AF: 50}},

	{P, "P", closureClass, 8, 8, Stop, [3]float64{400, 1100, 2150}, [3]float64{300, 150, 220}, amps{}},
	{PY, "PY", burstClass, 1, 1, Stop | Burst, [3]float64{400, 1100, 2150}, [3]float64{300, 150, 220}, amps{AB: 63, AF: 60}},
	{PZ, "PZ", releaseClass, 2, 2, Stop | Aspirated, [3]float64{400, 1100, 2150}, [3]float64{300, 150, 220}, amps{ASP: 60}},
	{T, "T", closureClass, 6, 6, Stop, [3]float64{400, 1600, 2600}, [3]float64{300, 120, 250}, amps{}},
	{TY, "TY", burstClass, 1, 1, Stop | Burst, [3]float64{400, 1600, 2600}, [3]float64{300, 120, 250}, amps{A3: 47, A4: 49, A5: 56, A6: 52, AF: 60}},
	{TZ, "TZ", releaseClass, 2, 2, Stop | Aspirated, [3]float64{400, 1600, 2600}, [3]float64{300, 120, 250}, amps{ASP: 60}},
	{K, "K", closureClass, 8, 8, Stop, [3]float64{300, 1990, 2850}, [3]float64{250, 160, 330}, amps{}},
	{KY, "KY", burstClass, 2, 2, Stop | Burst, [3]float64{300, 1990, 2850}, [3]float64{250, 160, 330}, amps{A2: 56, A3: 52, A4: 47, AF: 60}},
	{KZ, "KZ", releaseClass, 3, 3, Stop | Aspirated, [3]float64{300, 1990, 2850}, [3]float64{250, 160, 330}, amps{ASP: 60}},
	{B, "B", closureClass, 6, 6, Stop | Voiced, [3]float64{200, 1100, 2150}, [3]float64{60, 110, 130}, amps{AV: 40}},
	{BY, "BY", burstClass, 1, 1, Stop | Burst | Voiced, [3]float64{200, 1100, 2150}, [3]float64{60, 110, 130}, amps{AB: 58, AV: 40, AF: 50}},
	{BZ, "BZ", releaseClass, 1, 1, Stop | Voiced, [3]float64{200, 1100, 2150}, [3]float64{60, 110, 130}, amps{AV: 55}},
	{D, "D", closureClass, 5, 5, Stop | Voiced, [3]float64{200, 1600, 2600}, [3]float64{60, 100, 170}, amps{AV: 40}},
	{DY, "DY", burstClass, 1, 1, Stop | Burst | Voiced, [3]float64{200, 1600, 2600}, [3]float64{60, 100, 170}, amps{A3: 47, A4: 49, A5: 50, A6: 46, AV: 40, AF: 50}},
	{DZ, "DZ", releaseClass, 1, 1, Stop | Voiced, [3]float64{200, 1600, 2600}, [3]float64{60, 100, 170}, amps{AV: 55}},
	{G, "G", closureClass, 6, 6, Stop | Voiced, [3]float64{250, 1990, 2850}, [3]float64{60, 150, 280}, amps{AV: 40}},
	{GY, "GY", burstClass, 1, 1, Stop | Burst | Voiced, [3]float64{250, 1990, 2850}, [3]float64{60, 150, 280}, amps{A2: 53, A3: 48, A4: 44, AV: 40, AF: 50}},
	{GZ, "GZ", releaseClass, 2, 2, Stop | Voiced, [3]float64{250, 1990, 2850}, [3]float64{60, 150, 280}, amps{AV: 55}},

	{CH, "CH", affricateClass, 4, 4, Affricate | Fricative, [3]float64{350, 1800, 2820}, [3]float64{200, 90, 300}, amps{A3: 44, A4: 60, A5: 53, A6: 60, AF: 60}},
	{CI, "CI", releaseClass, 2, 2, Affricate | Aspirated, [3]float64{350, 1800, 2820}, [3]float64{200, 90, 300}, amps{ASP: 55}},
	{J, "J", affricateClass, 4, 4, Affricate | Fricative | Voiced, [3]float64{260, 1800, 2820}, [3]float64{60, 80, 270}, amps{A3: 44, A4: 60, A5: 53, A6: 60, AV: 47, AF: 50}},
	{JY, "JY", releaseClass, 2, 2, Affricate | Voiced, [3]float64{260, 1800, 2820}, [3]float64{60, 80, 270}, amps{AV: 55}},
}

var catalog [numElements]Element

func init() {
	for _, d := range defs {
		catalog[d.id] = d.build()
	}
}

func target(steady float64, tr transition) Target {
	return Target{
		Steady: steady,
		Fixed:  steady * (100 - tr.prop) / 100,
		Prop:   tr.prop,
		Ext:    tr.ext,
		Int:    tr.in,
	}
}

func (d def) build() Element {
	e := Element{
		Name:     d.name,
		Rank:     d.class.rank,
		Stressed: d.stressed,
		Plain:    d.plain,
		Features: d.feat,
	}
	zero := float64(oralZero)
	if d.feat.Has(Nasal) {
		zero = nasalZero
	}
	e.P[FN] = target(zero, transition{})
	for i, p := range []Param{F1, F2, F3} {
		e.P[p] = target(d.f[i], d.class.f)
	}
	for i, p := range []Param{B1, B2, B3} {
		e.P[p] = target(d.b[i], d.class.b)
	}
	a := d.amp
	for p, v := range map[Param]float64{
		AN: a.AN, A1: a.A1, A2: a.A2, A3: a.A3, A4: a.A4, A5: a.A5, A6: a.A6,
		AB: a.AB, AV: a.AV, AVC: a.AVC, ASP: a.ASP, AF: a.AF,
	} {
		e.P[p] = target(v, d.class.a)
	}
	return e
}
