// Package elements holds the articulatory element catalog and maps phoneme
// symbols onto element instances.
//
// An element is roughly one phone: a dominance rank, nominal durations and
// a target for each of the synthesis parameters the scheduler
// interpolates. The catalog is immutable and shared; utterances refer to
// elements by ID.
package elements

// ID is a small integer handle into the catalog.
type ID uint8

// Param indexes an element's interpolation targets.
type Param int

// Interpolated parameters, in catalog order.
const (
	FN Param = iota // nasal zero frequency
	F1              // first formant frequency
	F2              // second formant frequency
	F3              // third formant frequency
	B1              // first formant bandwidth
	B2              // second formant bandwidth
	B3              // third formant bandwidth
	AN              // parallel nasal pole amplitude
	A1              // parallel formant amplitudes
	A2
	A3
	A4
	A5
	A6
	AB  // bypass amplitude
	AV  // voicing amplitude
	AVC // breathiness amplitude
	ASP // aspiration amplitude
	AF  // frication amplitude
	NParams
)

var paramNames = [NParams]string{
	"fn", "f1", "f2", "f3", "b1", "b2", "b3", "an",
	"a1", "a2", "a3", "a4", "a5", "a6", "ab", "av", "avc", "asp", "af",
}

func (p Param) String() string {
	if p < 0 || p >= NParams {
		return "param?"
	}
	return paramNames[p]
}

// Feature is a bitset of articulatory features.
type Feature uint16

const (
	Vowel Feature = 1 << iota
	Diphthong
	Nasal
	Stop
	Burst
	Aspirated
	Fricative
	Affricate
	Liquid
	Glide
	Voiced
	Pause
)

// Has reports whether all of want are set.
func (f Feature) Has(want Feature) bool { return f&want == want }

// Target is one parameter's interpolation target. When a neighbour's value
// v blends with this element, the boundary value is Fixed + Prop*v/100,
// reached after the external delay Ext when this element dominates the
// neighbour, or the internal delay Int when it dominates from inside.
type Target struct {
	Steady float64 // value held in the middle of the element
	Fixed  float64 // Steady * (100 - Prop) / 100
	Prop   float64 // percentage of the neighbour's steady value
	Ext    int     // external delay, frames
	Int    int     // internal delay, frames
}

// Element is one catalog entry.
type Element struct {
	Name     string
	Rank     int // dominance; the higher rank shapes the shared boundary
	Stressed int // duration in frames when stressed
	Plain    int // duration in frames when unstressed
	Features Feature
	P        [NParams]Target
}

// Is reports whether the element has all of want.
func (e *Element) Is(want Feature) bool { return e.Features.Has(want) }

// Duration returns the element's nominal duration for a stress level.
func (e *Element) Duration(stress int) int {
	if stress > 0 {
		return e.Stressed
	}
	return e.Plain
}

// Instance is an element placed in an utterance.
type Instance struct {
	ID       ID
	Duration int // frames
	Stress   int // 0 unstressed to 3 primary
}

// Get returns the catalog entry for id. Unknown IDs return END.
func Get(id ID) *Element {
	if int(id) >= len(catalog) {
		return &catalog[END]
	}
	return &catalog[id]
}

// Count returns the number of catalog entries.
func Count() int { return len(catalog) }
