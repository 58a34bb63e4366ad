package klatt

import "log/slog"

// GlottisState is the phase of the current voicing period.
type GlottisState int

const (
	// GlottisClosed is the closed phase; the natural source emits nothing.
	GlottisClosed GlottisState = iota
	// GlottisOpen is the open phase in which the pulse is shaped.
	GlottisOpen
)

func (s GlottisState) String() string {
	if s == GlottisOpen {
		return "open"
	}
	return "closed"
}

// glottis models the natural voicing source. Counters run at 4x the output
// sample rate. The period restarts when nper reaches t0, and only then are
// the period constants recomputed from the current frame.
type glottis struct {
	state GlottisState

	nper  int // position within the voicing period
	t0    int // period length, 4x samples
	nopen int // length of the open phase
	nmod  int // position in period where noise modulation starts

	natA  float64 // makes waveshape of glottal pulse when open
	natB  float64
	vwave float64
	skew  int
}

// step produces one sample of the differentiated glottal flow.
func (g *glottis) step() float64 {
	if g.nper >= g.nopen {
		g.state = GlottisClosed
		g.vwave = 0
		return 0
	}
	g.state = GlottisOpen
	g.natA -= g.natB
	g.vwave += g.natA
	return g.vwave * 0.028
}

// periodDone reports whether the period counter has reached t0.
func (g *glottis) periodDone() bool {
	return g.nper >= g.t0
}

// resetPeriod starts a new voicing period using frame. It returns the linear
// voicing and breathiness gains for the new period.
func (g *glottis) resetPeriod(frame *Frame, sampleRate int) (ampVoice, ampBreath float64) {
	g.nper = 0
	g.state = GlottisOpen

	if frame.F0hz10 <= 0 {
		g.t0 = 4
		g.nmod = g.t0
		g.nopen = 0
		g.natA = 0
		g.natB = 0
		g.state = GlottisClosed
		return 0, 0
	}

	g.t0 = (40 * sampleRate) / frame.F0hz10
	ampVoice = DBtoLIN(frame.AVdb)

	g.nmod = g.t0
	if frame.AVdb > 0 {
		g.nmod /= 2
	}

	ampBreath = DBtoLIN(frame.Aturb) * 0.1

	g.nopen = 4 * frame.Kopen
	if g.nopen >= g.t0-1 {
		g.nopen = g.t0 - 2
		slog.Debug("glottal open period truncated to t0", "nopen", g.nopen, "t0", g.t0)
	}
	if g.nopen < minOpen {
		g.nopen = minOpen
	}
	if g.nopen > maxOpen {
		g.nopen = maxOpen
	}

	g.natB = natglot[g.nopen-minOpen]
	g.natA = (g.natB * float64(g.nopen)) * 0.333

	// Skew alternate periods, never past the closed phase.
	kskew := frame.Kskew
	if closed := g.t0 - g.nopen; kskew > closed {
		kskew = closed
	}
	if g.skew >= 0 {
		g.skew = kskew
	} else {
		g.skew = -kskew
	}
	g.t0 += g.skew
	g.skew = -g.skew

	return ampVoice, ampBreath
}
