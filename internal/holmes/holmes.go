// Package holmes schedules element instances into synthesizer frames.
//
// Each element holds a steady target for every parameter. At each boundary
// the element with the higher rank decides how the two blend, and the
// parameter ramps from the boundary value to the steady target and out
// again. Pitch follows a per-phrase declination line with a contour that
// rises toward each stressed vowel.
package holmes

import (
	"context"
	"math"

	"github.com/nadzzz/formantd/internal/elements"
	"github.com/nadzzz/formantd/internal/klatt"
)

// Config tunes the scheduler. Zero fields take the defaults.
type Config struct {
	F0Hz        float64     // starting pitch
	Speed       float64     // scales durations and transition delays, 1 is nominal
	Smoothing   float64     // one-pole filter coefficient, 1 disables smoothing
	PauseReset  int         // consecutive end pauses tolerated before prosody resets
	Declination float64     // top pitch drop per frame, in tenths of Hz
	Base        klatt.Frame // parameters the elements do not drive
}

// Defaults.
const (
	DefaultF0Hz        = 133
	DefaultPauseReset  = 1
	DefaultDeclination = 0.5

	ampAdjust     = 14  // dB added to parallel amplitudes
	nasalPoleHz   = 270 // fixed nasal pole
	stressRampLen = 40  // frames for the contour to reach its target
)

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		F0Hz:        DefaultF0Hz,
		Speed:       1,
		Smoothing:   1,
		PauseReset:  DefaultPauseReset,
		Declination: DefaultDeclination,
		Base:        klatt.DefaultFrame(),
	}
}

// Scheduler turns instances into frames. It holds no per-utterance state
// and may be reused.
type Scheduler struct {
	cfg Config
}

// New returns a scheduler. A zero Base frame is replaced by
// klatt.DefaultFrame.
func New(cfg Config) *Scheduler {
	def := DefaultConfig()
	if cfg.F0Hz <= 0 {
		cfg.F0Hz = def.F0Hz
	}
	if cfg.Speed <= 0 {
		cfg.Speed = def.Speed
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = def.Smoothing
	}
	if cfg.PauseReset <= 0 {
		cfg.PauseReset = def.PauseReset
	}
	if cfg.Declination < 0 {
		cfg.Declination = def.Declination
	}
	if cfg.Base == (klatt.Frame{}) {
		cfg.Base = def.Base
	}
	cfg.Base.F0hz10 = int(math.Round(cfg.F0Hz * 10))
	return &Scheduler{cfg: cfg}
}

// Config returns the effective configuration.
func (s *Scheduler) Config() Config { return s.cfg }

// Duration returns the scheduled length of in, in frames.
func (s *Scheduler) Duration(in elements.Instance) int {
	if in.Duration <= 0 {
		return 0
	}
	d := int(math.Round(float64(in.Duration) * s.cfg.Speed))
	if d < 1 {
		d = 1
	}
	return d
}

// Frames returns how many frames Run emits for instances.
func (s *Scheduler) Frames(instances []elements.Instance) int {
	n := 0
	for _, in := range instances {
		n += s.Duration(in)
	}
	return n
}

// state carries the pitch contour across elements.
type state struct {
	top      float64
	stressS  slope
	stressE  slope
	tstress  int
	ntstress int
	ends     int
}

func (s *Scheduler) resetProsody(st *state) {
	st.top = 1.1 * float64(s.cfg.Base.F0hz10)
	st.stressS = slope{t: stressRampLen}
	st.stressE = slope{t: stressRampLen}
	st.tstress, st.ntstress = 0, 0
}

// Run emits one frame per scheduled frame of instances. The frame passed to
// emit is reused and only valid until emit returns. ctx is checked between
// elements.
func (s *Scheduler) Run(ctx context.Context, instances []elements.Instance, emit func(*klatt.Frame) error) error {
	end := elements.Get(elements.END)
	durs := make([]int, len(instances))
	for i, in := range instances {
		durs[i] = s.Duration(in)
	}

	var st state
	s.resetProsody(&st)

	var flt [elements.NParams]smoother
	for p := range flt {
		flt[p] = smoother{a: s.cfg.Smoothing, b: 1 - s.cfg.Smoothing, v: end.P[p].Steady}
	}

	floor := 0.6 * float64(s.cfg.Base.F0hz10)
	frame := s.cfg.Base
	le := end
	for i, in := range instances {
		if err := ctx.Err(); err != nil {
			return err
		}
		ce := elements.Get(in.ID)
		if in.ID == elements.END {
			st.ends++
			if st.ends > s.cfg.PauseReset {
				s.resetProsody(&st)
			}
		} else {
			st.ends = 0
		}

		dur := durs[i]
		if dur == 0 {
			le = ce
			continue
		}

		ne := end
		if i+1 < len(instances) {
			ne = elements.Get(instances[i+1].ID)
		}
		start := decide(ce, le, false).slopes(ce, le, s.cfg.Speed)
		stop := decide(ce, ne, true).slopes(ce, ne, s.cfg.Speed)

		for t := 0; t < dur; t++ {
			if st.tstress == st.ntstress {
				s.lookahead(&st, instances, durs, i, dur-t)
			}

			var tp [elements.NParams]float64
			for p := range tp {
				v := interpolate(start[p], stop[p], ce.P[p].Steady, float64(t), float64(dur))
				tp[p] = flt[p].step(v)
			}

			base := 0.8 * st.top
			contour := interpolate(st.stressS, st.stressE, 0, float64(st.tstress), float64(st.ntstress))
			frame.F0hz10 = int(base + (st.top-base)*contour)
			fill(&frame, &tp)

			if err := emit(&frame); err != nil {
				return err
			}

			st.tstress++
			if st.top > floor {
				st.top -= s.cfg.Declination
			}
		}
		le = ce
	}
	return nil
}

// lookahead starts the next pitch contour segment at instance i with
// remain frames left in it. The segment ends halfway through the next
// stressed or vowel syllable, or falls to zero at the end of the input.
func (s *Scheduler) lookahead(st *state, instances []elements.Instance, durs []int, i, remain int) {
	st.stressS = st.stressE
	st.tstress = 0
	st.ntstress = remain
	st.stressE.v = 0

	for j := i + 1; j < len(instances); j++ {
		e := elements.Get(instances[j].ID)
		stress := instances[j].Stress
		if stress > 0 || e.Is(elements.Vowel) {
			if stress > 0 {
				st.stressE.v = float64(stress) / 3
			} else {
				st.stressE.v = 0.1
			}
			d := 0
			for k := j; k < len(instances); k++ {
				ek := elements.Get(instances[k].ID)
				if !ek.Is(elements.Vowel) || instances[k].Stress != stress {
					break
				}
				d += durs[k]
			}
			if d == 0 {
				d = durs[j]
			}
			st.ntstress += d / 2
			return
		}
		st.ntstress += durs[j]
	}
}

// fill copies the interpolated parameters into frame.
func fill(frame *klatt.Frame, tp *[elements.NParams]float64) {
	frame.AVdb = tp[elements.AV]
	frame.AVpdb = tp[elements.AV]
	frame.AF = tp[elements.AF]
	frame.FNZhz = tp[elements.FN]
	frame.FNPhz = nasalPoleHz
	frame.ASP = tp[elements.ASP]
	frame.Aturb = tp[elements.AVC]

	frame.B1hz = tp[elements.B1]
	frame.B1phz = tp[elements.B1]
	frame.B2hz = tp[elements.B2]
	frame.B2phz = tp[elements.B2]
	frame.B3hz = tp[elements.B3]
	frame.B3phz = tp[elements.B3]

	frame.F1hz = tp[elements.F1]
	frame.F2hz = tp[elements.F2]
	frame.F3hz = tp[elements.F3]

	frame.ANP = ampAdjust + tp[elements.AN]
	frame.A1 = ampAdjust + tp[elements.A1]
	frame.A2 = ampAdjust + tp[elements.A2]
	frame.A3 = ampAdjust + tp[elements.A3]
	frame.A4 = ampAdjust + tp[elements.A4]
	frame.A5 = ampAdjust + tp[elements.A5]
	frame.A6 = ampAdjust + tp[elements.A6]
	frame.AB = ampAdjust + tp[elements.AB]
}
