// Package klatt implements a Klatt cascade/parallel formant synthesizer.
//
// The synthesizer turns one Frame of control parameters into a frame of
// 16-bit samples at a time. All filter state, the glottal period counters
// and the noise generator belong to one Synthesizer, which must be driven
// sequentially: each sample depends on the filter state left by the
// previous one.
package klatt

import "math"

// Config fixes the synthesizer's rate and voice settings at construction.
type Config struct {
	SampleRate int    // output samples per second
	FrameMs    int    // frame length in milliseconds
	Cascade    int    // number of cascade formants, 0 derives it from SampleRate
	Flutter    int    // percentage of f0 flutter 0-100, 0 disables
	Seed       uint32 // noise generator seed
}

// DefaultConfig returns the 11025 Hz, 10 ms configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate: 11025,
		FrameMs:    10,
		Flutter:    10,
		Seed:       1,
	}
}

// Synthesizer converts frames into samples.
type Synthesizer struct {
	cfg             Config
	sampleRate      int
	samplesPerFrame int
	nfcascade       int

	glot  glottis
	noise *Noise

	ns int // current sample within frame

	cur Frame // frame being rendered, after level adjustments

	ampVoice    float64 // AVdb converted to linear gain
	ampBypass   float64 // AB converted to linear gain
	parAmpVoice float64 // AVpdb converted to linear gain
	ampAspir    float64 // ASP converted to linear gain
	ampFric     float64 // AF converted to linear gain
	ampBreath   float64 // Aturb converted to linear gain
	ampGain0    float64 // Gain0 converted to linear gain

	onemd float64 // voicing one-pole low-pass
	decay float64 // TLTdb converted to exponential time const

	flutterTime int
	lastNoise   float64
	vlast       float64
	glotlast    float64

	rnpp Resonator // parallel nasal pole
	r1p  Resonator // parallel 1st formant
	r2p  Resonator // parallel 2nd formant
	r3p  Resonator // parallel 3rd formant
	r4p  Resonator // parallel 4th formant
	r5p  Resonator // parallel 5th formant
	r6p  Resonator // parallel 6th formant
	r1c  Resonator // cascade 1st formant
	r2c  Resonator // cascade 2nd formant
	r3c  Resonator // cascade 3rd formant
	r4c  Resonator // cascade 4th formant
	r5c  Resonator // cascade 5th formant
	r6c  Resonator // cascade 6th formant
	r7c  Resonator // cascade 7th formant
	r8c  Resonator // cascade 8th formant
	rnpc Resonator // cascade nasal pole
	rnz  Resonator // cascade nasal zero
	rlp  Resonator // downsampling low-pass
	rout Resonator // output low-pass
}

// New returns a synthesizer ready to render the first frame of an utterance.
func New(cfg Config) *Synthesizer {
	def := DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.FrameMs <= 0 {
		cfg.FrameMs = def.FrameMs
	}
	s := &Synthesizer{
		cfg:             cfg,
		sampleRate:      cfg.SampleRate,
		samplesPerFrame: cfg.SampleRate * cfg.FrameMs / 1000,
		nfcascade:       cfg.Cascade,
		noise:           NewNoise(cfg.Seed),
	}
	if s.nfcascade <= 0 {
		s.nfcascade = CascadeFor(cfg.SampleRate)
	}
	s.Reset()
	return s
}

// CascadeFor returns how many cascade formants fit below the Nyquist
// frequency of sampleRate, between 4 and 8.
func CascadeFor(sampleRate int) int {
	n := (sampleRate/2 - 500) / 1000
	switch {
	case n < 4:
		return 4
	case n > 8:
		return 8
	}
	return n
}

// SamplesPerFrame returns the number of samples Render appends per frame.
func (s *Synthesizer) SamplesPerFrame() int { return s.samplesPerFrame }

// SampleRate returns the output sample rate.
func (s *Synthesizer) SampleRate() int { return s.sampleRate }

// Glottis returns the current phase of the voicing source.
func (s *Synthesizer) Glottis() GlottisState { return s.glot.state }

// Reset clears all filter state and restarts the noise sequence, so that
// the next utterance renders exactly as it would on a fresh synthesizer.
func (s *Synthesizer) Reset() {
	s.glot = glottis{}
	s.noise.Seed(s.cfg.Seed)
	s.ns = 0
	s.ampVoice, s.ampBreath = 0, 0
	s.onemd, s.decay = 1, 0
	s.flutterTime = 0
	s.lastNoise, s.vlast, s.glotlast = 0, 0, 0

	for _, r := range s.resonators() {
		*r = Resonator{}
	}

	glotLPFreq := float64((950 * s.sampleRate) / 10000)
	glotLPBandw := float64((630 * s.sampleRate) / 10000)
	s.rlp.Set(glotLPFreq, glotLPBandw, s.sampleRate)
}

func (s *Synthesizer) resonators() []*Resonator {
	return []*Resonator{
		&s.rnpp, &s.r1p, &s.r2p, &s.r3p, &s.r4p, &s.r5p, &s.r6p,
		&s.r1c, &s.r2c, &s.r3c, &s.r4c, &s.r5c, &s.r6c, &s.r7c, &s.r8c,
		&s.rnpc, &s.rnz, &s.rlp, &s.rout,
	}
}

// Render synthesizes one frame and appends SamplesPerFrame samples to buf.
func (s *Synthesizer) Render(frame *Frame, buf []int16) []int16 {
	s.frameInit(*frame)

	if s.cfg.Flutter != 0 {
		s.flutter()
	}

	for s.ns = 0; s.ns < s.samplesPerFrame; s.ns++ {
		// Low-passed random number for aspiration and frication noise:
		// output = input + (0.75 * lastoutput).
		nrand := s.noise.Next()
		noise := float64(nrand) + 0.75*s.lastNoise
		s.lastNoise = noise

		// Reduce noise amplitude during the second half of the glottal period.
		if s.glot.nper > s.glot.nmod {
			noise *= 0.5
		}

		frics := s.ampFric * noise

		// Voicing runs at 4x the sample rate to keep quantization noise out
		// of short (female voice) periods.
		var voice float64
		for n4 := 0; n4 < 4; n4++ {
			voice = s.glot.step()

			if s.glot.periodDone() {
				s.resetPeriod()
			}

			voice = s.rlp.Step(voice)
			s.glot.nper++
		}

		// Tilt the voicing spectrum down, amount set by TLTdb.
		voice = (voice * s.onemd) + (s.vlast * s.decay)
		s.vlast = voice

		// Breathiness during the open phase uses the unfiltered noise.
		if s.glot.nper < s.glot.nopen {
			voice += s.ampBreath * float64(nrand)
		}

		glotout := s.ampVoice * voice
		parGlotout := s.parAmpVoice * voice

		aspiration := s.ampAspir * noise
		glotout += aspiration
		parGlotout += aspiration

		// Cascade vocal tract: nasal zero, nasal pole, then F8..F1.
		out := s.cascade(glotout)

		// Parallel F1 and nasal pole are excited by voicing.
		out += s.r1p.Step(parGlotout)
		out += s.rnpp.Step(parGlotout)

		// Other parallel formants get frication plus the first difference
		// of the voicing waveform; outputs alternate in sign.
		source := frics + parGlotout - s.glotlast
		s.glotlast = parGlotout

		out = s.r6p.Step(source) - out
		out = s.r5p.Step(source) - out
		out = s.r4p.Step(source) - out
		out = s.r3p.Step(source) - out
		out = s.r2p.Step(source) - out

		out = s.ampBypass*source - out

		out = s.rout.Step(out)

		buf = append(buf, clip(out*s.ampGain0))
	}
	return buf
}

func (s *Synthesizer) cascade(in float64) float64 {
	next := s.rnz.StepZero(in)
	next = s.rnpc.Step(next)

	if s.nfcascade >= 8 {
		next = s.r8c.Step(next)
	}
	if s.nfcascade >= 7 {
		next = s.r7c.Step(next)
	}
	if s.nfcascade >= 6 {
		next = s.r6c.Step(next)
	}
	if s.nfcascade >= 5 {
		next = s.r5c.Step(next)
	}
	next = s.r4c.Step(next)
	next = s.r3c.Step(next)
	next = s.r2c.Step(next)
	return s.r1c.Step(next)
}

// clip converts to 16 bits, saturating at the word boundaries.
func clip(v float64) int16 {
	switch {
	case v < -32767:
		return -32767
	case v > 32767:
		return 32767
	}
	return int16(v)
}

// frameInit moves the frame into active use. Voicing parameters wait for
// the next pitch period to avoid waveform glitches.
func (s *Synthesizer) frameInit(frame Frame) {
	frame.AVdb -= 7
	if frame.AVdb < 0 {
		frame.AVdb = 0
	}

	s.ampAspir = DBtoLIN(frame.ASP) * 0.05
	s.ampFric = DBtoLIN(frame.AF) * 0.25
	s.parAmpVoice = DBtoLIN(frame.AVpdb)

	// Scale factors that let all-parallel synthesis sound close to
	// cascade-parallel.
	ampParF1 := DBtoLIN(frame.A1) * 0.4   // -7.96 dB
	ampParF2 := DBtoLIN(frame.A2) * 0.15  // -16.5 dB
	ampParF3 := DBtoLIN(frame.A3) * 0.06  // -24.4 dB
	ampParF4 := DBtoLIN(frame.A4) * 0.04  // -28.0 dB
	ampParF5 := DBtoLIN(frame.A5) * 0.022 // -33.2 dB
	ampParF6 := DBtoLIN(frame.A6) * 0.03  // -30.5 dB
	ampParFNP := DBtoLIN(frame.ANP) * 0.6 // -4.44 dB
	s.ampBypass = DBtoLIN(frame.AB) * 0.05

	frame.Gain0 -= 3
	if frame.Gain0 <= 0 {
		frame.Gain0 = 57
	}
	s.ampGain0 = DBtoLIN(frame.Gain0)

	sr := s.sampleRate
	if s.nfcascade >= 8 {
		s.r8c.Set(7500, 600, sr)
	}
	if s.nfcascade >= 7 {
		s.r7c.Set(6500, 500, sr)
	}
	if s.nfcascade >= 6 {
		s.r6c.Set(frame.F6hz, frame.B6hz, sr)
	}
	if s.nfcascade >= 5 {
		s.r5c.Set(frame.F5hz, frame.B5hz, sr)
	}
	s.r4c.Set(frame.F4hz, frame.B4hz, sr)
	s.r3c.Set(frame.F3hz, frame.B3hz, sr)
	s.r2c.Set(frame.F2hz, frame.B2hz, sr)
	s.r1c.Set(frame.F1hz, frame.B1hz, sr)

	s.rnpc.Set(frame.FNPhz, frame.BNPhz, sr)
	s.rnz.SetZero(frame.FNZhz, frame.BNZhz, sr)

	s.r1p.SetGain(frame.F1hz, frame.B1phz, ampParF1, sr)
	s.rnpp.SetGain(frame.FNPhz, frame.BNPhz, ampParFNP, sr)
	s.r2p.SetGain(frame.F2hz, frame.B2phz, ampParF2, sr)
	s.r3p.SetGain(frame.F3hz, frame.B3phz, ampParF3, sr)
	s.r4p.SetGain(frame.F4hz, frame.B4phz, ampParF4, sr)
	s.r5p.SetGain(frame.F5hz, frame.B5phz, ampParF5, sr)
	s.r6p.SetGain(frame.F6hz, frame.B6phz, ampParF6, sr)

	s.rout.Set(0, float64(sr/2), sr)

	s.cur = frame
}

// resetPeriod is the pitch-synchronous transition between voicing periods.
func (s *Synthesizer) resetPeriod() {
	s.ampVoice, s.ampBreath = s.glot.resetPeriod(&s.cur, s.sampleRate)

	// Tilt updates pitch-synchronously, or once per frame when unvoiced.
	if s.glot.t0 != 4 || s.ns == 0 {
		s.decay = 0.033 * s.cur.TLTdb
		if s.decay > 0 {
			s.onemd = 1 - s.decay
		} else {
			s.onemd = 1
		}
	}
}

// flutter adds a quasi-random f0 drift built from three slow sine waves,
// after Klatt and Klatt, JASA 87(2), 1990.
func (s *Synthesizer) flutter() {
	t := float64(s.flutterTime*s.cfg.FrameMs) / 1000
	s.flutterTime++
	if s.cur.F0hz10 <= 0 {
		return
	}
	fla := float64(s.cfg.Flutter) / 50
	flb := float64(s.cur.F0hz10) / 10 / 100
	flc := math.Sin(2 * math.Pi * 12.7 * t)
	fld := math.Sin(2 * math.Pi * 7.1 * t)
	fle := math.Sin(2 * math.Pi * 4.7 * t)
	delta := fla * flb * (flc + fld + fle) * 10
	s.cur.F0hz10 += int(delta)
}
