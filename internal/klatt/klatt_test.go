package klatt

import (
	"math"
	"testing"
)

func TestResonator_UnityDCGain(t *testing.T) {
	var r Resonator
	r.Set(1000, 100, 11025)

	if g := r.Gain(0, 11025); math.Abs(g-1) > 1e-9 {
		t.Errorf("dc gain = %v, want 1", g)
	}

	var y float64
	for i := 0; i < 5000; i++ {
		y = r.Step(1)
	}
	if math.Abs(y-1) > 1e-6 {
		t.Errorf("step response settled at %v, want 1", y)
	}
}

func TestResonator_PeakNearCentre(t *testing.T) {
	var r Resonator
	r.Set(1500, 80, 11025)

	peak := r.Gain(1500, 11025)
	for _, f := range []float64{500, 1000, 2000, 3000} {
		if g := r.Gain(f, 11025); g >= peak {
			t.Errorf("gain at %v Hz = %v, want below peak %v", f, g, peak)
		}
	}
}

func TestAntiResonator_InvertsResonator(t *testing.T) {
	var r, z Resonator
	r.Set(450, 100, 11025)
	z.SetZero(450, 100, 11025)

	for i := 0; i < 200; i++ {
		x := math.Sin(float64(i) * 0.3)
		got := z.StepZero(r.Step(x))
		if math.Abs(got-x) > 1e-9 {
			t.Fatalf("sample %d: got %v, want %v", i, got, x)
		}
	}
}

func TestDBtoLIN_Clamps(t *testing.T) {
	tests := []struct {
		db   float64
		want float64
	}{
		{-10, 0},
		{0, 0},
		{81, 16.384},
		{87, 32.767},
		{120, 32.767},
	}
	for _, tt := range tests {
		if got := DBtoLIN(tt.db); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DBtoLIN(%v) = %v, want %v", tt.db, got, tt.want)
		}
	}
}

func TestNoise_Deterministic(t *testing.T) {
	a, b := NewNoise(7), NewNoise(7)
	for i := 0; i < 1000; i++ {
		x, y := a.Next(), b.Next()
		if x != y {
			t.Fatalf("step %d: %d != %d", i, x, y)
		}
		if x < -8191 || x > 8192 {
			t.Fatalf("step %d: %d out of range", i, x)
		}
	}
}

func TestCascadeFor(t *testing.T) {
	tests := []struct {
		rate int
		want int
	}{
		{8000, 4},
		{11025, 5},
		{16000, 7},
		{44100, 8},
	}
	for _, tt := range tests {
		if got := CascadeFor(tt.rate); got != tt.want {
			t.Errorf("CascadeFor(%d) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}

func TestRender_SilentFrame(t *testing.T) {
	s := New(DefaultConfig())
	f := DefaultFrame()

	out := s.Render(&f, nil)
	if len(out) != s.SamplesPerFrame() {
		t.Fatalf("len = %d, want %d", len(out), s.SamplesPerFrame())
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %d, want 0", i, v)
		}
	}
}

func voicedFrame() Frame {
	f := DefaultFrame()
	f.AVdb = 60
	f.F1hz, f.F2hz, f.F3hz = 700, 1220, 2600
	f.B1hz, f.B2hz, f.B3hz = 130, 70, 160
	return f
}

func TestRender_VoicedFrameCyclesGlottis(t *testing.T) {
	s := New(Config{SampleRate: 11025, FrameMs: 10, Seed: 1})
	f := voicedFrame()
	if got := s.Glottis(); got != GlottisClosed {
		t.Fatalf("fresh synthesizer glottis = %v, want %v", got, GlottisClosed)
	}

	// A frame is not a whole number of periods, so the phase at each frame
	// boundary drifts through both halves of the cycle.
	seen := map[GlottisState]int{}
	var out []int16
	for i := 0; i < 20; i++ {
		out = s.Render(&f, out)
		seen[s.Glottis()]++
	}
	if len(out) != 20*s.SamplesPerFrame() {
		t.Fatalf("len = %d, want %d", len(out), 20*s.SamplesPerFrame())
	}
	if seen[GlottisOpen] == 0 || seen[GlottisClosed] == 0 {
		t.Errorf("glottis phases at frame ends = %v, want both open and closed", seen)
	}

	var energy float64
	for _, v := range out {
		energy += float64(v) * float64(v)
	}
	if energy == 0 {
		t.Error("voiced frames rendered silence")
	}
}

func TestGlottis_OpenThenClosed(t *testing.T) {
	var g glottis
	f := voicedFrame()
	f.F0hz10 = 1000
	g.resetPeriod(&f, 11025)

	for i := 0; i < g.t0; i++ {
		g.step()
		want := GlottisOpen
		if i >= g.nopen {
			want = GlottisClosed
		}
		if g.state != want {
			t.Fatalf("nper %d: state %v, want %v", g.nper, g.state, want)
		}
		g.nper++
	}
}

func TestRender_DeterministicAfterReset(t *testing.T) {
	s := New(DefaultConfig())
	f := voicedFrame()
	f.AF = 50
	f.ASP = 40

	first := s.Render(&f, nil)
	first = s.Render(&f, first)

	s.Reset()
	second := s.Render(&f, nil)
	second = s.Render(&f, second)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after reset: %d != %d", i, first[i], second[i])
		}
	}
}

func TestGlottis_ResetPeriod(t *testing.T) {
	var g glottis
	f := voicedFrame()
	f.F0hz10 = 1000

	voice, _ := g.resetPeriod(&f, 11025)
	if g.t0 != 441 {
		t.Errorf("t0 = %d, want 441", g.t0)
	}
	if g.nopen != 160 {
		t.Errorf("nopen = %d, want 160", g.nopen)
	}
	if g.nmod != g.t0/2 {
		t.Errorf("nmod = %d, want %d", g.nmod, g.t0/2)
	}
	if voice == 0 {
		t.Error("voicing gain is zero for a voiced frame")
	}

	f.F0hz10 = 0
	if voice, _ := g.resetPeriod(&f, 11025); voice != 0 || g.t0 != 4 {
		t.Errorf("unvoiced reset: voice=%v t0=%d, want 0 and 4", voice, g.t0)
	}
	if g.state != GlottisClosed {
		t.Errorf("state = %v, want closed", g.state)
	}
}

func TestClip(t *testing.T) {
	if got := clip(1e9); got != 32767 {
		t.Errorf("clip(1e9) = %d", got)
	}
	if got := clip(-1e9); got != -32767 {
		t.Errorf("clip(-1e9) = %d", got)
	}
	if got := clip(12.7); got != 12 {
		t.Errorf("clip(12.7) = %d", got)
	}
}
