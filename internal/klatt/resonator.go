package klatt

import "math"

// Resonator is one second-order IIR section. The same coefficients and delay
// registers serve both the resonator and the anti-resonator step functions;
// only the coefficient setup and what is stored in p1/p2 differ.
type Resonator struct {
	a  float64
	b  float64
	c  float64
	p1 float64
	p2 float64
}

// Step runs the resonator difference equation for one sample:
// y[n] = a*x[n] + b*y[n-1] + c*y[n-2].
func (r *Resonator) Step(input float64) float64 {
	x := r.a*input + r.b*r.p1 + r.c*r.p2
	r.p2 = r.p1
	r.p1 = x
	return x
}

// StepZero runs the anti-resonator for one sample. Coefficients must have
// been set with SetZero; p1/p2 hold past inputs rather than outputs.
func (r *Resonator) StepZero(input float64) float64 {
	x := r.a*input + r.b*r.p1 + r.c*r.p2
	r.p2 = r.p1
	r.p1 = input
	return x
}

// Set converts a centre frequency and bandwidth (Hz) into resonator
// coefficients for the given sample rate.
func (r *Resonator) Set(f, bw float64, sampleRate int) {
	minusPiT := -math.Pi / float64(sampleRate)
	twoPiT := -2 * minusPiT
	e := math.Exp(minusPiT * bw) // r = exp(-pi bw t)
	r.c = -(e * e)
	r.b = e * math.Cos(twoPiT*f) * 2
	r.a = 1 - r.b - r.c
}

// SetGain sets resonator coefficients and scales the input gain.
func (r *Resonator) SetGain(f, bw, gain float64, sampleRate int) {
	r.Set(f, bw, sampleRate)
	r.a *= gain
}

// SetZero sets anti-resonator coefficients, the inverse of Set.
func (r *Resonator) SetZero(f, bw float64, sampleRate int) {
	f = -f
	if f >= 0 {
		f = -1
	}
	r.Set(f, bw, sampleRate)

	r.a = 1 / r.a
	r.c *= -r.a
	r.b *= -r.a
}

// Gain returns the magnitude response at frequency f.
func (r *Resonator) Gain(f float64, sampleRate int) float64 {
	w := 2 * math.Pi * f / float64(sampleRate)
	// H(z) = a / (1 - b z^-1 - c z^-2)
	re := 1 - r.b*math.Cos(w) - r.c*math.Cos(2*w)
	im := r.b*math.Sin(w) + r.c*math.Sin(2*w)
	return math.Abs(r.a) / math.Hypot(re, im)
}
