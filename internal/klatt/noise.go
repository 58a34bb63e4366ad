package klatt

// Noise is a linear-congruential generator producing values in
// [-8191, 8192]. Each Synthesizer owns one, so two synthesizers seeded
// alike produce identical output.
type Noise struct {
	seed uint32
}

// NewNoise returns a generator starting from seed.
func NewNoise(seed uint32) *Noise {
	return &Noise{seed: seed}
}

// Next advances the generator and returns the next sample.
func (n *Noise) Next() int {
	n.seed = n.seed*1103515245 + 12345
	return int((n.seed>>16)&0x3fff) - 8191
}

// Seed restarts the sequence.
func (n *Noise) Seed(seed uint32) {
	n.seed = seed
}
