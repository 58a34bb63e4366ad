package klatt

// Frame holds the synthesizer control parameters for one frame of audio.
// Amplitudes are in dB, frequencies and bandwidths in Hz.
type Frame struct {
	F0hz10 int     // Voicing fund freq in Hz * 10
	AVdb   float64 // Amp of voicing in dB,            0 to   70
	F1hz   float64 // First formant freq in Hz,        200 to 1300
	B1hz   float64 // First formant bw in Hz,          40 to 1000
	F2hz   float64 // Second formant freq in Hz,       550 to 3000
	B2hz   float64 // Second formant bw in Hz,         40 to 1000
	F3hz   float64 // Third formant freq in Hz,        1200 to 4999
	B3hz   float64 // Third formant bw in Hz,          40 to 1000
	F4hz   float64 // Fourth formant freq in Hz,       1200 to 4999
	B4hz   float64 // Fourth formant bw in Hz,         40 to 1000
	F5hz   float64 // Fifth formant freq in Hz,        1200 to 4999
	B5hz   float64 // Fifth formant bw in Hz,          40 to 1000
	F6hz   float64 // Sixth formant freq in Hz,        1200 to 4999
	B6hz   float64 // Sixth formant bw in Hz,          40 to 2000
	FNZhz  float64 // Nasal zero freq in Hz,           248 to  528
	BNZhz  float64 // Nasal zero bw in Hz,             40 to 1000
	FNPhz  float64 // Nasal pole freq in Hz,           248 to  528
	BNPhz  float64 // Nasal pole bw in Hz,             40 to 1000
	ASP    float64 // Amp of aspiration in dB,         0 to   70
	Kopen  int     // # of samples in open period,     10 to   65
	Aturb  float64 // Breathiness in voicing,          0 to   80
	TLTdb  float64 // Voicing spectral tilt in dB,     0 to   24
	AF     float64 // Amp of frication in dB,          0 to   80
	Kskew  int     // Skewness of alternate periods,   0 to   40 in sample#/2
	A1     float64 // Amp of par 1st formant in dB,    0 to   80
	B1phz  float64 // Par. 1st formant bw in Hz,       40 to 1000
	A2     float64 // Amp of F2 frication in dB,       0 to   80
	B2phz  float64 // Par. 2nd formant bw in Hz,       40 to 1000
	A3     float64 // Amp of F3 frication in dB,       0 to   80
	B3phz  float64 // Par. 3rd formant bw in Hz,       40 to 1000
	A4     float64 // Amp of F4 frication in dB,       0 to   80
	B4phz  float64 // Par. 4th formant bw in Hz,       40 to 1000
	A5     float64 // Amp of F5 frication in dB,       0 to   80
	B5phz  float64 // Par. 5th formant bw in Hz,       40 to 1000
	A6     float64 // Amp of F6 (same as r6pa),        0 to   80
	B6phz  float64 // Par. 6th formant bw in Hz,       40 to 2000
	ANP    float64 // Amp of par nasal pole in dB,     0 to   80
	AB     float64 // Amp of bypass fric. in dB,       0 to   80
	AVpdb  float64 // Amp of voicing,  par in dB,      0 to   70
	Gain0  float64 // Overall gain, 60 dB is unity,    0 to   60
}

// DefaultFrame returns the frame every utterance starts from. Formants
// above F3 and the nasal pole never change during an utterance.
func DefaultFrame() Frame {
	return Frame{
		F0hz10: 1330,
		F1hz:   500,
		B1hz:   60,
		F2hz:   1500,
		B2hz:   90,
		F3hz:   2500,
		B3hz:   150,
		F4hz:   3300,
		B4hz:   250,
		F5hz:   3750,
		B5hz:   200,
		F6hz:   4900,
		B6hz:   1000,
		FNZhz:  270,
		BNZhz:  100,
		FNPhz:  270,
		BNPhz:  100,
		Kopen:  40,
		TLTdb:  10,
		B1phz:  60,
		B2phz:  90,
		B3phz:  150,
		B4phz:  250,
		B5phz:  200,
		B6phz:  1000,
		Gain0:  60,
	}
}
