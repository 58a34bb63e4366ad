package klatt

import "math"

/*
 * natglot controls the shape of the glottal pulse as a function of the
 * desired duration of the open phase N0 (in samples at 4x the output rate).
 *
 *    Assume voicing waveform V(t) has form: k1 t**2 - k2 t**3
 *
 *    With the radiation characteristic folded in and going to discrete
 *    integers n:  dV/dt = vwave[n]
 *                       = sum over i=1,2,...,n of { a - (i * b) }
 *                       = a n  -  b/2 n**2
 *
 *    No net dc flow            --> a = (b * nopen) / 3
 *    Max of dUg(n)/dn constant --> b = gain / (nopen * nopen)
 *
 *    natglot[nopen - 40] = 1920000 / (nopen * nopen),  40 <= nopen <= 263
 */
var natglot = [...]float64{
	1200, 1142, 1088, 1038, 991, 948, 907, 869, 833, 799, 768, 738, 710, 683, 658,
	634, 612, 590, 570, 551, 533, 515, 499, 483, 468, 454, 440, 427, 415, 403,
	391, 380, 370, 360, 350, 341, 332, 323, 315, 307, 300, 292, 285, 278, 272,
	265, 259, 253, 247, 242, 237, 231, 226, 221, 217, 212, 208, 204, 199, 195,
	192, 188, 184, 180, 177, 174, 170, 167, 164, 161, 158, 155, 153, 150, 147,
	145, 142, 140, 137, 135, 133, 131, 128, 126, 124, 122, 120, 119, 117, 115,
	113, 111, 110, 108, 106, 105, 103, 102, 100, 99, 97, 96, 95, 93, 92, 91, 90,
	88, 87, 86, 85, 84, 83, 82, 80, 79, 78, 77, 76, 75, 75, 74, 73, 72, 71,
	70, 69, 68, 68, 67, 66, 65, 64, 64, 63, 62, 61, 61, 60, 59, 59, 58, 57,
	57, 56, 56, 55, 55, 54, 54, 53, 53, 52, 52, 51, 51, 50, 50, 49, 49, 48, 48,
	47, 47, 46, 46, 45, 45, 44, 44, 43, 43, 42, 42, 41, 41, 41, 41, 40, 40,
	39, 39, 38, 38, 38, 38, 37, 37, 36, 36, 36, 36, 35, 35, 35, 35, 34, 34, 33,
	33, 33, 33, 32, 32, 32, 32, 31, 31, 31, 31, 30, 30, 30, 30, 29, 29, 29, 29,
	28, 28, 28, 28, 27, 27,
}

const (
	minOpen = 40
	maxOpen = minOpen + len(natglot) - 1
)

/*
 * Conversion table, dB to linear, 87 dB --> 32767
 *                                 86 dB --> 29491 (1 dB down = 0.5**1/6)
 *                                 81 dB --> 16384 (6 dB down = 0.5)
 *                                  0 dB -->     0
 *
 * Amplitudes are quantized to 1 dB steps, about the just noticeable
 * difference for a vowel.
 */
var ampTable = [...]float64{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 6, 7,
	8, 9, 10, 11, 13, 14, 16, 18, 20, 22, 25, 28, 32,
	35, 40, 45, 51, 57, 64, 71, 80, 90, 101, 114, 128,
	142, 159, 179, 202, 227, 256, 284, 318, 359, 405,
	455, 512, 568, 638, 719, 811, 911, 1024, 1137, 1276,
	1438, 1622, 1823, 2048, 2273, 2552, 2875, 3244, 3645,
	4096, 4547, 5104, 5751, 6488, 7291, 8192, 9093, 10207,
	11502, 12976, 14582, 16384, 18350, 20644, 23429,
	26214, 29491, 32767,
}

// DBtoLIN converts a level in dB to a linear gain. Levels outside the table
// clamp to its first or last entry.
func DBtoLIN(dB float64) float64 {
	i := int(math.Round(dB))
	switch {
	case i < 0:
		i = 0
	case i >= len(ampTable):
		i = len(ampTable) - 1
	}
	return ampTable[i] * 0.001
}
