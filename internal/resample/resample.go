// Package resample converts native-rate mono samples to interleaved stereo
// at four times the rate.
package resample

// Factor is the fixed upsampling ratio.
const Factor = 4

// Upsample4 returns native upsampled by Factor with linear interpolation,
// each value written to both channels. The output holds
// len(native)*Factor*2 samples. The last input sample interpolates toward
// itself.
func Upsample4(native []int16) []int16 {
	out := make([]int16, len(native)*Factor*2)
	copy(out, native)
	return upsampleInPlace(out, len(native))
}

// Into behaves like Upsample4 but reuses buf when it has room. native may
// alias the start of buf.
func Into(buf, native []int16) []int16 {
	n := len(native)
	need := n * Factor * 2
	if cap(buf) < need {
		grown := make([]int16, need)
		copy(grown, native)
		return upsampleInPlace(grown, n)
	}
	buf = buf[:need]
	copy(buf, native)
	return upsampleInPlace(buf, n)
}

// upsampleInPlace expands the first n samples of buf. It walks backward so
// no input sample is overwritten before it is read.
func upsampleInPlace(buf []int16, n int) []int16 {
	if n == 0 {
		return buf[:0]
	}
	next := int32(buf[n-1])
	for i := n - 1; i >= 0; i-- {
		cur := int32(buf[i])
		o := i * Factor * 2
		for k := Factor - 1; k >= 0; k-- {
			v := int16(cur + (next-cur)*int32(k)/Factor)
			buf[o+2*k] = v
			buf[o+2*k+1] = v
		}
		next = cur
	}
	return buf
}
