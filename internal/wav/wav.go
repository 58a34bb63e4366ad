// Package wav reads and writes 16-bit PCM WAV containers.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the length of the canonical header Encode writes.
const HeaderSize = 44

// ErrFormat is returned by Decode for data it cannot read.
var ErrFormat = errors.New("wav: unsupported format")

// Audio is decoded PCM.
type Audio struct {
	SampleRate int
	Channels   int
	Samples    []int16 // interleaved
}

// PCMBytes encodes samples as little-endian 16-bit PCM.
func PCMBytes(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

// Encode wraps 16-bit samples in a WAV container.
func Encode(samples []int16, sampleRate, channels int) []byte {
	return Wrap(PCMBytes(samples), sampleRate, channels, 2)
}

// Wrap wraps raw PCM data in a WAV container.
func Wrap(pcm []byte, sampleRate, channels, bytesPerSample int) []byte {
	dataLen := len(pcm)
	fileLen := 36 + dataLen // 44-byte header minus 8 bytes for RIFF header = 36

	buf := &bytes.Buffer{}
	buf.Grow(HeaderSize + dataLen)

	// RIFF header
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(fileLen))
	buf.WriteString("WAVE")

	// fmt subchunk
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*bytesPerSample))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels*bytesPerSample))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bytesPerSample*8))

	// data subchunk
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(pcm)

	return buf.Bytes()
}

// Decode reads a 16-bit PCM WAV file. Chunks other than fmt and data are
// skipped.
func Decode(data []byte) (*Audio, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrFormat)
	}
	var (
		a      Audio
		gotFmt bool
	)
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4:]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return nil, fmt.Errorf("%w: chunk %q overruns file", ErrFormat, id)
		}
		chunk := data[body : body+size]

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrFormat)
			}
			if f := binary.LittleEndian.Uint16(chunk[0:]); f != 1 {
				return nil, fmt.Errorf("%w: audio format %d", ErrFormat, f)
			}
			if bits := binary.LittleEndian.Uint16(chunk[14:]); bits != 16 {
				return nil, fmt.Errorf("%w: %d bits per sample", ErrFormat, bits)
			}
			a.Channels = int(binary.LittleEndian.Uint16(chunk[2:]))
			a.SampleRate = int(binary.LittleEndian.Uint32(chunk[4:]))
			gotFmt = true
		case "data":
			if !gotFmt {
				return nil, fmt.Errorf("%w: data before fmt", ErrFormat)
			}
			a.Samples = make([]int16, size/2)
			for i := range a.Samples {
				a.Samples[i] = int16(binary.LittleEndian.Uint16(chunk[2*i:]))
			}
			return &a, nil
		}
		off = body + size + size%2
	}
	return nil, fmt.Errorf("%w: no data chunk", ErrFormat)
}
