// Package pcmio bridges between the core's float32 PCM buffers and minimal
// RIFF/WAVE files, for the offline send-then-recv self-test path.
package pcmio

import (
	"bytes"
	"encoding/binary"
	"math"
)

type fmtChunk struct {
	audioFormat   uint16
	numChannels   uint16
	sampleRate    uint32
	byteRate      uint32
	blockAlign    uint16
	bitsPerSample uint16
}

// ReadWAV parses a canonical RIFF/WAVE file and returns mono float32 samples
// in [-1, 1] plus the file's sample rate. It understands PCM16 and PCM32;
// multichannel input is downmixed by keeping channel 0. WAV header fields
// are little-endian; do not confuse them with the big-endian calibration
// frame fields elsewhere in this module.
func ReadWAV(data []byte) (samples []float32, sampleRate int, err error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, &UnsupportedFormatError{Detail: "not a RIFF/WAVE file"}
	}

	var format *fmtChunk
	var dataBytes []byte

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			break
		}
		switch id {
		case "fmt ":
			f := parseFmtChunk(data[body : body+size])
			format = &f
		case "data":
			dataBytes = data[body : body+size]
		}
		pos = body + size
		if pos%2 == 1 {
			pos++ // chunks are word-aligned
		}
	}

	if format == nil {
		return nil, 0, &UnsupportedFormatError{Detail: "missing fmt chunk"}
	}
	if dataBytes == nil {
		return nil, 0, &NoAudioDataError{}
	}
	if format.audioFormat != 1 {
		return nil, 0, &UnsupportedFormatError{Detail: "only PCM is supported"}
	}

	switch format.bitsPerSample {
	case 16:
		samples = decodePCM16(dataBytes, int(format.numChannels))
	case 32:
		samples = decodePCM32(dataBytes, int(format.numChannels))
	default:
		return nil, 0, &UnsupportedFormatError{Detail: "only 16 or 32 bit PCM is supported"}
	}
	return samples, int(format.sampleRate), nil
}

func parseFmtChunk(b []byte) fmtChunk {
	var f fmtChunk
	if len(b) < 16 {
		return f
	}
	f.audioFormat = binary.LittleEndian.Uint16(b[0:2])
	f.numChannels = binary.LittleEndian.Uint16(b[2:4])
	f.sampleRate = binary.LittleEndian.Uint32(b[4:8])
	f.byteRate = binary.LittleEndian.Uint32(b[8:12])
	f.blockAlign = binary.LittleEndian.Uint16(b[12:14])
	f.bitsPerSample = binary.LittleEndian.Uint16(b[14:16])
	return f
}

func decodePCM16(data []byte, channels int) []float32 {
	if channels < 1 {
		channels = 1
	}
	frameBytes := 2 * channels
	n := len(data) / frameBytes
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(data[i*frameBytes : i*frameBytes+2]))
		out[i] = float32(v) / 32768
	}
	return out
}

func decodePCM32(data []byte, channels int) []float32 {
	if channels < 1 {
		channels = 1
	}
	frameBytes := 4 * channels
	n := len(data) / frameBytes
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int32(binary.LittleEndian.Uint32(data[i*frameBytes : i*frameBytes+4]))
		out[i] = float32(float64(v) / 2147483648)
	}
	return out
}

// WriteWAV emits a canonical mono PCM16 RIFF/WAVE file from samples.
func WriteWAV(samples []float32, sampleRate int) []byte {
	const bitsPerSample = 16
	const numChannels = 1
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := len(samples) * 2

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	writeU32(&buf, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	writeU32(&buf, 16)
	writeU16(&buf, 1) // PCM
	writeU16(&buf, numChannels)
	writeU32(&buf, uint32(sampleRate))
	writeU32(&buf, uint32(byteRate))
	writeU16(&buf, uint16(blockAlign))
	writeU16(&buf, bitsPerSample)

	buf.WriteString("data")
	writeU32(&buf, uint32(dataSize))
	for _, s := range samples {
		v := int16(math.Round(float64(s) * 32767))
		writeU16(&buf, uint16(v))
	}
	return buf.Bytes()
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}
