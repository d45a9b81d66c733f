package afsk

import "math"

// Amplitude is the fixed modulation amplitude used for every transmitted
// symbol.
const Amplitude = 0.6

// preambleBits is the 32-bit mark/space alternation that precedes a batch.
func preambleBits() []int {
	bits := make([]int, 32)
	for i := range bits {
		bits[i] = i % 2
	}
	return bits
}

// postambleBits is the 16-bit idle run that follows a batch.
func postambleBits() []int {
	bits := make([]int, 16)
	for i := range bits {
		bits[i] = 1
	}
	return bits
}

// frameBits returns the UART-framed bit sequence for one byte: start bit
// (0), eight data bits MSB-first, stop bit (1).
func frameBits(b byte) []int {
	bits := make([]int, 10)
	bits[0] = 0
	for i := 0; i < 8; i++ {
		bits[1+i] = int((b >> (7 - i)) & 1)
	}
	bits[9] = 1
	return bits
}

// packetBits assembles the full bit stream for one packet's worth of data
// bytes, without preamble/postamble (Modulate adds those around each
// packet's burst).
func packetBits(data []byte) []int {
	bits := make([]int, 0, len(data)*10)
	for _, b := range data {
		bits = append(bits, frameBits(b)...)
	}
	return bits
}

// Modulate synthesizes a single continuous-phase AFSK PCM buffer carrying
// every packet in packets, each one UART-framed and wrapped in its own
// preamble/postamble, separated by gapMs of silence. Phase accumulates
// continuously across bit boundaries within a packet's tone burst; it does
// not carry across the silent gap (there is nothing to carry: amplitude is
// zero there).
func Modulate(packets [][]byte, freq0, freq1 float64, sampleRate, baudRate int, gapMs float64) ([]float32, error) {
	maxCarrier := math.Max(freq0, freq1)
	if float64(sampleRate) < 2*maxCarrier {
		return nil, &NyquistViolationError{SampleRate: sampleRate, MaxCarrier: maxCarrier}
	}

	samplesPerBit := sampleRate / baudRate
	gapSamples := int(math.Round(float64(sampleRate) * gapMs / 1000))

	out := make([]float32, 0)
	for _, pkt := range packets {
		bits := append(append(preambleBits(), packetBits(pkt)...), postambleBits()...)
		out = append(out, synthesize(bits, freq0, freq1, sampleRate, samplesPerBit)...)
		out = append(out, make([]float32, gapSamples)...)
	}
	return out, nil
}

// synthesize renders bits as a continuous-phase FSK tone burst. The running
// phase is never reset between bits; resetting it per bit is the single
// most common regression in a from-scratch re-implementation.
func synthesize(bits []int, freq0, freq1 float64, sampleRate, samplesPerBit int) []float32 {
	out := make([]float32, 0, len(bits)*samplesPerBit)
	phase := 0.0
	for _, bit := range bits {
		freq := freq0
		if bit == 1 {
			freq = freq1
		}
		step := 2 * math.Pi * freq / float64(sampleRate)
		for i := 0; i < samplesPerBit; i++ {
			out = append(out, float32(Amplitude*math.Sin(phase)))
			phase += step
		}
	}
	return out
}
