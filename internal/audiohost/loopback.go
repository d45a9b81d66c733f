package audiohost

import "context"

// Loopback is an in-memory Host double used by the probe package's tests to
// exercise the orchestrator without real hardware. With no primed recording
// it behaves as a perfect, noiseless channel: whatever was last played (or
// handed to PlayAndRecord) comes back unchanged. SetRecording overrides that
// with a fixed buffer instead, for tests that need a specific capture (a
// dropped prefix, an empty buffer) independent of what was played.
type Loopback struct {
	Devices Devices

	recording []float32
	primed    bool

	lastPlayed []float32
}

// NewLoopback returns a Loopback reporting the given device capability.
func NewLoopback(sampleRate int) *Loopback {
	dev := DeviceInfo{SampleRate: sampleRate, Channels: 1, Name: "loopback"}
	return &Loopback{Devices: Devices{Input: dev, Output: dev}}
}

// SetRecording primes the buffer that Record/PlayAndRecord will return,
// overriding the default echo-back behavior.
func (l *Loopback) SetRecording(buf []float32) {
	l.recording = buf
	l.primed = true
}

func (l *Loopback) Play(ctx context.Context, buf []float32, sampleRate int) error {
	l.lastPlayed = buf
	return nil
}

func (l *Loopback) Record(ctx context.Context, seconds float64, sampleRate int) ([]float32, error) {
	n := int(seconds * float64(sampleRate))
	if l.primed {
		return fitTo(l.recording, n), nil
	}
	return fitTo(l.lastPlayed, n), nil
}

func (l *Loopback) PlayAndRecord(ctx context.Context, buf []float32, sampleRate int) ([]float32, error) {
	l.lastPlayed = buf
	if l.primed {
		return fitTo(l.recording, len(buf)), nil
	}
	return buf, nil
}

func (l *Loopback) QueryDevices() (Devices, error) {
	return l.Devices, nil
}

func fitTo(buf []float32, n int) []float32 {
	out := make([]float32, n)
	copy(out, buf)
	return out
}
