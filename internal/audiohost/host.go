// Package audiohost defines the narrow audio device interface the probe
// orchestrator consumes, plus a PortAudio-backed implementation and an
// in-memory loopback double used by its tests.
package audiohost

import "context"

// DeviceInfo describes one side of the audio host's capability.
type DeviceInfo struct {
	SampleRate int
	Channels   int
	Name       string
}

// Devices is the result of QueryDevices: the input and output device
// capabilities currently in effect.
type Devices struct {
	Input  DeviceInfo
	Output DeviceInfo
}

// Host is the external audio device interface consumed by the probe
// orchestrator. Every method blocks until its operation completes or ctx is
// canceled. Defining it as a narrow interface (rather than exposing the
// PortAudio stream types directly) lets the orchestrator be tested against
// Loopback without any real hardware.
type Host interface {
	// Play blocks until buf has been played at sampleRate.
	Play(ctx context.Context, buf []float32, sampleRate int) error
	// Record blocks for seconds and returns the captured PCM.
	Record(ctx context.Context, seconds float64, sampleRate int) ([]float32, error)
	// PlayAndRecord plays buf while recording a buffer of the same length.
	PlayAndRecord(ctx context.Context, buf []float32, sampleRate int) ([]float32, error)
	// QueryDevices reports the current input/output device capability.
	QueryDevices() (Devices, error)
}
