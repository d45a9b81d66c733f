package audiohost

import (
	"context"

	"github.com/gordonklaus/portaudio"
)

// PortAudio is a Host backed by github.com/gordonklaus/portaudio. Unlike a
// continuous-streaming voice engine, each call here opens a stream, drives
// it to completion, and closes it — there is no background capture loop,
// matching the core's single-shot, non-concurrent pipeline model.
type PortAudio struct{}

// NewPortAudio initializes the PortAudio runtime. Callers must call
// Terminate when done with the returned host.
func NewPortAudio() (*PortAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &Error{Detail: "initialize", Err: err}
	}
	return &PortAudio{}, nil
}

// Terminate releases the PortAudio runtime.
func (p *PortAudio) Terminate() error {
	return portaudio.Terminate()
}

// QueryDevices reports the default input/output device capability.
func (p *PortAudio) QueryDevices() (Devices, error) {
	in, err := portaudio.DefaultInputDevice()
	if err != nil {
		return Devices{}, &Error{Detail: "default input device", Err: err}
	}
	out, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return Devices{}, &Error{Detail: "default output device", Err: err}
	}
	return Devices{
		Input: DeviceInfo{
			SampleRate: int(in.DefaultSampleRate),
			Channels:   in.MaxInputChannels,
			Name:       in.Name,
		},
		Output: DeviceInfo{
			SampleRate: int(out.DefaultSampleRate),
			Channels:   out.MaxOutputChannels,
			Name:       out.Name,
		},
	}, nil
}

// Play blocks until buf has been played at sampleRate.
func (p *PortAudio) Play(ctx context.Context, buf []float32, sampleRate int) error {
	_, err := p.run(ctx, buf, sampleRate, false)
	return err
}

// Record blocks for seconds and returns the captured PCM.
func (p *PortAudio) Record(ctx context.Context, seconds float64, sampleRate int) ([]float32, error) {
	n := int(seconds * float64(sampleRate))
	return p.run(ctx, make([]float32, n), sampleRate, true)
}

// PlayAndRecord plays buf while recording a buffer of the same length.
func (p *PortAudio) PlayAndRecord(ctx context.Context, buf []float32, sampleRate int) ([]float32, error) {
	return p.run(ctx, buf, sampleRate, true)
}

// run drives one blocking duplex (or output-only) stream to completion in a
// helper goroutine, so ctx cancellation (the orchestrator's per-stage
// timeout) can abandon a hung device call without blocking the caller
// forever. Sequence matters here, the same way it does for a continuous
// capture engine: open, start, drive to completion, stop, close — in that
// order, every time.
func (p *PortAudio) run(ctx context.Context, playback []float32, sampleRate int, capture bool) ([]float32, error) {
	type result struct {
		recorded []float32
		err      error
	}
	done := make(chan result, 1)

	go func() {
		recorded := make([]float32, len(playback))
		var stream *portaudio.Stream
		var err error
		if capture {
			stream, err = portaudio.OpenDefaultStream(1, 1, float64(sampleRate), len(playback), recorded, playback)
		} else {
			stream, err = portaudio.OpenDefaultStream(0, 1, float64(sampleRate), len(playback), playback)
		}
		if err != nil {
			done <- result{err: &Error{Detail: "open stream", Err: err}}
			return
		}
		defer stream.Close()

		if err := stream.Start(); err != nil {
			done <- result{err: &Error{Detail: "start stream", Err: err}}
			return
		}
		if err := stream.Write(); err != nil {
			done <- result{err: &Error{Detail: "write stream", Err: err}}
			return
		}
		if err := stream.Stop(); err != nil {
			done <- result{err: &Error{Detail: "stop stream", Err: err}}
			return
		}
		if capture {
			done <- result{recorded: recorded}
		} else {
			done <- result{recorded: playback}
		}
	}()

	select {
	case <-ctx.Done():
		return nil, &Error{Detail: "audio host call", Err: ctx.Err()}
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return r.recorded, nil
	}
}
