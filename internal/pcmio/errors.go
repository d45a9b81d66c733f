package pcmio

import "fmt"

// UnsupportedFormatError is returned when a WAV container or bit depth is
// not one this bridge understands.
type UnsupportedFormatError struct {
	Detail string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("pcmio: unsupported format: %s", e.Detail)
}

// NoAudioDataError is returned when a WAV file has no data chunk.
type NoAudioDataError struct{}

func (e *NoAudioDataError) Error() string {
	return "pcmio: no audio data chunk"
}
