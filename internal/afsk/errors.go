package afsk

import "fmt"

// NyquistViolationError is returned by Modulate when the sample rate cannot
// represent the requested carriers.
type NyquistViolationError struct {
	SampleRate int
	MaxCarrier float64
}

func (e *NyquistViolationError) Error() string {
	return fmt.Sprintf("afsk: sample rate %d below Nyquist for carrier %.1f Hz", e.SampleRate, e.MaxCarrier)
}
