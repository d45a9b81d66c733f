// Package probe implements the sequential probe orchestrator: device check,
// chirp sweep, calibration round-trip, and final mode decision. Every
// exported Run* function returns a JSON-ready report and never panics; a
// failed stage is carried as success=false in that report, so a CLI wrapper
// can always print one. RunSend additionally returns the wrapped error so a
// caller can inspect its kind.
package probe

import "time"

// Base is embedded in every report and carries the fields common to all
// probe kinds.
type Base struct {
	Probe     string `json:"probe"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewBase builds the common Base fields for a report named probe. It is
// exported so the cmd/tpc-* wrappers can build a complete failure report
// (right probe name, a timestamp, Success:false) for error paths that never
// reach an orchestrator Run* call, such as a flag-usage error or a failed
// device open.
func NewBase(probe string) Base {
	return Base{Probe: probe, Timestamp: time.Now().Unix()}
}

// SweepResult is the report of a chirp sweep probe.
type SweepResult struct {
	Base
	StartHz   float64 `json:"start_hz,omitempty"`
	EndHz     float64 `json:"end_hz,omitempty"`
	DurationS float64 `json:"duration_s,omitempty"`
	SNRDB     float64 `json:"snr_db,omitempty"`
	PeakFreq  float64 `json:"peak_freq_hz,omitempty"`
}

// SendResult is the report of a calibration transmission.
type SendResult struct {
	Base
	PacketsSent int     `json:"packets_sent,omitempty"`
	Freq0Hz     float64 `json:"freq0_hz,omitempty"`
	Freq1Hz     float64 `json:"freq1_hz,omitempty"`
	BaudRate    int     `json:"baud_rate,omitempty"`
}

// RecvResult is the report of a capture-and-extract pass.
type RecvResult struct {
	Base
	Expected  int     `json:"expected,omitempty"`
	Found     int     `json:"found,omitempty"`
	Intact    int     `json:"intact,omitempty"`
	Corrupted int     `json:"corrupted,omitempty"`
	Lost      int     `json:"lost,omitempty"`
	PER       float64 `json:"per,omitempty"`
	Quality   string  `json:"quality,omitempty"`
}

// AnalyzeResult is the report of a standalone spectral analysis.
type AnalyzeResult struct {
	Base
	SNRDB           float64        `json:"snr_db,omitempty"`
	SignalPower     float64        `json:"signal_power,omitempty"`
	NoisePower      float64        `json:"noise_power,omitempty"`
	PeakFreqHz      float64        `json:"peak_freq_hz,omitempty"`
	PeakPower       float64        `json:"peak_power,omitempty"`
	RMS             float64        `json:"rms,omitempty"`
	PeakAmplitude   float64        `json:"peak_amplitude,omitempty"`
	CrestFactorDB   float64        `json:"crest_factor_db,omitempty"`
	FreqResponse    []FreqPointDTO `json:"freq_response,omitempty"`
	UsableBandwidth float64        `json:"usable_bandwidth_hz,omitempty"`
}

// FreqPointDTO is one sample of a frequency-response curve in a JSON report.
type FreqPointDTO struct {
	FreqHz  float64 `json:"freq_hz"`
	Power   float64 `json:"power"`
	PowerDB float64 `json:"power_db"`
}

// StepEntry names one sub-step of the decide orchestration and embeds its
// own report.
type StepEntry struct {
	Step   string `json:"step"`
	Result any    `json:"result"`
}

// DecisionDTO is the JSON rendering of decision.Profile.
type DecisionDTO struct {
	Mode       string   `json:"mode"`
	Freq0Hz    *float64 `json:"freq0_hz,omitempty"`
	Freq1Hz    *float64 `json:"freq1_hz,omitempty"`
	BaudRate   *int     `json:"baud_rate,omitempty"`
	Reason     string   `json:"reason"`
	Confidence float64  `json:"confidence"`
}

// DecideResult is the final report of a full auto-probe run.
type DecideResult struct {
	Base
	RunID    string      `json:"run_id,omitempty"`
	Steps    []StepEntry `json:"steps,omitempty"`
	Decision DecisionDTO `json:"decision"`
}
