// Package decision implements the fixed threshold ladder that turns a
// channel's measured SNR and PER into a transport profile selection.
package decision

import (
	"fmt"
	"math"
)

// Mode names the three transport profiles a probe run can select.
type Mode string

const (
	ModeUltrasonic Mode = "ultrasonic"
	ModeAudible    Mode = "audible"
	ModeFile       Mode = "file"
)

// Threshold constants, exposed but not configurable in v1 (§6).
const (
	UltrasonicSNRThreshold = 20.0
	UltrasonicPERThreshold = 0.05
	AudibleSNRThreshold    = 10.0
	AudiblePERThreshold    = 0.20
)

// Carrier constants for the two tone-based profiles.
const (
	UltrasonicFreq0 = 18000.0
	UltrasonicFreq1 = 20000.0
	UltrasonicBaud  = 150

	AudibleFreq0 = 1200.0
	AudibleFreq1 = 2400.0
	AudibleBaud  = 300
)

// Profile is the immutable result of a decision: a tagged variant over the
// three modes, plus a human-readable reason and a confidence in [0,1].
type Profile struct {
	Mode       Mode
	Freq0Hz    float64
	Freq1Hz    float64
	BaudRate   int
	Reason     string
	Confidence float64
}

// Decide applies the fixed threshold ladder to a measured SNR (dB) and PER
// (fraction in [0,1]). Evaluation order is fixed: Ultrasonic, then Audible,
// then File. The ladder is monotone — improving either input never
// downgrades the chosen mode.
func Decide(snrDB, per float64) Profile {
	switch {
	case snrDB >= UltrasonicSNRThreshold && per <= UltrasonicPERThreshold:
		return Profile{
			Mode:     ModeUltrasonic,
			Freq0Hz:  UltrasonicFreq0,
			Freq1Hz:  UltrasonicFreq1,
			BaudRate: UltrasonicBaud,
			Reason: fmt.Sprintf(
				"SNR=%.1f dB (>= %.1f dB), PER=%.1f%% (<= %.0f%%)",
				snrDB, UltrasonicSNRThreshold, per*100, UltrasonicPERThreshold*100),
			Confidence: math.Min(1, snrDB/40),
		}
	case snrDB >= AudibleSNRThreshold && per <= AudiblePERThreshold:
		return Profile{
			Mode:     ModeAudible,
			Freq0Hz:  AudibleFreq0,
			Freq1Hz:  AudibleFreq1,
			BaudRate: AudibleBaud,
			Reason: fmt.Sprintf(
				"SNR=%.1f dB (>= %.1f dB), PER=%.1f%% (<= %.0f%%)",
				snrDB, AudibleSNRThreshold, per*100, AudiblePERThreshold*100),
			Confidence: math.Min(1, snrDB/30),
		}
	default:
		return Profile{
			Mode: ModeFile,
			Reason: fmt.Sprintf(
				"SNR=%.1f dB / PER=%.1f%% below audible threshold (%.1f dB / %.0f%%)",
				snrDB, per*100, AudibleSNRThreshold, AudiblePERThreshold*100),
			Confidence: 1.0,
		}
	}
}
