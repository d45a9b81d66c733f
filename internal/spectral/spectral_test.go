package spectral

import (
	"math"
	"testing"
)

func makeTone(freq float64, sampleRate, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = float32(math.Sin(2 * math.Pi * freq * t))
	}
	return out
}

func TestAnalyzerPureTone(t *testing.T) {
	const sr = 48000
	const n = 4096
	const freq = 18000.0
	samples := makeTone(freq, sr, n)

	report := Analyze(samples, sr, 17000, 22000, 100, 15000)

	binWidth := float64(sr) / float64(n)
	if math.Abs(report.PeakFreqHz-freq) > binWidth {
		t.Fatalf("peak_freq_hz=%.1f, want within %.1f of %.1f", report.PeakFreqHz, binWidth, freq)
	}
	if report.SNRDB <= 30 {
		t.Fatalf("snr_db=%.1f, want > 30", report.SNRDB)
	}
}

func TestChirpLength(t *testing.T) {
	const sr = 48000
	samples := Chirp(17000, 22000, 2.0, sr)
	want := int(2.0 * sr)
	if len(samples) != want {
		t.Fatalf("len=%d, want %d", len(samples), want)
	}
}

func TestChirpWithInterferingToneLowersSNR(t *testing.T) {
	const sr = 48000
	chirp := Chirp(17000, 22000, 0.5, sr)
	tone := makeTone(200, sr, len(chirp))

	clean := Analyze(chirp, sr, 17000, 22000, 100, 15000)

	mixed := make([]float32, len(chirp))
	for i := range mixed {
		mixed[i] = chirp[i] + tone[i]
	}
	withTone := Analyze(mixed, sr, 17000, 22000, 100, 15000)

	if withTone.SNRDB >= clean.SNRDB {
		t.Fatalf("snr_db with 200Hz interferer (%.2f) should be lower than clean (%.2f)", withTone.SNRDB, clean.SNRDB)
	}
}

func TestRMSAndCrestFactor(t *testing.T) {
	samples := makeTone(1000, 48000, 4800)
	report := Analyze(samples, 48000, 500, 2000, 100, 400)
	if report.RMS <= 0 {
		t.Fatalf("rms=%v, want > 0", report.RMS)
	}
	if report.PeakAmplitude < report.RMS {
		t.Fatalf("peak_amplitude=%v < rms=%v", report.PeakAmplitude, report.RMS)
	}
}
