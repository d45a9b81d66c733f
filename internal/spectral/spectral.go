// Package spectral computes FFT-based signal quality metrics (SNR, peak
// frequency, frequency response, crest factor) over a PCM buffer, and
// generates the linear chirp used to sweep a channel.
package spectral

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Report is the spectral analysis result for one PCM buffer.
type Report struct {
	SNRDB           float64
	SignalPower     float64
	NoisePower      float64
	PeakFreqHz      float64
	PeakPower       float64 // diagnostic only; unnormalized, treat SNRDB as authoritative
	RMS             float64
	PeakAmplitude   float64
	CrestFactorDB   float64
	FreqResponse    []FreqPoint
	UsableBandwidth float64
}

// FreqPoint is one sample of the frequency-response curve.
type FreqPoint struct {
	FreqHz  float64
	Power   float64
	PowerDB float64
}

const noiseFloor = 1e-10

// Analyze runs the full spectral analysis described for the analyzer stage:
// band power, SNR, peak frequency, a 1 kHz-stepped frequency response, and
// time-domain RMS/crest factor.
func Analyze(samples []float32, sampleRate int, bandStart, bandEnd, noiseStart, noiseEnd float64) Report {
	power, freqs := powerSpectrum(samples, sampleRate)

	signalPower := bandMean(power, freqs, bandStart, bandEnd)
	noisePower := math.Max(bandMean(power, freqs, noiseStart, noiseEnd), noiseFloor)
	snrDB := 10 * math.Log10(signalPower/noisePower)

	peakFreq, peakPower := peakInBand(power, freqs, bandStart, bandEnd)

	freqResp := make([]FreqPoint, 0)
	for f := math.Ceil(bandStart/1000) * 1000; f <= bandEnd; f += 1000 {
		p := bandMean(power, freqs, f-500, f+500)
		freqResp = append(freqResp, FreqPoint{FreqHz: f, Power: p, PowerDB: toDB(p)})
	}

	rms := rmsOf(samples)
	peakAmp := peakAmplitude(samples)
	crest := 20 * math.Log10(math.Max(float64(peakAmp)/math.Max(float64(rms), noiseFloor), noiseFloor))

	return Report{
		SNRDB:           snrDB,
		SignalPower:     signalPower,
		NoisePower:      noisePower,
		PeakFreqHz:      peakFreq,
		PeakPower:       peakPower,
		RMS:             float64(rms),
		PeakAmplitude:   float64(peakAmp),
		CrestFactorDB:   crest,
		FreqResponse:    freqResp,
		UsableBandwidth: bandEnd - bandStart,
	}
}

// AnalyzeSweep is the shortcut analyzer used by the chirp pre-step: same
// formulas as Analyze, but the noise band is pinned to (100 Hz, 0.8*bandStart)
// instead of being caller-supplied.
func AnalyzeSweep(samples []float32, sampleRate int, bandStart, bandEnd float64) Report {
	return Analyze(samples, sampleRate, bandStart, bandEnd, 100, 0.8*bandStart)
}

// powerSpectrum computes the one-sided power spectrum of samples via a real
// FFT, returning power[k] and the frequency (Hz) of bin k.
func powerSpectrum(samples []float32, sampleRate int) (power, freqs []float64) {
	n := len(samples)
	if n == 0 {
		return nil, nil
	}
	in := make([]float64, n)
	for i, s := range samples {
		in[i] = float64(s)
	}
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, in)

	power = make([]float64, len(coeffs))
	freqs = make([]float64, len(coeffs))
	for k, c := range coeffs {
		mag := math.Hypot(real(c), imag(c)) / float64(n)
		power[k] = mag * mag
		freqs[k] = float64(k) * float64(sampleRate) / float64(n)
	}
	return power, freqs
}

func bandMean(power, freqs []float64, lo, hi float64) float64 {
	sum, count := 0.0, 0
	for k, f := range freqs {
		if f >= lo && f <= hi {
			sum += power[k]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func peakInBand(power, freqs []float64, lo, hi float64) (freq, pow float64) {
	best := -1.0
	for k, f := range freqs {
		if f >= lo && f <= hi && power[k] > best {
			best = power[k]
			freq = f
		}
	}
	if best < 0 {
		return 0, 0
	}
	return freq, best
}

func toDB(power float64) float64 {
	return 10 * math.Log10(math.Max(power, noiseFloor))
}

func rmsOf(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return float32(math.Sqrt(sum / float64(len(samples))))
}

func peakAmplitude(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		a := s
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	return peak
}

// Chirp generates a linear frequency sweep from fStart to fEnd over
// duration seconds at the given sample rate.
func Chirp(fStart, fEnd, duration float64, sampleRate int) []float32 {
	n := int(duration * float64(sampleRate))
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		phase := 2 * math.Pi * (fStart*t + (fEnd-fStart)/(2*duration)*t*t)
		out[i] = float32(0.7 * math.Sin(phase))
	}
	return out
}
