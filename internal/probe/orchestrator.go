package probe

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"tpc/internal/afsk"
	"tpc/internal/audiohost"
	"tpc/internal/calframe"
	"tpc/internal/decision"
	"tpc/internal/packetscan"
	"tpc/internal/spectral"
)

// StageTimeout is the wall-clock budget applied to every blocking
// sub-probe. A stage that exceeds it is marked unsuccessful; the
// orchestrator falls back rather than retrying or waiting longer.
const StageTimeout = 60 * time.Second

// SweepConfig parameterizes a chirp sweep probe.
type SweepConfig struct {
	StartHz    float64
	EndHz      float64
	DurationS  float64
	SampleRate int
}

// RunSweep plays a linear chirp across [StartHz, EndHz], records the
// loopback, and runs the shortcut spectral analyzer over the capture.
func RunSweep(ctx context.Context, host audiohost.Host, cfg SweepConfig) SweepResult {
	res := SweepResult{Base: NewBase("sweep"), StartHz: cfg.StartHz, EndHz: cfg.EndHz, DurationS: cfg.DurationS}

	var captured []float32
	err := withStageTimeout(ctx, func(ctx context.Context) error {
		chirp := spectral.Chirp(cfg.StartHz, cfg.EndHz, cfg.DurationS, cfg.SampleRate)
		rec, err := host.PlayAndRecord(ctx, chirp, cfg.SampleRate)
		if err != nil {
			return err
		}
		captured = rec
		return nil
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}

	report := spectral.AnalyzeSweep(captured, cfg.SampleRate, cfg.StartHz, cfg.EndHz)
	res.SNRDB = report.SNRDB
	res.PeakFreq = report.PeakFreqHz
	res.Success = true
	return res
}

// SendConfig parameterizes a calibration transmission.
type SendConfig struct {
	Freq0Hz    float64
	Freq1Hz    float64
	BaudRate   int
	Packets    int
	GapMs      float64
	SampleRate int
}

// buildCalibrationBatch constructs Packets calibration frames with
// sequence numbers 0..Packets-1.
func buildCalibrationBatch(n int) [][]byte {
	frames := make([][]byte, n)
	for i := 0; i < n; i++ {
		frames[i] = calframe.Encode(uint16(i))
	}
	return frames
}

// RunSend modulates a calibration batch and plays it through host. It
// returns the modulated PCM alongside the JSON report so callers (the
// orchestrator's round-trip step, or the send CLI writing a WAV file) can
// reuse the same buffer. The third return value is the raw, %w-wrapped
// error (nil on success) so a caller can errors.As it to a specific kind —
// AutoProbe uses this to detect a *afsk.NyquistViolationError and
// short-circuit straight to the file-mode decision instead of feeding a
// doomed send into the round-trip.
func RunSend(ctx context.Context, host audiohost.Host, cfg SendConfig) (SendResult, []float32, error) {
	res := SendResult{
		Base:     NewBase("send"),
		Freq0Hz:  cfg.Freq0Hz,
		Freq1Hz:  cfg.Freq1Hz,
		BaudRate: cfg.BaudRate,
	}

	pcm, err := afsk.Modulate(buildCalibrationBatch(cfg.Packets), cfg.Freq0Hz, cfg.Freq1Hz, cfg.SampleRate, cfg.BaudRate, cfg.GapMs)
	if err != nil {
		wrapped := fmt.Errorf("afsk modulate: %w", err)
		res.Error = wrapped.Error()
		return res, nil, wrapped
	}

	if host != nil {
		err = withStageTimeout(ctx, func(ctx context.Context) error {
			return host.Play(ctx, pcm, cfg.SampleRate)
		})
		if err != nil {
			wrapped := fmt.Errorf("audio host play: %w", err)
			res.Error = wrapped.Error()
			return res, pcm, wrapped
		}
	}

	res.PacketsSent = cfg.Packets
	res.Success = true
	return res, pcm, nil
}

// RecvConfig parameterizes a capture-and-extract pass.
type RecvConfig struct {
	Freq0Hz    float64
	Freq1Hz    float64
	BaudRate   int
	SampleRate int
	DurationS  float64
	Expected   int
}

// RunRecv records (or, when captured is non-nil, reuses) a buffer,
// demodulates it, and extracts calibration frames.
func RunRecv(ctx context.Context, host audiohost.Host, cfg RecvConfig, captured []float32) RecvResult {
	res := RecvResult{Base: NewBase("recv"), Expected: cfg.Expected}

	if captured == nil {
		err := withStageTimeout(ctx, func(ctx context.Context) error {
			rec, err := host.Record(ctx, cfg.DurationS, cfg.SampleRate)
			if err != nil {
				return err
			}
			captured = rec
			return nil
		})
		if err != nil {
			res.Error = err.Error()
			return res
		}
	}

	bytes := afsk.Demodulate(captured, cfg.Freq0Hz, cfg.Freq1Hz, cfg.SampleRate, cfg.BaudRate)
	report := packetscan.Scan(bytes, cfg.Expected)

	res.Found = report.Found
	res.Intact = report.Intact
	res.Corrupted = report.Corrupted
	res.Lost = report.Lost
	res.PER = report.PER
	res.Quality = report.Quality
	res.Success = true
	return res
}

// RunAnalyze runs the full spectral analyzer over an already-captured
// buffer (the standalone `analyze` CLI's code path).
func RunAnalyze(samples []float32, sampleRate int, bandStart, bandEnd, noiseStart, noiseEnd float64) AnalyzeResult {
	res := AnalyzeResult{Base: NewBase("analyze")}
	report := spectral.Analyze(samples, sampleRate, bandStart, bandEnd, noiseStart, noiseEnd)

	res.SNRDB = report.SNRDB
	res.SignalPower = report.SignalPower
	res.NoisePower = report.NoisePower
	res.PeakFreqHz = report.PeakFreqHz
	res.PeakPower = report.PeakPower
	res.RMS = report.RMS
	res.PeakAmplitude = report.PeakAmplitude
	res.CrestFactorDB = report.CrestFactorDB
	res.UsableBandwidth = report.UsableBandwidth
	for _, p := range report.FreqResponse {
		res.FreqResponse = append(res.FreqResponse, FreqPointDTO{FreqHz: p.FreqHz, Power: p.Power, PowerDB: p.PowerDB})
	}
	res.Success = true
	return res
}

// AutoProbe runs the full sequential pipeline: device check, sweep,
// calibration round-trip, decide. It never returns an error — every
// failure degrades the inputs handed to the decision engine, and the
// engine always produces a profile.
func AutoProbe(ctx context.Context, host audiohost.Host, sampleRate int) DecideResult {
	result := DecideResult{Base: NewBase("decide"), RunID: uuid.New().String()}

	maxCarrier := decision.UltrasonicFreq1

	devices, err := host.QueryDevices()
	if err != nil || float64(devices.Output.SampleRate) < 2*maxCarrier {
		log.Printf("[probe] device check failed or insufficient sample rate: %v", err)
		profile := decision.Decide(0, 1.0)
		result.Decision = toDecisionDTO(profile)
		result.Success = true
		return result
	}

	sweep := RunSweep(ctx, host, SweepConfig{StartHz: 17000, EndHz: 22000, DurationS: 2.0, SampleRate: sampleRate})
	result.Steps = append(result.Steps, StepEntry{Step: "sweep", Result: sweep})
	if !sweep.Success {
		log.Printf("[probe] sweep failed: %s", sweep.Error)
		profile := decision.Decide(0, 1.0)
		result.Decision = toDecisionDTO(profile)
		result.Success = true
		return result
	}

	sendCfg := SendConfig{
		Freq0Hz: decision.UltrasonicFreq0, Freq1Hz: decision.UltrasonicFreq1,
		BaudRate: decision.UltrasonicBaud, Packets: 10, GapMs: 20, SampleRate: sampleRate,
	}
	// Modulate only here (host=nil): the calibration round-trip is a
	// single duplex play-and-record call below, not a separate play then a
	// separate record.
	send, pcm, sendErr := RunSend(ctx, nil, sendCfg)
	result.Steps = append(result.Steps, StepEntry{Step: "send", Result: send})

	var nyquist *afsk.NyquistViolationError
	if sendErr != nil && errors.As(sendErr, &nyquist) {
		log.Printf("[probe] nyquist violation at %d Hz sample rate: %v", sampleRate, nyquist)
		profile := decision.Decide(0, 1.0)
		result.Decision = toDecisionDTO(profile)
		result.Success = true
		return result
	}

	snrDB := sweep.SNRDB
	per := 1.0
	if send.Success {
		var captured []float32
		err := withStageTimeout(ctx, func(ctx context.Context) error {
			rec, err := host.PlayAndRecord(ctx, pcm, sampleRate)
			if err != nil {
				return err
			}
			captured = rec
			return nil
		})
		if err != nil {
			log.Printf("[probe] calibration round-trip failed: %v", err)
		} else {
			recv := RunRecv(ctx, nil, RecvConfig{
				Freq0Hz: sendCfg.Freq0Hz, Freq1Hz: sendCfg.Freq1Hz, BaudRate: sendCfg.BaudRate,
				SampleRate: sampleRate, Expected: sendCfg.Packets,
			}, captured)
			result.Steps = append(result.Steps, StepEntry{Step: "recv", Result: recv})
			if recv.Success {
				per = recv.PER
			}
		}
	} else {
		log.Printf("[probe] send failed: %s", send.Error)
	}

	profile := decision.Decide(snrDB, per)
	result.Decision = toDecisionDTO(profile)
	result.Success = true
	return result
}

func toDecisionDTO(p decision.Profile) DecisionDTO {
	dto := DecisionDTO{Mode: string(p.Mode), Reason: p.Reason, Confidence: p.Confidence}
	if p.Mode != decision.ModeFile {
		f0, f1, baud := p.Freq0Hz, p.Freq1Hz, p.BaudRate
		dto.Freq0Hz = &f0
		dto.Freq1Hz = &f1
		dto.BaudRate = &baud
	}
	return dto
}

// withStageTimeout runs fn in a goroutine under a StageTimeout deadline.
// On timeout or parent cancellation it returns ctx.Err() and abandons fn's
// result; fn must not be relied on to stop promptly, matching the "no
// partial results from a timed-out stage" rule.
func withStageTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	stageCtx, cancel := context.WithTimeout(ctx, StageTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(stageCtx) }()

	select {
	case <-stageCtx.Done():
		return stageCtx.Err()
	case err := <-done:
		return err
	}
}
