// Command tpc-decide either runs the full auto-probe pipeline or applies
// the decision ladder directly to caller-supplied SNR/PER values (or to
// previously saved sweep/recv reports).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"tpc/internal/audiohost"
	"tpc/internal/decision"
	"tpc/internal/probe"
	"tpc/internal/tpcconfig"
)

func main() {
	cfg := tpcconfig.Load()

	auto := flag.Bool("auto", false, "run the full device-check/sweep/send/recv/decide pipeline")
	snr := flag.Float64("snr", 0, "measured SNR in dB (with --per, decide directly)")
	per := flag.Float64("per", 1.0, "measured packet error rate in [0,1]")
	sweepResult := flag.String("sweep-result", "", "path to a saved sweep JSON report")
	recvResult := flag.String("recv-result", "", "path to a saved recv JSON report")
	sampleRate := flag.Int("sample-rate", cfg.SampleRate, "sample rate, Hz (--auto only)")
	flag.Parse()

	switch {
	case *auto:
		host, err := audiohost.NewPortAudio()
		if err != nil {
			printJSON(failResult(fmt.Sprintf("open audio host: %v", err)))
			return
		}
		defer host.Terminate()
		result := probe.AutoProbe(context.Background(), host, *sampleRate)
		printJSON(result)

	case *sweepResult != "" || *recvResult != "":
		s, p, err := loadSNRAndPER(*sweepResult, *recvResult, *snr, *per)
		if err != nil {
			printJSON(failResult(err.Error()))
			return
		}
		printDirect(s, p)

	default:
		printDirect(*snr, *per)
	}
}

func loadSNRAndPER(sweepPath, recvPath string, defaultSNR, defaultPER float64) (snr, per float64, err error) {
	snr, per = defaultSNR, defaultPER
	if sweepPath != "" {
		var s probe.SweepResult
		if err := readJSONFile(sweepPath, &s); err != nil {
			return 0, 0, err
		}
		snr = s.SNRDB
	}
	if recvPath != "" {
		var r probe.RecvResult
		if err := readJSONFile(recvPath, &r); err != nil {
			return 0, 0, err
		}
		per = r.PER
	}
	return snr, per, nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func failResult(msg string) any {
	return struct {
		Probe     string `json:"probe"`
		Success   bool   `json:"success"`
		Error     string `json:"error"`
		Timestamp int64  `json:"timestamp"`
		Decision  decDTO `json:"decision"`
	}{
		Probe:     "decide",
		Success:   false,
		Error:     msg,
		Timestamp: time.Now().Unix(),
		Decision:  decDTO{Mode: string(decision.ModeFile)},
	}
}

func printDirect(snr, per float64) {
	profile := decision.Decide(snr, per)
	result := struct {
		Probe     string  `json:"probe"`
		Success   bool    `json:"success"`
		Timestamp int64   `json:"timestamp"`
		Decision  decDTO  `json:"decision"`
		SNRDB     float64 `json:"snr_db"`
		PER       float64 `json:"per"`
	}{
		Probe:     "decide",
		Success:   true,
		Timestamp: time.Now().Unix(),
		Decision:  toDTO(profile),
		SNRDB:     snr,
		PER:       per,
	}
	printJSON(result)
}

type decDTO struct {
	Mode       string   `json:"mode"`
	Freq0Hz    *float64 `json:"freq0_hz,omitempty"`
	Freq1Hz    *float64 `json:"freq1_hz,omitempty"`
	BaudRate   *int     `json:"baud_rate,omitempty"`
	Reason     string   `json:"reason"`
	Confidence float64  `json:"confidence"`
}

func toDTO(p decision.Profile) decDTO {
	dto := decDTO{Mode: string(p.Mode), Reason: p.Reason, Confidence: p.Confidence}
	if p.Mode != decision.ModeFile {
		f0, f1, baud := p.Freq0Hz, p.Freq1Hz, p.BaudRate
		dto.Freq0Hz = &f0
		dto.Freq1Hz = &f1
		dto.BaudRate = &baud
	}
	return dto
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data, _ = json.Marshal(failResult(fmt.Sprintf("marshal report: %v", err)))
	}
	fmt.Println(string(data))
}
