// Command tpc-recv records (or reads a WAV capture of) a calibration batch
// and extracts the recovered frames into a JSON report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"tpc/internal/audiohost"
	"tpc/internal/decision"
	"tpc/internal/pcmio"
	"tpc/internal/probe"
	"tpc/internal/tpcconfig"
)

func main() {
	cfg := tpcconfig.Load()

	freq0 := flag.Float64("freq0", decision.UltrasonicFreq0, "mark frequency, Hz")
	freq1 := flag.Float64("freq1", decision.UltrasonicFreq1, "space frequency, Hz")
	baud := flag.Int("baud", decision.UltrasonicBaud, "baud rate")
	sampleRate := flag.Int("sample-rate", cfg.SampleRate, "sample rate, Hz")
	duration := flag.Float64("duration", 3.0, "recording duration, seconds")
	expected := flag.Int("expected", 10, "expected number of calibration frames")
	input := flag.String("input", "", "read capture from this WAV path instead of recording")
	flag.Parse()

	recvCfg := probe.RecvConfig{
		Freq0Hz: *freq0, Freq1Hz: *freq1, BaudRate: *baud,
		SampleRate: *sampleRate, DurationS: *duration, Expected: *expected,
	}

	result := probe.RecvResult{Base: probe.NewBase("recv")}

	if *input != "" {
		data, err := os.ReadFile(*input)
		if err != nil {
			result.Error = fmt.Sprintf("read %s: %v", *input, err)
		} else {
			samples, sr, err := pcmio.ReadWAV(data)
			if err != nil {
				result.Error = err.Error()
			} else {
				recvCfg.SampleRate = sr
				result = probe.RunRecv(context.Background(), nil, recvCfg, samples)
			}
		}
	} else {
		host, err := audiohost.NewPortAudio()
		if err != nil {
			result.Error = err.Error()
		} else {
			defer host.Terminate()
			result = probe.RunRecv(context.Background(), host, recvCfg, nil)
		}
	}

	printJSON(result)
}

func printJSON(result probe.RecvResult) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		result = probe.RecvResult{Base: probe.NewBase("recv"), Error: fmt.Sprintf("marshal report: %v", err)}
		out, _ = json.Marshal(result)
	}
	fmt.Println(string(out))
}
