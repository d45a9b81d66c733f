// Command tpc-sweep plays a linear chirp sweep, records the loopback, and
// prints a JSON sweep report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"tpc/internal/audiohost"
	"tpc/internal/probe"
	"tpc/internal/spectral"
	"tpc/internal/tpcconfig"
)

// deviceCheckResult is the JSON shape of the --check-only report: a sweep
// report that carries device capability instead of a spectral measurement.
// The --record=false report is a plain SweepResult without SNR fields.
type deviceCheckResult struct {
	probe.Base
	Input  audiohost.DeviceInfo `json:"input"`
	Output audiohost.DeviceInfo `json:"output"`
}

func main() {
	cfg := tpcconfig.Load()

	start := flag.Float64("start", float64(cfg.UltrasonicStart), "sweep start frequency, Hz")
	end := flag.Float64("end", float64(cfg.UltrasonicEnd), "sweep end frequency, Hz")
	duration := flag.Float64("duration", 2.0, "sweep duration, seconds")
	sampleRate := flag.Int("sample-rate", cfg.SampleRate, "sample rate, Hz")
	checkOnly := flag.Bool("check-only", false, "only query device capability, do not sweep")
	record := flag.Bool("record", true, "capture the loopback and analyze it; with --record=false, only play the chirp")
	flag.Parse()

	host, err := audiohost.NewPortAudio()
	if err != nil {
		printJSON(probe.SweepResult{Base: probe.NewBase("sweep"), Error: err.Error()})
		return
	}
	defer host.Terminate()

	if *checkOnly {
		devices, err := host.QueryDevices()
		base := probe.NewBase("sweep")
		if err != nil {
			base.Error = err.Error()
			printJSON(deviceCheckResult{Base: base})
			return
		}
		base.Success = true
		printJSON(deviceCheckResult{Base: base, Input: devices.Input, Output: devices.Output})
		return
	}

	if !*record {
		chirp := spectral.Chirp(*start, *end, *duration, *sampleRate)
		if err := host.Play(context.Background(), chirp, *sampleRate); err != nil {
			printJSON(probe.SweepResult{Base: probe.NewBase("sweep"), Error: err.Error()})
			return
		}
		base := probe.NewBase("sweep")
		base.Success = true
		printJSON(probe.SweepResult{Base: base, StartHz: *start, EndHz: *end, DurationS: *duration})
		return
	}

	result := probe.RunSweep(context.Background(), host, probe.SweepConfig{
		StartHz: *start, EndHz: *end, DurationS: *duration, SampleRate: *sampleRate,
	})
	printJSON(result)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data, _ = json.Marshal(probe.SweepResult{Base: probe.NewBase("sweep"), Error: fmt.Sprintf("marshal report: %v", err)})
	}
	fmt.Println(string(data))
}
