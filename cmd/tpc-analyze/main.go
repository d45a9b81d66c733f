// Command tpc-analyze runs the spectral analyzer over a WAV capture or a
// live recording and prints a JSON spectral report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"tpc/internal/audiohost"
	"tpc/internal/pcmio"
	"tpc/internal/probe"
	"tpc/internal/tpcconfig"
)

func main() {
	cfg := tpcconfig.Load()

	input := flag.String("input", "", "read capture from this WAV path")
	live := flag.Bool("live", false, "record live instead of reading a WAV file")
	duration := flag.Float64("duration", 3.0, "live recording duration, seconds")
	bandStart := flag.Float64("band-start", float64(cfg.UltrasonicStart), "signal band start, Hz")
	bandEnd := flag.Float64("band-end", float64(cfg.UltrasonicEnd), "signal band end, Hz")
	noiseStart := flag.Float64("noise-start", 100, "noise band start, Hz")
	noiseEnd := flag.Float64("noise-end", 15000, "noise band end, Hz")
	sampleRate := flag.Int("sample-rate", cfg.SampleRate, "sample rate, Hz (live mode only)")
	flag.Parse()

	var samples []float32
	sr := *sampleRate

	switch {
	case *live:
		host, err := audiohost.NewPortAudio()
		if err != nil {
			printJSON(failResult(fmt.Sprintf("open audio host: %v", err)))
			return
		}
		defer host.Terminate()
		samples, err = host.Record(context.Background(), *duration, sr)
		if err != nil {
			printJSON(failResult(fmt.Sprintf("record: %v", err)))
			return
		}
	case *input != "":
		data, err := os.ReadFile(*input)
		if err != nil {
			printJSON(failResult(fmt.Sprintf("read %s: %v", *input, err)))
			return
		}
		samples, sr, err = pcmio.ReadWAV(data)
		if err != nil {
			printJSON(failResult(fmt.Sprintf("parse WAV: %v", err)))
			return
		}
	default:
		printJSON(failResult("one of --input or --live is required"))
		return
	}

	result := probe.RunAnalyze(samples, sr, *bandStart, *bandEnd, *noiseStart, *noiseEnd)
	printJSON(result)
}

func failResult(msg string) probe.AnalyzeResult {
	return probe.AnalyzeResult{Base: probe.NewBase("analyze"), Error: msg}
}

func printJSON(result probe.AnalyzeResult) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		out, _ = json.Marshal(failResult(fmt.Sprintf("marshal report: %v", err)))
	}
	fmt.Println(string(out))
}
