// Command tpc-send modulates a calibration batch and either plays it
// through the default audio device or writes it to a WAV file.
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
	packets := flag.Int("packets", 10, "number of calibration frames to send")
	gapMs := flag.Float64("gap-ms", 20, "silent gap between packets, ms")
	sampleRate := flag.Int("sample-rate", cfg.SampleRate, "sample rate, Hz")
	output := flag.String("output", "", "write WAV to this path instead of playing")
	flag.Parse()

	sendCfg := probe.SendConfig{
		Freq0Hz: *freq0, Freq1Hz: *freq1, BaudRate: *baud,
		Packets: *packets, GapMs: *gapMs, SampleRate: *sampleRate,
	}

	var result probe.SendResult
	var pcm []float32

	if *output != "" {
		result, pcm, _ = probe.RunSend(context.Background(), nil, sendCfg)
		if result.Success {
			if err := os.WriteFile(*output, pcmio.WriteWAV(pcm, *sampleRate), 0o644); err != nil {
				result.Success = false
				result.Error = err.Error()
			}
		}
	} else {
		host, err := audiohost.NewPortAudio()
		if err != nil {
			result = probe.SendResult{Base: probe.NewBase("send"), Error: err.Error()}
		} else {
			defer host.Terminate()
			result, _, _ = probe.RunSend(context.Background(), host, sendCfg)
		}
	}

	printJSON(result)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		result := probe.SendResult{Base: probe.NewBase("send"), Error: fmt.Sprintf("marshal report: %v", err)}
		data, _ = json.Marshal(result)
	}
	fmt.Println(string(data))
}
