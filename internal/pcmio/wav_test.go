package pcmio

import (
	"math"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	const sr = 48000
	in := make([]float32, 2400)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * 1000 * float64(i) / sr))
	}
	wav := WriteWAV(in, sr)
	out, gotSR, err := ReadWAV(wav)
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if gotSR != sr {
		t.Fatalf("sample rate=%d, want %d", gotSR, sr)
	}
	if len(out) != len(in) {
		t.Fatalf("len=%d, want %d", len(out), len(in))
	}
	for i := range in {
		if math.Abs(float64(out[i]-in[i])) > 1.0/32767+1e-4 {
			t.Fatalf("sample %d: got %v, want ~%v", i, out[i], in[i])
		}
	}
}

func TestReadWAVNotRIFF(t *testing.T) {
	if _, _, err := ReadWAV([]byte("not a wav file at all")); err == nil {
		t.Fatal("want error for non-RIFF input")
	}
}

func TestReadWAVNoData(t *testing.T) {
	wav := WriteWAV([]float32{0.1, 0.2}, 48000)
	// Truncate right after the fmt chunk, before the data chunk id.
	truncated := wav[:12+8+16]
	if _, _, err := ReadWAV(truncated); err == nil {
		t.Fatal("want error for missing data chunk")
	}
}
