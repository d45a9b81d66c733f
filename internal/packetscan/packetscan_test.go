package packetscan

import (
	"testing"

	"tpc/internal/calframe"
)

func concatFrames(seqs ...uint16) []byte {
	var out []byte
	for _, s := range seqs {
		out = append(out, calframe.Encode(s)...)
	}
	return out
}

func TestScanAllIntact(t *testing.T) {
	stream := concatFrames(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	report := Scan(stream, 10)
	if report.Found != 10 || report.Intact != 10 || report.PER != 0 {
		t.Fatalf("got %+v", report)
	}
	if report.Quality != "excellent" {
		t.Fatalf("quality=%s, want excellent", report.Quality)
	}
}

func TestScanMissingFirstFrameHeader(t *testing.T) {
	stream := concatFrames(0, 1)
	// Drop the two length bytes preceding the very first magic: the first
	// frame becomes unrecoverable by design (the preserved open-question
	// quirk), the second frame is untouched.
	stream = stream[2:]
	report := Scan(stream, 2)
	if report.Found != 1 {
		t.Fatalf("found=%d, want 1", report.Found)
	}
	if report.Records[0].Seq != 1 {
		t.Fatalf("seq=%d, want 1", report.Records[0].Seq)
	}
}

func TestPERArithmetic(t *testing.T) {
	cases := []struct {
		expected, found, intact int
		wantPER                 float64
	}{
		{10, 10, 10, 0.0},
		{10, 10, 8, 0.2},
		{10, 8, 8, 0.2},
		{10, 0, 0, 1.0},
		{0, 0, 0, 0.0},
	}
	for _, c := range cases {
		records := make([]Record, c.found)
		for i := range records {
			records[i] = Record{Seq: uint16(i), Intact: i < c.intact}
		}
		r := aggregate(records, c.expected)
		if r.PER != c.wantPER {
			t.Fatalf("case %+v: PER=%v, want %v", c, r.PER, c.wantPER)
		}
		if r.Intact+r.Corrupted != r.Found {
			t.Fatalf("case %+v: intact+corrupted != found", c)
		}
	}
}

func TestCorruptedFrameNotIntact(t *testing.T) {
	stream := concatFrames(0, 1)
	stream[10] ^= 0xFF // corrupt a payload byte of frame 0
	report := Scan(stream, 2)
	if report.Found != 2 {
		t.Fatalf("found=%d, want 2", report.Found)
	}
	if report.Intact != 1 || report.Corrupted != 1 {
		t.Fatalf("intact=%d corrupted=%d, want 1/1", report.Intact, report.Corrupted)
	}
}
