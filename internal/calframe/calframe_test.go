package calframe

import "testing"

func TestEncodeLength(t *testing.T) {
	buf := Encode(0)
	if len(buf) != Size {
		t.Fatalf("len=%d, want %d", len(buf), Size)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, seq := range []uint16{0, 1, 9, 1234, 65535} {
		buf := Encode(seq)
		gotSeq, intact, err := Decode(buf)
		if err != nil {
			t.Fatalf("seq=%d: Decode error: %v", seq, err)
		}
		if !intact {
			t.Fatalf("seq=%d: want intact=true", seq)
		}
		if gotSeq != seq {
			t.Fatalf("seq=%d: got seq=%d", seq, gotSeq)
		}
	}
}

func TestFlippedByteIsNotIntact(t *testing.T) {
	for _, idx := range []int{8, 17, 26, 57} {
		buf := Encode(3)
		buf[idx] ^= 0xFF
		seq, intact, err := Decode(buf)
		if err != nil {
			t.Fatalf("idx=%d: Decode error: %v", idx, err)
		}
		if intact {
			t.Fatalf("idx=%d: flipped byte should not be intact", idx)
		}
		if seq != 3 {
			t.Fatalf("idx=%d: seq still reported as 3, got %d", idx, seq)
		}
	}
}

func TestDecodeWrongSize(t *testing.T) {
	if _, _, err := Decode(make([]byte, 10)); err == nil {
		t.Fatal("want error for wrong-sized buffer")
	}
}
