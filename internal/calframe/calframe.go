// Package calframe builds and parses the 58-byte calibration frame used to
// probe a shared acoustic channel.
package calframe

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Size is the total wire length of a calibration frame.
const Size = 58

// Payload is the fixed 18-byte calibration payload. Every frame carries it
// byte-exact; it is never user data.
var Payload = [18]byte{'T', 'P', 'C', '-', 'C', 'A', 'L', 'I', 'B', 'R', 'A', 'T', 'E', '-', '2', '0', '2', '6'}

// Magic identifies the start of a calibration frame body (the bytes at and
// after offset 2).
var Magic = [4]byte{0xCA, 0x1B, 0xDA, 0x7A}

// bodyLength is the "length" field value: the byte count from magic through
// digest, inclusive.
const bodyLength = 56

// Encode builds a 58-byte calibration frame for sequence number seq.
func Encode(seq uint16) []byte {
	buf := make([]byte, Size)
	binary.BigEndian.PutUint16(buf[0:2], bodyLength)
	copy(buf[2:6], Magic[:])
	binary.BigEndian.PutUint16(buf[6:8], seq)
	copy(buf[8:26], Payload[:])
	digest := digestOf(seq)
	copy(buf[26:58], digest[:])
	return buf
}

// Decode parses a 58-byte calibration frame and reports whether it is
// intact. A mismatched digest or payload never panics; it is reported as
// intact=false so the caller can count corrupted vs. missing frames.
func Decode(buf []byte) (seq uint16, intact bool, err error) {
	if len(buf) != Size {
		return 0, false, fmt.Errorf("calframe: decode: want %d bytes, got %d", Size, len(buf))
	}
	seq = binary.BigEndian.Uint16(buf[6:8])
	var payload [18]byte
	copy(payload[:], buf[8:26])
	wantDigest := digestOf(seq)
	intact = payload == Payload && bytesEqual(buf[26:58], wantDigest[:])
	return seq, intact, nil
}

func digestOf(seq uint16) [32]byte {
	h := sha256.New()
	h.Write(Magic[:])
	var seqBuf [2]byte
	binary.BigEndian.PutUint16(seqBuf[:], seq)
	h.Write(seqBuf[:])
	h.Write(Payload[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
