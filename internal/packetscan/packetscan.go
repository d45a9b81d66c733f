// Package packetscan recovers calibration frames from a demodulated byte
// stream and aggregates packet error rate statistics.
package packetscan

import (
	"bytes"
	"encoding/binary"

	"tpc/internal/calframe"
)

// Record is one recovered frame observation.
type Record struct {
	Seq    uint16
	Intact bool
}

// Report is the packet-extraction summary for one capture.
type Report struct {
	Expected  int
	Found     int
	Intact    int
	Corrupted int
	Lost      int
	PER       float64
	Quality   string
	Records   []Record
}

// Scan walks stream left-to-right looking for calframe.Magic. The spec
// preserves an inherited quirk from the original receiver: the frame's
// length field is read from the two bytes immediately preceding the magic,
// not from inside the frame body. This means the very first frame in a
// stream is only recoverable if those two leading bytes survived
// transmission intact.
func Scan(stream []byte, expected int) Report {
	var records []Record
	cursor := 0
	for cursor < len(stream) {
		rel := bytes.Index(stream[cursor:], calframe.Magic[:])
		if rel < 0 {
			break
		}
		m := cursor + rel
		if m < 2 {
			cursor = m + 1
			continue
		}
		length := binary.BigEndian.Uint16(stream[m-2 : m])
		bodyLen := int(length)
		if bodyLen != 56 {
			// A corrupted length field still proceeds with the frame's
			// actual fixed body size; the integrity check below catches it.
			bodyLen = 56
		}
		if m+bodyLen > len(stream) {
			cursor = m + 1
			continue
		}
		// calframe.Decode expects the full wire frame starting with the
		// length field; reconstruct it from the two bytes already consumed
		// above plus the body just bounded.
		frame := stream[m-2 : m+bodyLen]
		seq, intact, err := calframe.Decode(frame)
		if err != nil {
			cursor = m + 1
			continue
		}
		records = append(records, Record{Seq: seq, Intact: intact})
		cursor = m + bodyLen
	}
	return aggregate(records, expected)
}

func aggregate(records []Record, expected int) Report {
	found := len(records)
	intact := 0
	for _, r := range records {
		if r.Intact {
			intact++
		}
	}
	corrupted := found - intact
	lost := expected - found
	if lost < 0 {
		lost = 0
	}
	denom := expected
	if denom < 1 {
		denom = 1
	}
	per := float64(lost+corrupted) / float64(denom)

	return Report{
		Expected:  expected,
		Found:     found,
		Intact:    intact,
		Corrupted: corrupted,
		Lost:      lost,
		PER:       per,
		Quality:   qualityLabel(per),
		Records:   records,
	}
}

func qualityLabel(per float64) string {
	switch {
	case per == 0:
		return "excellent"
	case per < 0.1:
		return "good"
	case per < 0.3:
		return "marginal"
	default:
		return "poor"
	}
}
