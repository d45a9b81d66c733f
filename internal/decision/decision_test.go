package decision

import "testing"

func TestDecideScenarios(t *testing.T) {
	cases := []struct {
		snr, per float64
		want     Mode
	}{
		{25.0, 0.02, ModeUltrasonic},
		{15.0, 0.10, ModeAudible},
		{8.0, 0.02, ModeFile},
		{25.0, 0.25, ModeFile},
	}
	for _, c := range cases {
		got := Decide(c.snr, c.per)
		if got.Mode != c.want {
			t.Fatalf("Decide(%v, %v) = %v, want %v", c.snr, c.per, got.Mode, c.want)
		}
	}
}

func TestMonotonicOnSNR(t *testing.T) {
	rank := map[Mode]int{ModeFile: 0, ModeAudible: 1, ModeUltrasonic: 2}
	const per = 0.03
	prev := Decide(0, per)
	for snr := 1.0; snr <= 40; snr++ {
		cur := Decide(snr, per)
		if rank[cur.Mode] < rank[prev.Mode] {
			t.Fatalf("downgrade at snr=%.0f: %v -> %v", snr, prev.Mode, cur.Mode)
		}
		prev = cur
	}
}

func TestMonotonicOnPER(t *testing.T) {
	rank := map[Mode]int{ModeFile: 0, ModeAudible: 1, ModeUltrasonic: 2}
	const snr = 25.0
	prev := Decide(snr, 1.0)
	for per := 0.99; per >= 0; per -= 0.01 {
		cur := Decide(snr, per)
		if rank[cur.Mode] < rank[prev.Mode] {
			t.Fatalf("downgrade at per=%.2f: %v -> %v", per, prev.Mode, cur.Mode)
		}
		prev = cur
	}
}

func TestConfidenceBounds(t *testing.T) {
	for _, snr := range []float64{0, 10, 20, 30, 40, 60} {
		p := Decide(snr, 0.0)
		if p.Confidence < 0 || p.Confidence > 1 {
			t.Fatalf("snr=%v confidence=%v out of bounds", snr, p.Confidence)
		}
	}
}
