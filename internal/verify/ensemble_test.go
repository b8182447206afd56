package verify

import (
	"math"
	"testing"
)

func TestCombineStaysInBounds(t *testing.T) {
	for p1 := 0.0; p1 <= 1.0; p1 += 0.05 {
		for p2 := 0.0; p2 <= 1.0; p2 += 0.05 {
			for q := 0.0; q <= 1.0; q += 0.05 {
				got := Combine(p1, p2, q)
				if got < probabilityFloor || got > probabilityCeiling {
					t.Fatalf("Combine(%v, %v, %v) = %v out of bounds", p1, p2, q, got)
				}
			}
		}
	}
}

func TestCombineAgreementReduces(t *testing.T) {
	// With identical model signals the blend collapses to the mean of the
	// shared probability and the quality score.
	for p := 0.0; p <= 1.0; p += 0.05 {
		for q := 0.0; q <= 1.0; q += 0.05 {
			want := clamp((p+q)/2, probabilityFloor, probabilityCeiling)
			got := Combine(p, p, q)
			if math.Abs(got-want) > 1e-12 {
				t.Fatalf("Combine(%v, %v, %v): expected %v got %v", p, p, q, want, got)
			}
		}
	}
}

func TestCombineMonotonicWithinRegime(t *testing.T) {
	// Raising the lexical probability never lowers the output as long as the
	// agreement regime does not flip.
	const step = 0.01
	for p2 := 0.0; p2 <= 1.0; p2 += 0.1 {
		for q := 0.0; q <= 1.0; q += 0.1 {
			prev := math.Inf(-1)
			prevAgree := false
			first := true
			for p1 := 0.0; p1 <= 1.0+1e-9; p1 += step {
				agree := math.Abs(p1-p2) < agreementThreshold
				got := Combine(p1, p2, q)
				if !first && agree == prevAgree && got < prev-1e-12 {
					t.Fatalf("Combine decreased at p1=%v p2=%v q=%v: %v -> %v", p1, p2, q, prev, got)
				}
				prev = got
				prevAgree = agree
				first = false
			}
		}
	}
}

func TestCombineScenarios(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		zeroshot float64
		quality  float64
		expected float64
	}{
		// agreement: ensemble = 0.7*0.8 + 0.3*0.75 = 0.785; final = (0.785+0.7)/2
		{"models agree", 0.8, 0.75, 0.7, 0.7425},
		// disagreement: ensemble = 0.4*0.9 + 0.3*0.2 + 0.3*0.3 = 0.51; final = (0.51+0.3)/2
		{"models disagree", 0.9, 0.2, 0.3, 0.405},
		{"all neutral", 0.5, 0.5, 0.5, 0.5},
		{"floor clamp", 0.0, 0.0, 0.0, 0.01},
		{"ceiling clamp", 1.0, 1.0, 1.0, 0.99},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Combine(tc.base, tc.zeroshot, tc.quality)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Fatalf("expected %v got %v", tc.expected, got)
			}
		})
	}
}
