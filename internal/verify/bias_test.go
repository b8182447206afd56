package verify

import "testing"

func TestDetectBias(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedScore int
		expectedHits  map[string]int
	}{
		{
			"dense sensational language",
			"Shocking scandal exposed in rigged election",
			100,
			map[string]int{"shocking": 1, "scandal": 1, "exposed": 1, "rigged": 1},
		},
		{
			"neutral text",
			"The committee reviewed the quarterly report and approved the minutes.",
			0,
			nil,
		},
		{
			"empty text",
			"",
			0,
			nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report := DetectBias(tc.text)
			if report.Score != tc.expectedScore {
				t.Fatalf("expected score %d got %d", tc.expectedScore, report.Score)
			}
			if len(report.Counts) != len(tc.expectedHits) {
				t.Fatalf("expected %d counted terms got %d", len(tc.expectedHits), len(report.Counts))
			}
			for term, count := range tc.expectedHits {
				if report.Counts[term] != count {
					t.Fatalf("term %q: expected %d got %d", term, count, report.Counts[term])
				}
			}
		})
	}
}

func TestDetectBiasDeterministic(t *testing.T) {
	text := "A massive controversial warning about an unprecedented crisis"
	first := DetectBias(text)
	for i := 0; i < 3; i++ {
		if got := DetectBias(text); got.Score != first.Score {
			t.Fatalf("run %d: expected %d got %d", i, first.Score, got.Score)
		}
	}
}
