package verify

// Verdict is the human-facing authenticity classification.
type Verdict string

// Certainty describes how decisive the probability band is.
type Certainty string

const (
	VerdictLikelyReal   Verdict = "Likely Real"
	VerdictPossiblyReal Verdict = "Possibly Real"
	VerdictUncertain    Verdict = "Uncertain"
	VerdictPossiblyFake Verdict = "Possibly Fake"
	VerdictLikelyFake   Verdict = "Likely Fake"
	VerdictOpinion      Verdict = "Opinion/Editorial"

	CertaintyHigh          Certainty = "High"
	CertaintyMedium        Certainty = "Medium"
	CertaintyLow           Certainty = "Low"
	CertaintyNotApplicable Certainty = "N/A"
)

// BandProbability maps a probability onto the fixed verdict and certainty
// bands. The thresholds are contract, not runtime configuration; every value
// in [0,1] falls into exactly one band.
func BandProbability(proba float64) (Verdict, Certainty) {
	switch {
	case proba >= 0.7:
		return VerdictLikelyReal, CertaintyHigh
	case proba >= 0.55:
		return VerdictPossiblyReal, CertaintyMedium
	case proba >= 0.45:
		return VerdictUncertain, CertaintyLow
	case proba >= 0.3:
		return VerdictPossiblyFake, CertaintyMedium
	default:
		return VerdictLikelyFake, CertaintyHigh
	}
}

// DisplayConfidencePct reports how far the probability sits from the neutral
// midpoint, as an integer percentage. Percentages are rounded half-up.
func DisplayConfidencePct(proba float64) int {
	display := proba
	if proba <= 0.5 {
		display = 1 - proba
	}
	return int(display*100 + 0.5)
}
