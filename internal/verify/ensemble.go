package verify

const (
	// agreementThreshold is the absolute model-probability gap below which the
	// two classifiers are considered to concur.
	agreementThreshold = 0.2

	probabilityFloor   = 0.01
	probabilityCeiling = 0.99
)

// Combine merges the lexical classifier's P(real), the zero-shot classifier's
// P(legitimate), and the content quality score into one calibrated probability.
// When the two model signals agree the quality score only enters through the
// final averaging step; when they disagree it additionally acts as tiebreaker
// inside the blend. The function is pure and total for finite inputs in [0,1];
// callers substitute the neutral 0.5 when an upstream classifier fails, so
// there is no error path here.
func Combine(baseProba, zeroshotProba, qualityScore float64) float64 {
	agreement := baseProba - zeroshotProba
	if agreement < 0 {
		agreement = -agreement
	}

	var ensemble float64
	if agreement < agreementThreshold {
		ensemble = 0.7*baseProba + 0.3*zeroshotProba
	} else {
		ensemble = 0.4*baseProba + 0.3*zeroshotProba + 0.3*qualityScore
	}

	final := (ensemble + qualityScore) / 2
	return clamp(final, probabilityFloor, probabilityCeiling)
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
