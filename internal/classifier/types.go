package classifier

import "errors"

// ErrDisabled is returned when a classifier has no endpoint configured.
var ErrDisabled = errors.New("classifier disabled")

// ErrLabelMissing is returned when a zero-shot response does not rank the
// label the caller asked about.
var ErrLabelMissing = errors.New("label missing from ranking")

// Ranking is the normalized zero-shot output: labels ordered by descending
// score, with scores aligned by index.
type Ranking struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// ProbabilityOf returns the score assigned to the given label.
func (r Ranking) ProbabilityOf(label string) (float64, bool) {
	for i, candidate := range r.Labels {
		if candidate == label && i < len(r.Scores) {
			return r.Scores[i], true
		}
	}
	return 0, false
}

// Top returns the highest-ranked label, or empty when the ranking is empty.
func (r Ranking) Top() string {
	if len(r.Labels) == 0 {
		return ""
	}
	return r.Labels[0]
}
