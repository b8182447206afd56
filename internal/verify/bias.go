package verify

import (
	"regexp"
	"strings"
)

// Sensational vocabulary used for the supplementary bias signal. The score it
// yields is reported next to the verdict but never feeds the ensemble.
var biasLexicon = []string{
	"shocking", "outrage", "scandal", "cover-up", "exposed", "plot", "agenda", "propaganda",
	"rigged", "fake", "hoax", "catastrophe", "disaster", "crisis", "meltdown", "massive",
	"unprecedented", "slam", "blast", "brutal", "controversial", "alarming", "warning",
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// BiasReport summarizes sensational-language density on a 0-100 scale.
type BiasReport struct {
	Score  int            `json:"score"`
	Counts map[string]int `json:"counts,omitempty"`
}

// DetectBias scans the text for sensational vocabulary and scores its density.
func DetectBias(text string) BiasReport {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return BiasReport{}
	}

	lexicon := make(map[string]struct{}, len(biasLexicon))
	for _, term := range biasLexicon {
		lexicon[term] = struct{}{}
	}

	counts := make(map[string]int)
	hits := 0
	for _, word := range words {
		if _, ok := lexicon[word]; ok {
			counts[word]++
			hits++
		}
	}
	if hits == 0 {
		return BiasReport{}
	}

	score := int(float64(hits) / float64(len(words)) * 3000)
	if score > 100 {
		score = 100
	}
	return BiasReport{Score: score, Counts: counts}
}
