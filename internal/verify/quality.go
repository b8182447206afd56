package verify

import (
	"regexp"
	"strings"
)

// Attribution phrases that indicate sourced reporting. These lists are part of
// the scoring contract and must not be regenerated or reordered.
var attributionPhrases = []string{
	"according to", "sources say", "reported by", "study shows",
	"research indicates", "officials said", "spokesperson",
}

// Sensational phrases strongly associated with misinformation.
var redFlagPhrases = []string{
	"shocking truth", "doctors hate", "secret revealed", "they don't want you",
	"mainstream media won't", "wake up", "sheeple", "big pharma conspiracy",
}

// Emotionally loaded words whose density correlates with manipulation.
var emotionalWords = []string{
	"unbelievable", "shocking", "amazing", "incredible", "outrageous",
	"devastating", "terrifying", "miraculous",
}

var (
	sentenceTerminator = regexp.MustCompile(`[.!?]+`)
	datePattern        = regexp.MustCompile(`\b\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}\b`)
	numberPattern      = regexp.MustCompile(`\b\d+(?:,\d{3})*(?:\.\d+)?\b`)
	properNounPattern  = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+)*\b`)
)

// QualityIndicator is a single named sub-score contributing to the quality mean.
type QualityIndicator struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// QualityReport carries the aggregate quality score plus the sub-indicators
// that produced it.
type QualityReport struct {
	Score      float64            `json:"score"`
	Indicators []QualityIndicator `json:"indicators"`
}

// AssessQuality computes a deterministic content quality estimate in [0,1]
// from surface lexical and structural features. It is pure, never errors, and
// does not depend on any model; empty input maps to the minimum-information
// default rather than failing.
func AssessQuality(text string) QualityReport {
	var indicators []QualityIndicator
	lower := strings.ToLower(text)
	words := strings.Fields(text)
	wordCount := len(words)

	indicators = append(indicators, QualityIndicator{"length", lengthScore(wordCount)})

	sentenceCount := len(sentenceTerminator.FindAllString(text, -1))
	if sentenceCount > 0 {
		avg := float64(wordCount) / float64(sentenceCount)
		score := 0.5
		if avg >= 10 && avg <= 30 {
			score = 0.8
		}
		indicators = append(indicators, QualityIndicator{"sentence_structure", score})
	}

	indicators = append(indicators, QualityIndicator{"attribution", phrasePresenceScore(lower, attributionPhrases, 0.9, 0.4)})

	quoteScore := 0.5
	if strings.ContainsAny(text, `"'`) {
		quoteScore = 0.8
	}
	indicators = append(indicators, QualityIndicator{"quotation", quoteScore})

	indicators = append(indicators, QualityIndicator{"specificity", specificityScore(text)})

	indicators = append(indicators, QualityIndicator{"red_flags", phrasePresenceScore(lower, redFlagPhrases, 0.1, 0.7)})

	indicators = append(indicators, QualityIndicator{"emotional_language", emotionalScore(lower)})

	var sum float64
	for _, ind := range indicators {
		sum += ind.Score
	}
	return QualityReport{
		Score:      sum / float64(len(indicators)),
		Indicators: indicators,
	}
}

func lengthScore(wordCount int) float64 {
	switch {
	case wordCount >= 50 && wordCount <= 2000:
		return 0.8
	case wordCount >= 20 && wordCount < 50:
		return 0.6
	case wordCount > 2000 && wordCount <= 3000:
		return 0.6
	default:
		return 0.3
	}
}

func phrasePresenceScore(lower string, phrases []string, hit, miss float64) float64 {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return hit
		}
	}
	return miss
}

// specificityScore checks for dates, numbers, and at least three distinct
// proper-noun-like tokens.
func specificityScore(text string) float64 {
	hasDates := datePattern.MatchString(text)
	hasNumbers := numberPattern.MatchString(text)

	seen := make(map[string]struct{})
	for _, tok := range properNounPattern.FindAllString(text, -1) {
		seen[tok] = struct{}{}
	}
	hasProperNouns := len(seen) > 2

	present := 0
	for _, ok := range []bool{hasDates, hasNumbers, hasProperNouns} {
		if ok {
			present++
		}
	}
	switch present {
	case 3:
		return 0.9
	case 2:
		return 0.7
	case 1:
		return 0.6
	default:
		return 0.3
	}
}

func emotionalScore(lower string) float64 {
	count := 0
	for _, word := range emotionalWords {
		if strings.Contains(lower, word) {
			count++
		}
	}
	switch {
	case count == 0:
		return 0.8
	case count <= 2:
		return 0.6
	default:
		return 0.2
	}
}
