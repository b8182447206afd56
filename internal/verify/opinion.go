package verify

import (
	"net/url"
	"regexp"
	"strings"
)

// Markers that flag opinion or analysis content when they appear as a URL path
// segment or as a whole word near the top of the article.
var opinionMarkers = []string{
	"opinion", "op-ed", "oped", "editorial", "analysis",
	"commentary", "columns",
}

// First-person subjective phrases; two or more hits anywhere in the text mark
// the piece as opinion.
var subjectivePhrases = []string{
	"i think", "i believe", "in my view", "we should", "i feel",
	"my opinion", "i argue", "i suggest", "in our view", "personally",
	"from my perspective",
}

var opinionMarkerWord = compileMarkerPattern(opinionMarkers)

func compileMarkerPattern(markers []string) *regexp.Regexp {
	escaped := make([]string, 0, len(markers))
	for _, m := range markers {
		escaped = append(escaped, regexp.QuoteMeta(m))
	}
	return regexp.MustCompile(`\b(` + strings.Join(escaped, "|") + `)\b`)
}

// IsOpinion reports whether the document reads as opinion/editorial content
// rather than factual reporting. It checks the source URL path segments, the
// first 40 words, and the density of first-person subjective phrasing.
func IsOpinion(text, sourceURL string) bool {
	if markerInPath(sourceURL) {
		return true
	}

	lower := strings.ToLower(text)
	words := strings.Fields(lower)
	if len(words) > 40 {
		words = words[:40]
	}
	if opinionMarkerWord.MatchString(strings.Join(words, " ")) {
		return true
	}

	hits := 0
	for _, phrase := range subjectivePhrases {
		if strings.Contains(lower, phrase) {
			hits++
		}
	}
	return hits >= 2
}

func markerInPath(sourceURL string) bool {
	sourceURL = strings.TrimSpace(strings.ToLower(sourceURL))
	if sourceURL == "" {
		return false
	}

	path := sourceURL
	if parsed, err := url.Parse(sourceURL); err == nil && parsed.Path != "" {
		path = parsed.Path
	}

	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		for _, marker := range opinionMarkers {
			if segment == marker {
				return true
			}
		}
	}
	return false
}
