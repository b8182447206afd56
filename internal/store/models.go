package store

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Verification is the per-document scoring output persisted for history,
// filtering, and export. One row per distinct document text.
type Verification struct {
	ID                  uint   `gorm:"primaryKey"`
	RequestID           string `gorm:"size:64;index"`
	TextHash            string `gorm:"size:64;uniqueIndex"`
	SourceURL           string `gorm:"size:512"`
	Excerpt             string `gorm:"size:512"`
	WordCount           int
	Opinion             bool   `gorm:"index"`
	Probability         float64
	Verdict             string `gorm:"size:32;index"`
	Certainty           string `gorm:"size:16"`
	ConfidencePct       int
	BaseProbability     float64
	BaseAvailable       bool
	ZeroShotProbability float64
	ZeroShotAvailable   bool
	QualityScore        float64
	BiasScore           int
	PoliticalLeaning    string `gorm:"size:16"`
	Note                string `gorm:"size:255"`
	ProcessingTimeMs    int64
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time
}

// HashText produces the dedup key for a document body: whitespace-insensitive
// lowercased SHA-256.
func HashText(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// ExcerptOf trims the document body to a storable preview.
func ExcerptOf(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
