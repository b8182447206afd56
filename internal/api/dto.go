package api

import (
	"time"

	"github.com/maazxd/ai-news-analyzer/internal/store"
	"github.com/maazxd/ai-news-analyzer/internal/verify"
)

// VerifyRequest is a single document submitted for scoring. Title is optional
// and is prepended to the body before analysis.
type VerifyRequest struct {
	Title     string `json:"title"`
	Text      string `json:"text" binding:"required"`
	SourceURL string `json:"source_url"`
}

// BatchVerifyRequest submits multiple documents for asynchronous scoring.
type BatchVerifyRequest struct {
	Documents []VerifyRequest `json:"documents" binding:"required"`
}

// VerificationDTO is the API representation of a stored verification.
type VerificationDTO struct {
	ID                  uint      `json:"id"`
	RequestID           string    `json:"request_id"`
	SourceURL           string    `json:"source_url"`
	Excerpt             string    `json:"excerpt"`
	WordCount           int       `json:"word_count"`
	Opinion             bool      `json:"opinion"`
	Probability         float64   `json:"probability"`
	Verdict             string    `json:"verdict"`
	Certainty           string    `json:"certainty"`
	ConfidencePct       int       `json:"confidence_pct"`
	BaseProbability     float64   `json:"base_probability"`
	BaseAvailable       bool      `json:"base_available"`
	ZeroShotProbability float64   `json:"zeroshot_probability"`
	ZeroShotAvailable   bool      `json:"zeroshot_available"`
	QualityScore        float64   `json:"quality_score"`
	BiasScore           int       `json:"bias_score"`
	PoliticalLeaning    string    `json:"political_leaning,omitempty"`
	Note                string    `json:"note,omitempty"`
	ProcessingTimeMs    int64     `json:"processing_time_ms"`
	CreatedAt           time.Time `json:"created_at"`
}

// VerifyResponse returns the scoring outcome for a single document, including
// the quality breakdown that is not persisted per indicator.
type VerifyResponse struct {
	Verification  VerificationDTO      `json:"verification"`
	Quality       verify.QualityReport `json:"quality"`
	Bias          verify.BiasReport    `json:"bias"`
	LeaningScores map[string]float64   `json:"leaning_scores,omitempty"`
}

// VerificationsResponse is the paginated history listing.
type VerificationsResponse struct {
	Items []VerificationDTO `json:"items"`
	Total int64             `json:"total"`
}

// StartBatchResponse describes the asynchronous batch kickoff payload.
type StartBatchResponse struct {
	JobID     string    `json:"job_id"`
	Total     int       `json:"total"`
	StartedAt time.Time `json:"started_at"`
}

// BatchStatusResponse describes the state of the active batch job.
type BatchStatusResponse struct {
	Running   bool             `json:"running"`
	JobID     string           `json:"job_id"`
	State     string           `json:"state"`
	Message   string           `json:"message"`
	Processed int              `json:"processed"`
	Total     int              `json:"total"`
	Last      *VerificationDTO `json:"last,omitempty"`
}

// FromModel converts a store.Verification into the DTO representation.
func FromModel(v store.Verification) VerificationDTO {
	return VerificationDTO{
		ID:                  v.ID,
		RequestID:           v.RequestID,
		SourceURL:           v.SourceURL,
		Excerpt:             v.Excerpt,
		WordCount:           v.WordCount,
		Opinion:             v.Opinion,
		Probability:         round3(v.Probability),
		Verdict:             v.Verdict,
		Certainty:           v.Certainty,
		ConfidencePct:       v.ConfidencePct,
		BaseProbability:     round3(v.BaseProbability),
		BaseAvailable:       v.BaseAvailable,
		ZeroShotProbability: round3(v.ZeroShotProbability),
		ZeroShotAvailable:   v.ZeroShotAvailable,
		QualityScore:        round3(v.QualityScore),
		BiasScore:           v.BiasScore,
		PoliticalLeaning:    v.PoliticalLeaning,
		Note:                v.Note,
		ProcessingTimeMs:    v.ProcessingTimeMs,
		CreatedAt:           v.CreatedAt,
	}
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
