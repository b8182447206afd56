package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// legitimacyInputLimit keeps zero-shot inputs within the model's useful
	// context; anything past it adds latency without improving the ranking.
	legitimacyInputLimit = 1000

	labelLegitimate = "legitimate news article"
	labelMisleading = "misleading or fake content"

	legitimacyTemplate = "This text is {}."
	leaningTemplate    = "This article has a {} political bias."
)

var leaningLabels = []string{"left-leaning", "center", "right-leaning"}

// ZeroShotConfig drives the zero-shot classifier client.
type ZeroShotConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ZeroShotClient queries a zero-shot classification endpoint with
// natural-language candidate labels.
type ZeroShotClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewZeroShotClient constructs a client if an endpoint is configured.
func NewZeroShotClient(cfg ZeroShotConfig) (*ZeroShotClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrDisabled
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ZeroShotClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}, nil
}

// Enabled reports whether the client can make outbound calls.
func (c *ZeroShotClient) Enabled() bool {
	return c != nil && c.baseURL != ""
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels    []string `json:"candidate_labels"`
	HypothesisTemplate string   `json:"hypothesis_template"`
	MultiLabel         bool     `json:"multi_label"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify ranks the candidate labels for the supplied text.
func (c *ZeroShotClient) Classify(ctx context.Context, text string, labels []string, hypothesisTemplate string) (Ranking, error) {
	if !c.Enabled() {
		return Ranking{}, ErrDisabled
	}

	payload := zeroShotRequest{
		Inputs: text,
		Parameters: zeroShotParameters{
			CandidateLabels:    labels,
			HypothesisTemplate: hypothesisTemplate,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Ranking{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return Ranking{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Ranking{}, fmt.Errorf("zero-shot request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Ranking{}, fmt.Errorf("zero-shot status %d", resp.StatusCode)
	}

	var decoded zeroShotResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Ranking{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Labels) == 0 || len(decoded.Labels) != len(decoded.Scores) {
		return Ranking{}, fmt.Errorf("zero-shot response malformed")
	}

	return Ranking{Labels: decoded.Labels, Scores: decoded.Scores}, nil
}

// Legitimacy returns P(legitimate news article) for the text, truncated to the
// input limit. Ranking ambiguity is resolved here so downstream code only ever
// sees a single probability.
func (c *ZeroShotClient) Legitimacy(ctx context.Context, text string) (float64, error) {
	if len(text) > legitimacyInputLimit {
		text = text[:legitimacyInputLimit]
	}
	ranking, err := c.Classify(ctx, text, []string{labelLegitimate, labelMisleading}, legitimacyTemplate)
	if err != nil {
		return 0, err
	}
	proba, ok := ranking.ProbabilityOf(labelLegitimate)
	if !ok {
		return 0, ErrLabelMissing
	}
	if proba < 0 {
		proba = 0
	}
	if proba > 1 {
		proba = 1
	}
	return proba, nil
}

// PoliticalLeaning classifies the article's leaning and returns the top label
// with the full score map.
func (c *ZeroShotClient) PoliticalLeaning(ctx context.Context, text string) (string, map[string]float64, error) {
	ranking, err := c.Classify(ctx, text, leaningLabels, leaningTemplate)
	if err != nil {
		return "", nil, err
	}
	scores := make(map[string]float64, len(ranking.Labels))
	for i, label := range ranking.Labels {
		scores[label] = ranking.Scores[i]
	}
	return ranking.Top(), scores, nil
}
