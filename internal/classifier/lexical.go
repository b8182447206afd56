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

// LexicalConfig drives the lexical classifier client.
type LexicalConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LexicalClient queries the bag-of-words inference endpoint for P(real).
type LexicalClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewLexicalClient constructs a client if an endpoint is configured.
func NewLexicalClient(cfg LexicalConfig) (*LexicalClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrDisabled
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &LexicalClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}, nil
}

// Enabled reports whether the client can make outbound calls.
func (c *LexicalClient) Enabled() bool {
	return c != nil && c.baseURL != ""
}

type lexicalRequest struct {
	Text string `json:"text"`
}

type lexicalResponse struct {
	Probability *float64 `json:"probability"`
}

// RealProbability returns the model's probability that the text is genuine
// reporting. Failures surface as errors; the caller decides how to degrade.
func (c *LexicalClient) RealProbability(ctx context.Context, text string) (float64, error) {
	if !c.Enabled() {
		return 0, ErrDisabled
	}

	body, err := json.Marshal(lexicalRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("lexical request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("lexical status %d", resp.StatusCode)
	}

	var decoded lexicalResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if decoded.Probability == nil {
		return 0, fmt.Errorf("lexical response missing probability")
	}

	proba := *decoded.Probability
	if proba < 0 {
		proba = 0
	}
	if proba > 1 {
		proba = 1
	}
	return proba, nil
}
