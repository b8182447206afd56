package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewZeroShotClientRequiresEndpoint(t *testing.T) {
	if _, err := NewZeroShotClient(ZeroShotConfig{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled got %v", err)
	}
}

func TestZeroShotLegitimacy(t *testing.T) {
	var captured zeroShotRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(zeroShotResponse{
			Labels: []string{"legitimate news article", "misleading or fake content"},
			Scores: []float64{0.82, 0.18},
		})
	}))
	defer server.Close()

	client, err := NewZeroShotClient(ZeroShotConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	proba, err := client.Legitimacy(context.Background(), "The council approved the budget on Tuesday.")
	if err != nil {
		t.Fatalf("legitimacy: %v", err)
	}
	if proba != 0.82 {
		t.Fatalf("expected 0.82 got %v", proba)
	}

	if len(captured.Parameters.CandidateLabels) != 2 {
		t.Fatalf("expected 2 candidate labels got %d", len(captured.Parameters.CandidateLabels))
	}
	if captured.Parameters.HypothesisTemplate != "This text is {}." {
		t.Fatalf("unexpected hypothesis template %q", captured.Parameters.HypothesisTemplate)
	}
	if captured.Parameters.MultiLabel {
		t.Fatalf("multi_label should be false")
	}
}

func TestZeroShotLegitimacyTruncatesInput(t *testing.T) {
	var captured zeroShotRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_ = json.NewEncoder(w).Encode(zeroShotResponse{
			Labels: []string{"legitimate news article", "misleading or fake content"},
			Scores: []float64{0.6, 0.4},
		})
	}))
	defer server.Close()

	client, err := NewZeroShotClient(ZeroShotConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	long := strings.Repeat("a", 5000)
	if _, err := client.Legitimacy(context.Background(), long); err != nil {
		t.Fatalf("legitimacy: %v", err)
	}
	if len(captured.Inputs) != legitimacyInputLimit {
		t.Fatalf("expected input truncated to %d got %d", legitimacyInputLimit, len(captured.Inputs))
	}
}

func TestZeroShotLegitimacyLabelMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(zeroShotResponse{
			Labels: []string{"something else"},
			Scores: []float64{1.0},
		})
	}))
	defer server.Close()

	client, err := NewZeroShotClient(ZeroShotConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Legitimacy(context.Background(), "Some article body to classify."); !errors.Is(err, ErrLabelMissing) {
		t.Fatalf("expected ErrLabelMissing got %v", err)
	}
}

func TestZeroShotClassifyErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			"malformed ranking",
			func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(zeroShotResponse{
					Labels: []string{"a", "b"},
					Scores: []float64{0.5},
				})
			},
		},
		{
			"empty ranking",
			func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(zeroShotResponse{})
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client, err := NewZeroShotClient(ZeroShotConfig{BaseURL: server.URL})
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			if _, err := client.Classify(context.Background(), "text", []string{"a", "b"}, "This text is {}."); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestPoliticalLeaning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(zeroShotResponse{
			Labels: []string{"center", "left-leaning", "right-leaning"},
			Scores: []float64{0.5, 0.3, 0.2},
		})
	}))
	defer server.Close()

	client, err := NewZeroShotClient(ZeroShotConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	top, scores, err := client.PoliticalLeaning(context.Background(), "An article about fiscal policy.")
	if err != nil {
		t.Fatalf("political leaning: %v", err)
	}
	if top != "center" {
		t.Fatalf("expected top label center got %q", top)
	}
	if scores["left-leaning"] != 0.3 {
		t.Fatalf("expected 0.3 for left-leaning got %v", scores["left-leaning"])
	}
}

func TestRankingProbabilityOf(t *testing.T) {
	ranking := Ranking{Labels: []string{"a", "b"}, Scores: []float64{0.9, 0.1}}
	if proba, ok := ranking.ProbabilityOf("b"); !ok || proba != 0.1 {
		t.Fatalf("expected 0.1 got %v (ok=%v)", proba, ok)
	}
	if _, ok := ranking.ProbabilityOf("missing"); ok {
		t.Fatalf("expected missing label to report not found")
	}
	if ranking.Top() != "a" {
		t.Fatalf("expected top label a got %q", ranking.Top())
	}
}
