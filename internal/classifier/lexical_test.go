package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewLexicalClientRequiresEndpoint(t *testing.T) {
	if _, err := NewLexicalClient(LexicalConfig{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled got %v", err)
	}
}

func TestLexicalRealProbability(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected float64
		wantErr  bool
	}{
		{"plain probability", `{"probability": 0.73}`, 0.73, false},
		{"clamps above one", `{"probability": 1.4}`, 1.0, false},
		{"clamps below zero", `{"probability": -0.2}`, 0.0, false},
		{"missing probability", `{}`, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/predict" {
					t.Fatalf("unexpected path %q", r.URL.Path)
				}
				var req lexicalRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				if req.Text == "" {
					t.Fatalf("expected text in request")
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.payload))
			}))
			defer server.Close()

			client, err := NewLexicalClient(LexicalConfig{BaseURL: server.URL})
			if err != nil {
				t.Fatalf("new client: %v", err)
			}

			proba, err := client.RealProbability(context.Background(), "The council approved the budget.")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("real probability: %v", err)
			}
			if proba != tc.expected {
				t.Fatalf("expected %v got %v", tc.expected, proba)
			}
		})
	}
}

func TestLexicalServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewLexicalClient(LexicalConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.RealProbability(context.Background(), "text"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}
