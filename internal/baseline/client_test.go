package baseline

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnalyzeSegment_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/analyze/segment" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected json content type, got %q", r.Header.Get("Content-Type"))
		}

		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.SessionID != "s-1" || req.SegmentID != 4 {
			t.Errorf("unexpected segment identity: %+v", req)
		}
		if len(req.Utterances) != 1 || req.Utterances[0].Speaker != "alice" {
			t.Errorf("unexpected utterances: %+v", req.Utterances)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(Metrics{
			Confusion:          0.4,
			Stagnation:         0.3,
			Understanding:      0.6,
			Questions:          2,
			UnmatchedQuestions: 1,
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	utterances := []Utterance{{ID: "u1", Speaker: "alice", Text: "hello", StartSec: 0, EndSec: 2}}

	m, err := c.AnalyzeSegment(context.Background(), "s-1", 4, 0, 60, utterances)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(m.Confusion-0.4) > 0.001 {
		t.Errorf("expected confusion 0.4, got %f", m.Confusion)
	}
	if m.UnmatchedQuestions != 1 {
		t.Errorf("expected 1 unmatched question, got %d", m.UnmatchedQuestions)
	}
}

func TestAnalyzeSegment_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "classifier overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(server.URL)

	_, err := c.AnalyzeSegment(context.Background(), "s-1", 0, 0, 60, nil)
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestAnalyzeSegment_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient(server.URL)

	_, err := c.AnalyzeSegment(context.Background(), "s-1", 0, 0, 60, nil)
	if err == nil {
		t.Fatal("expected error for malformed response")
	}
}

func TestAnalyzeSegment_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := NewClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.AnalyzeSegment(ctx, "s-1", 0, 0, 60, nil); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestUtteranceDuration(t *testing.T) {
	u := Utterance{StartSec: 3.5, EndSec: 7.0}
	if math.Abs(u.Duration()-3.5) > 0.001 {
		t.Errorf("expected 3.5, got %f", u.Duration())
	}

	reversed := Utterance{StartSec: 7.0, EndSec: 3.5}
	if reversed.Duration() >= 0 {
		t.Errorf("malformed span should report negative duration, got %f", reversed.Duration())
	}
}
