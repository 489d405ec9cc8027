package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/groupflow/sage/internal/analyzer"
	"github.com/groupflow/sage/internal/baseline"
	"github.com/groupflow/sage/internal/insights"
	"github.com/groupflow/sage/internal/profile"
)

// InsightsRequest carries a whole session for summarization. Results
// from earlier segment analyses are supplied by the caller; the
// service keeps no session history of its own.
type InsightsRequest struct {
	SessionID  string                      `json:"session_id"`
	Utterances []baseline.Utterance        `json:"utterances"`
	Results    []analyzer.IntegratedResult `json:"results,omitempty"`
}

// MinutesRequest renders one analyzed segment as Markdown minutes.
type MinutesRequest struct {
	Title      string                     `json:"title"`
	Utterances []baseline.Utterance       `json:"utterances"`
	Result     *analyzer.IntegratedResult `json:"result"`
}

// analyzeSegment handles POST /api/v1/segments/analyze.
func (s *Server) analyzeSegment(w http.ResponseWriter, r *http.Request) {
	var req analyzer.SegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.logger.Error("segment analysis failed",
			"session_id", req.SessionID,
			"segment_id", req.SegmentID,
			"error", err,
		)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("base analysis failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// participantProfile handles GET /api/v1/participants/{id}/profile.
func (s *Server) participantProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.profiles.Snapshot(r.Context(), id)
	if errors.Is(err, profile.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no profile for participant %q", id))
		return
	}
	if err != nil {
		s.logger.Error("profile lookup failed", "participant", id, "error", err)
		writeError(w, http.StatusInternalServerError, "profile lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// sessionInsights handles POST /api/v1/sessions/insights.
func (s *Server) sessionInsights(w http.ResponseWriter, r *http.Request) {
	var req InsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	writeJSON(w, http.StatusOK, insights.Build(req.SessionID, req.Utterances, req.Results))
}

// generateMinutes handles POST /api/v1/minutes.
func (s *Server) generateMinutes(w http.ResponseWriter, r *http.Request) {
	var req MinutesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.Result == nil {
		writeError(w, http.StatusBadRequest, "result is required")
		return
	}
	if req.Title == "" {
		req.Title = req.Result.SessionID
	}

	md := s.minutes.Generate(req.Title, req.Utterances, req.Result)

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(md))
}
