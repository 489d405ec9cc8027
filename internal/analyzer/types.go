package analyzer

import (
	"time"

	"github.com/google/uuid"

	"github.com/groupflow/sage/internal/baseline"
	"github.com/groupflow/sage/internal/cognitive"
	"github.com/groupflow/sage/internal/features"
	"github.com/groupflow/sage/internal/health"
	"github.com/groupflow/sage/internal/intervention"
	"github.com/groupflow/sage/internal/predict"
)

// SegmentRequest is one segment of discussion to analyze. Base carries
// pre-computed segment metrics when the caller already has them;
// leaving it nil makes the analyzer fetch metrics from the base
// analysis service.
type SegmentRequest struct {
	SessionID  string               `json:"session_id"`
	SegmentID  int                  `json:"segment_id"`
	StartSec   float64              `json:"start_sec"`
	EndSec     float64              `json:"end_sec"`
	Utterances []baseline.Utterance `json:"utterances"`
	TopicTags  []string             `json:"topic_tags,omitempty"`

	// NewSessionParticipants lists speakers for whom this segment is
	// the first of a new session. Session boundaries are signalled by
	// the caller, never inferred.
	NewSessionParticipants []string `json:"new_session_participants,omitempty"`

	Base *baseline.Metrics `json:"base,omitempty"`
}

// SpeakerState is the per-utterance analysis output: the extracted
// surface features and the cognitive state estimated from them.
type SpeakerState struct {
	UtteranceID string          `json:"utterance_id"`
	Speaker     string          `json:"speaker"`
	Features    features.Vector `json:"features"`
	State       cognitive.State `json:"state"`
}

// IntegratedResult is the full per-segment analysis bundle. Ownership
// passes to the caller; nothing here is retained by the analyzer.
type IntegratedResult struct {
	ResultID    uuid.UUID                     `json:"result_id"`
	SessionID   string                        `json:"session_id"`
	SegmentID   int                           `json:"segment_id"`
	Metrics     baseline.Metrics              `json:"metrics"`
	States      []SpeakerState                `json:"states"`
	Predictions map[string]predict.Prediction `json:"predictions"`
	Decision    intervention.Decision         `json:"decision"`
	Health      health.Stats                  `json:"health"`
	AnalyzedAt  time.Time                     `json:"analyzed_at"`
}
