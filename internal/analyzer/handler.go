package analyzer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/groupflow/sage/internal/bus"
)

// Publisher is the outbound side of the message bus.
type Publisher interface {
	Publish(subject string, data any) error
}

// Suggestion is the payload published when a segment warrants an
// intervention.
type Suggestion struct {
	ResultID  string  `json:"result_id"`
	SessionID string  `json:"session_id"`
	SegmentID int     `json:"segment_id"`
	Type      string  `json:"type"`
	Priority  float64 `json:"priority"`
	Reason    string  `json:"reason"`
	Message   string  `json:"message"`
	Health    float64 `json:"health"`
}

// Handler consumes segment-ready events and republishes intervention
// suggestions.
type Handler struct {
	analyzer *Analyzer
	pub      Publisher
}

func NewHandler(analyzer *Analyzer, pub Publisher) *Handler {
	return &Handler{analyzer: analyzer, pub: pub}
}

// HandleSegmentReady is the subscription callback for
// discussion.segment.ready. Malformed payloads and analysis failures
// are logged and dropped; the bus is at-most-once here.
func (h *Handler) HandleSegmentReady(subject string, data []byte) {
	var req SegmentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.analyzer.logger.Warn("bad segment payload", "subject", subject, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := h.analyzer.Analyze(ctx, req)
	if err != nil {
		h.analyzer.logger.Error("segment analysis failed",
			"session_id", req.SessionID,
			"segment_id", req.SegmentID,
			"error", err,
		)
		return
	}

	if !result.Decision.Needed {
		return
	}

	s := Suggestion{
		ResultID:  result.ResultID.String(),
		SessionID: result.SessionID,
		SegmentID: result.SegmentID,
		Type:      string(result.Decision.Type),
		Priority:  result.Decision.Priority,
		Reason:    result.Decision.Reason,
		Message:   result.Decision.Message,
		Health:    result.Health.Score,
	}
	if err := h.pub.Publish(bus.SubjectInterventionSuggested, s); err != nil {
		h.analyzer.logger.Error("failed to publish suggestion", "error", err)
	}
}
