// Package analyzer sequences the full per-segment pipeline: base
// metrics, feature extraction, cognitive estimation, profile
// absorption, difficulty prediction, the intervention decision and the
// health score.
package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/groupflow/sage/internal/baseline"
	"github.com/groupflow/sage/internal/cognitive"
	"github.com/groupflow/sage/internal/features"
	"github.com/groupflow/sage/internal/health"
	"github.com/groupflow/sage/internal/intervention"
	"github.com/groupflow/sage/internal/predict"
	"github.com/groupflow/sage/internal/profile"
)

// BaseAnalyzer fetches segment-level discourse metrics from the base
// analysis service.
type BaseAnalyzer interface {
	AnalyzeSegment(ctx context.Context, sessionID string, segmentID int, startSec, endSec float64, utterances []baseline.Utterance) (*baseline.Metrics, error)
}

type Analyzer struct {
	base      BaseAnalyzer
	extractor *features.Extractor
	estimator *cognitive.Estimator
	profiles  *profile.Store
	engine    *intervention.Engine
	weights   health.Weights
	logger    *slog.Logger

	absorbs sync.WaitGroup
}

func New(base BaseAnalyzer, extractor *features.Extractor, estimator *cognitive.Estimator, profiles *profile.Store, engine *intervention.Engine, weights health.Weights, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		base:      base,
		extractor: extractor,
		estimator: estimator,
		profiles:  profiles,
		engine:    engine,
		weights:   weights,
		logger:    logger,
	}
}

// Analyze runs the pipeline for one segment. The only failure it can
// return is the base analysis call; every later stage degrades instead
// of failing. Profile absorption happens in the background and does
// not delay the result.
func (a *Analyzer) Analyze(ctx context.Context, req SegmentRequest) (*IntegratedResult, error) {
	metrics := req.Base
	if metrics == nil {
		m, err := a.base.AnalyzeSegment(ctx, req.SessionID, req.SegmentID, req.StartSec, req.EndSec, req.Utterances)
		if err != nil {
			return nil, err
		}
		metrics = m
	}

	states := make([]SpeakerState, 0, len(req.Utterances))
	cogStates := make([]cognitive.State, 0, len(req.Utterances))
	speakerCounts := make(map[string]int, 4)
	for _, u := range req.Utterances {
		v := a.extractor.Extract(u)
		st := a.estimator.Estimate(v)
		states = append(states, SpeakerState{
			UtteranceID: u.ID,
			Speaker:     u.Speaker,
			Features:    v,
			State:       st,
		})
		cogStates = append(cogStates, st)
		speakerCounts[u.Speaker]++
	}

	predictions := a.predictAll(ctx, speakerCounts, req.TopicTags)

	a.absorbAsync(req, states)

	engineStates := make([]intervention.SpeakerState, len(states))
	for i, s := range states {
		engineStates[i] = intervention.SpeakerState{Speaker: s.Speaker, State: s.State}
	}

	decision := a.engine.Decide(ctx, *metrics, engineStates, speakerCounts, transcript(req.Utterances))
	stats := health.Aggregate(a.weights, *metrics, cogStates)

	a.logger.Info("segment analyzed",
		"session_id", req.SessionID,
		"segment_id", req.SegmentID,
		"utterances", len(req.Utterances),
		"health", stats.Score,
		"intervention", string(decision.Type),
	)

	return &IntegratedResult{
		ResultID:    uuid.New(),
		SessionID:   req.SessionID,
		SegmentID:   req.SegmentID,
		Metrics:     *metrics,
		States:      states,
		Predictions: predictions,
		Decision:    decision,
		Health:      stats,
		AnalyzedAt:  time.Now().UTC(),
	}, nil
}

// predictAll snapshots each speaker's profile and predicts segment
// difficulty for them. Snapshots are taken before this segment's
// observations are absorbed.
func (a *Analyzer) predictAll(ctx context.Context, speakerCounts map[string]int, topicTags []string) map[string]predict.Prediction {
	predictions := make(map[string]predict.Prediction, len(speakerCounts))
	for speaker := range speakerCounts {
		p, err := a.profiles.Snapshot(ctx, speaker)
		if err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
			a.logger.Warn("profile snapshot failed", "participant", speaker, "error", err)
			p = nil
		}
		predictions[speaker] = predict.Predict(p, topicTags)
	}
	return predictions
}

// absorbAsync folds the segment's observations into participant
// profiles without blocking the response. The first observation of a
// speaker named in NewSessionParticipants carries the session
// boundary.
func (a *Analyzer) absorbAsync(req SegmentRequest, states []SpeakerState) {
	boundaries := make(map[string]bool, len(req.NewSessionParticipants))
	for _, p := range req.NewSessionParticipants {
		boundaries[p] = true
	}

	a.absorbs.Add(1)
	go func() {
		defer a.absorbs.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for _, s := range states {
			boundary := boundaries[s.Speaker]
			boundaries[s.Speaker] = false
			if err := a.profiles.Absorb(ctx, s.Speaker, s.State, req.TopicTags, boundary); err != nil {
				a.logger.Warn("profile absorb failed",
					"participant", s.Speaker,
					"utterance_id", s.UtteranceID,
					"error", err,
				)
			}
		}
	}()
}

// Wait blocks until in-flight profile absorptions finish. Called on
// shutdown so updates are not lost.
func (a *Analyzer) Wait() {
	a.absorbs.Wait()
}

func transcript(utterances []baseline.Utterance) string {
	var b strings.Builder
	for _, u := range utterances {
		if u.Text == "" {
			continue
		}
		b.WriteString(u.Speaker)
		b.WriteString(": ")
		b.WriteString(u.Text)
		b.WriteString("\n")
	}
	return b.String()
}
