// Package health folds segment-level metrics and cognitive states into
// a single discussion health score in [0, 1]. Higher is healthier.
package health

import (
	"github.com/groupflow/sage/internal/baseline"
	"github.com/groupflow/sage/internal/cognitive"
)

// Weights control how much each signal moves the score.
type Weights struct {
	Confusion     float64
	Stagnation    float64
	Understanding float64
}

func DefaultWeights() Weights {
	return Weights{Confusion: 0.5, Stagnation: 0.5, Understanding: 0.2}
}

// Stats summarizes one scored segment.
type Stats struct {
	Score             float64 `json:"score"`
	MeanConfidence    float64 `json:"mean_confidence"`
	MeanUnderstanding float64 `json:"mean_understanding"`
	MeanHesitation    float64 `json:"mean_hesitation"`
	MeanEngagement    float64 `json:"mean_engagement"`
}

// Aggregate computes the health score for a segment. An empty segment
// reads as neutral: cognitive means default to 0.5 rather than zero so
// silence is not reported as a crisis.
func Aggregate(w Weights, m baseline.Metrics, states []cognitive.State) Stats {
	meanConf, meanUnd, meanHes, meanEng := 0.5, 0.5, 0.5, 0.5
	if len(states) > 0 {
		var conf, und, hes, eng float64
		for _, s := range states {
			conf += s.ConfidenceLevel
			und += s.UnderstandingLevel
			hes += s.HesitationLevel
			eng += s.EngagementLevel
		}
		n := float64(len(states))
		meanConf, meanUnd, meanHes, meanEng = conf/n, und/n, hes/n, eng/n
	}

	score := 1.0 - w.Confusion*m.Confusion - w.Stagnation*m.Stagnation + w.Understanding*m.Understanding

	return Stats{
		Score:             clamp01(score),
		MeanConfidence:    meanConf,
		MeanUnderstanding: meanUnd,
		MeanHesitation:    meanHes,
		MeanEngagement:    meanEng,
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
