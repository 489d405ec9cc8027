package intervention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/groupflow/sage/internal/baseline"
	"github.com/groupflow/sage/internal/cognitive"
)

// Type is the facilitation action a decision recommends.
type Type string

const (
	TypeClarification Type = "clarification"
	TypePerspective   Type = "perspective"
	TypeSummary       Type = "summary"
	TypeEncouragement Type = "encouragement"
	TypeNone          Type = "none"
)

// Decision is the engine's verdict for one segment. Created fresh per
// segment and never persisted here.
type Decision struct {
	Needed   bool    `json:"needed"`
	Type     Type    `json:"type"`
	Priority float64 `json:"priority"`
	Reason   string  `json:"reason,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// SpeakerState pairs a cognitive state with the speaker it belongs to.
type SpeakerState struct {
	Speaker string          `json:"speaker"`
	State   cognitive.State `json:"state"`
}

// Thresholds are the rule trigger levels.
type Thresholds struct {
	Confusion        float64
	Stagnation       float64
	LowUnderstanding float64
	DominantShare    float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Confusion:        0.6,
		Stagnation:       0.7,
		LowUnderstanding: 0.4,
		DominantShare:    0.7,
	}
}

type evalInput struct {
	metrics baseline.Metrics
	states  []SpeakerState
	counts  map[string]int
}

// rule is one predicate/action pair. Rules live in a fixed-order list
// rather than nested branching so the precedence stays auditable.
type rule struct {
	name string
	eval func(in evalInput) (Decision, bool)
}

// Engine evaluates the intervention rules in fixed priority order.
// The first matching rule wins; simultaneous triggers are deliberately
// not combined, to avoid flooding facilitators with compound alerts.
type Engine struct {
	rules    []rule
	composer Composer
	timeout  time.Duration
	logger   *slog.Logger
}

func NewEngine(th Thresholds, composer Composer, timeout time.Duration, logger *slog.Logger) *Engine {
	e := &Engine{
		composer: composer,
		timeout:  timeout,
		logger:   logger,
	}

	e.rules = []rule{
		{
			name: "high_confusion",
			eval: func(in evalInput) (Decision, bool) {
				if in.metrics.Confusion <= th.Confusion {
					return Decision{}, false
				}
				return Decision{
					Needed:   true,
					Type:     TypeClarification,
					Priority: in.metrics.Confusion,
					Reason:   fmt.Sprintf("high confusion detected (M=%.2f)", in.metrics.Confusion),
				}, true
			},
		},
		{
			name: "stagnation",
			eval: func(in evalInput) (Decision, bool) {
				if in.metrics.Stagnation <= th.Stagnation {
					return Decision{}, false
				}
				return Decision{
					Needed:   true,
					Type:     TypePerspective,
					Priority: in.metrics.Stagnation,
					Reason:   fmt.Sprintf("discussion is stagnating (T=%.2f)", in.metrics.Stagnation),
				}, true
			},
		},
		{
			name: "low_understanding",
			eval: func(in evalInput) (Decision, bool) {
				minU := 1.0
				struggling := 0
				for _, s := range in.states {
					if s.State.UnderstandingLevel < th.LowUnderstanding {
						struggling++
					}
					if s.State.UnderstandingLevel < minU {
						minU = s.State.UnderstandingLevel
					}
				}
				if struggling == 0 {
					return Decision{}, false
				}
				return Decision{
					Needed:   true,
					Type:     TypeSummary,
					Priority: 1.0 - minU,
					Reason: fmt.Sprintf("%d participant(s) showing low understanding (min=%.2f)",
						struggling, minU),
				}, true
			},
		},
		{
			name: "unanswered_questions",
			eval: func(in evalInput) (Decision, bool) {
				n := in.metrics.UnmatchedQuestions
				if n <= 0 {
					return Decision{}, false
				}
				return Decision{
					Needed:   true,
					Type:     TypeEncouragement,
					Priority: 0.5 + 0.1*float64(n),
					Reason:   fmt.Sprintf("%d question(s) left unanswered", n),
				}, true
			},
		},
		{
			name: "dominant_speaker",
			eval: func(in evalInput) (Decision, bool) {
				total := 0
				maxCount := 0
				dominant := ""
				for speaker, c := range in.counts {
					total += c
					if c > maxCount {
						maxCount = c
						dominant = speaker
					}
				}
				// A lone speaker is not imbalance; the rule needs at
				// least two participants in the segment.
				if total == 0 || len(in.counts) < 2 {
					return Decision{}, false
				}
				share := float64(maxCount) / float64(total)
				if share < th.DominantShare {
					return Decision{}, false
				}
				return Decision{
					Needed:   true,
					Type:     TypeEncouragement,
					Priority: share,
					Reason: fmt.Sprintf("speaker %q produced %.0f%% of utterances",
						dominant, share*100),
				}, true
			},
		},
	}

	return e
}

// Decide runs the rules against one segment. The decision fields are
// fully computed before message composition is attempted, so a slow or
// failing composer can never change what fired.
func (e *Engine) Decide(ctx context.Context, m baseline.Metrics, states []SpeakerState, speakerCounts map[string]int, transcript string) Decision {
	in := evalInput{metrics: m, states: states, counts: speakerCounts}

	for _, r := range e.rules {
		d, ok := r.eval(in)
		if !ok {
			continue
		}
		d.Priority = clamp01(d.Priority)
		d.Message = e.composeMessage(ctx, d, transcript)
		e.logger.Info("intervention recommended",
			"rule", r.name,
			"type", string(d.Type),
			"priority", d.Priority,
		)
		return d
	}

	return Decision{Needed: false, Type: TypeNone}
}

// composeMessage asks the composer for a natural-language message,
// bounded by the engine timeout. Any failure degrades to the per-type
// template; composition never blocks or fails the decision.
func (e *Engine) composeMessage(ctx context.Context, d Decision, transcript string) string {
	if e.composer == nil {
		return FallbackMessage(d.Type)
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	msg, err := e.composer.Compose(cctx, d.Type, d.Reason, transcript)
	if err != nil {
		e.logger.Warn("message composition failed, using fallback",
			"type", string(d.Type),
			"error", err,
		)
		return FallbackMessage(d.Type)
	}
	return msg
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
