package cognitive

import (
	"github.com/groupflow/sage/internal/features"
)

// Label is the discrete summary of a speaker's momentary state.
type Label string

const (
	LabelConfident Label = "confident"
	LabelHesitant  Label = "hesitant"
	LabelConfused  Label = "confused"
	LabelEngaged   Label = "engaged"
)

// State is the estimated cognitive state for one utterance. All levels
// are in [0,1].
type State struct {
	ConfidenceLevel    float64 `json:"confidence_level"`
	UnderstandingLevel float64 `json:"understanding_level"`
	HesitationLevel    float64 `json:"hesitation_level"`
	EngagementLevel    float64 `json:"engagement_level"`
	Label              Label   `json:"state_label"`
}

// Fixed weights for the level formulas. These are the model; changing
// them changes every downstream decision, so they are constants rather
// than configuration.
const (
	hesitationPerFiller   = 0.1
	hesitationPerHedge    = 0.1
	hesitationPerSoftener = 0.1
	slowSpeechPenalty     = 0.3

	understandingBase           = 0.6
	understandingPerExplanation = 0.15
	understandingPerQuestion    = 0.15
	understandingPerHedge       = 0.1
	maxExplanationCredit        = 2

	engagementBase      = 0.5
	longUtteranceBonus  = 0.3
	shortUtterancePenal = 0.3
)

// Config holds the label thresholds and the slow-speech cutoff.
type Config struct {
	SlowSpeechRate      float64 // chars/sec below which delivery counts as slow
	ConfusionHesitation float64 // hesitation above this, with low understanding, reads as confusion
	LowUnderstanding    float64
	Hesitancy           float64
	Engagement          float64
	LongUtterance       int // chars
	ShortUtterance      int // chars
}

func DefaultConfig() Config {
	return Config{
		SlowSpeechRate:      6.0,
		ConfusionHesitation: 0.5,
		LowUnderstanding:    0.4,
		Hesitancy:           0.6,
		Engagement:          0.7,
		LongUtterance:       120,
		ShortUtterance:      20,
	}
}

// Estimator maps a feature vector to a cognitive state. Deterministic,
// no failure modes: invalid feature values are clamped before use.
type Estimator struct {
	cfg Config
}

func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate computes the four level scores and picks the label. Label
// ties break in fixed order: confused > hesitant > engaged > confident.
// The ordering is load-bearing for reproducibility across runs.
func (e *Estimator) Estimate(v features.Vector) State {
	v = sanitize(v)

	hesitation := hesitationPerFiller*float64(v.HesitationMarkers) +
		hesitationPerHedge*float64(v.HedgeMarkers) +
		hesitationPerSoftener*float64(v.SoftenerMarkers)
	if v.LengthChars > 0 && v.SpeechRateProxy < e.cfg.SlowSpeechRate {
		hesitation += slowSpeechPenalty
	}
	hesitation = clamp01(hesitation)

	confidence := clamp01(1.0 - hesitation)

	explanations := v.ExplanationMarkers
	if explanations > maxExplanationCredit {
		explanations = maxExplanationCredit
	}
	understanding := clamp01(understandingBase +
		understandingPerExplanation*float64(explanations) -
		understandingPerQuestion*float64(v.QuestionMarkers) -
		understandingPerHedge*float64(v.HedgeMarkers))

	engagement := engagementBase
	switch {
	case v.LengthChars > e.cfg.LongUtterance:
		engagement += longUtteranceBonus
	case v.LengthChars > 0 && v.LengthChars < e.cfg.ShortUtterance:
		engagement -= shortUtterancePenal
	}
	engagement = clamp01(engagement)

	var label Label
	switch {
	case hesitation > e.cfg.ConfusionHesitation && understanding < e.cfg.LowUnderstanding:
		label = LabelConfused
	case hesitation > e.cfg.Hesitancy:
		label = LabelHesitant
	case engagement > e.cfg.Engagement:
		label = LabelEngaged
	default:
		label = LabelConfident
	}

	return State{
		ConfidenceLevel:    confidence,
		UnderstandingLevel: understanding,
		HesitationLevel:    hesitation,
		EngagementLevel:    engagement,
		Label:              label,
	}
}

// sanitize clamps adversarial feature values before scoring.
func sanitize(v features.Vector) features.Vector {
	if v.HesitationMarkers < 0 {
		v.HesitationMarkers = 0
	}
	if v.HedgeMarkers < 0 {
		v.HedgeMarkers = 0
	}
	if v.SoftenerMarkers < 0 {
		v.SoftenerMarkers = 0
	}
	if v.ExplanationMarkers < 0 {
		v.ExplanationMarkers = 0
	}
	if v.QuestionMarkers < 0 {
		v.QuestionMarkers = 0
	}
	if v.LengthChars < 0 {
		v.LengthChars = 0
	}
	if v.SpeechRateProxy < 0 {
		v.SpeechRateProxy = 0
	}
	return v
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
