package minutes

import (
	"strings"
	"testing"
	"time"

	"github.com/groupflow/sage/internal/analyzer"
	"github.com/groupflow/sage/internal/baseline"
	"github.com/groupflow/sage/internal/cognitive"
	"github.com/groupflow/sage/internal/health"
	"github.com/groupflow/sage/internal/intervention"
)

func fixedGenerator() *Generator {
	return &Generator{now: func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	}}
}

func sampleResult() *analyzer.IntegratedResult {
	return &analyzer.IntegratedResult{
		SessionID: "s-42",
		SegmentID: 3,
		Metrics:   baseline.Metrics{Confusion: 0.65, Stagnation: 0.2, Understanding: 0.5},
		Health:    health.Stats{Score: 0.55},
		Decision: intervention.Decision{
			Needed:   true,
			Type:     intervention.TypeClarification,
			Priority: 0.65,
			Reason:   "high confusion detected (M=0.65)",
			Message:  "Could someone restate the open question?",
		},
		States: []analyzer.SpeakerState{
			{Speaker: "alice", State: cognitive.State{UnderstandingLevel: 0.3, HesitationLevel: 0.7}},
			{Speaker: "bob", State: cognitive.State{UnderstandingLevel: 0.8, HesitationLevel: 0.1}},
			{Speaker: "alice", State: cognitive.State{UnderstandingLevel: 0.6, HesitationLevel: 0.2}},
		},
	}
}

func sampleUtterances() []baseline.Utterance {
	return []baseline.Utterance{
		{Speaker: "alice", Text: "um, what exactly are we deciding?"},
		{Speaker: "bob", Text: "whether to ship this quarter or next."},
		{Speaker: "alice", Text: "right, that makes sense now."},
	}
}

func TestGenerate_Sections(t *testing.T) {
	md := fixedGenerator().Generate("Planning Sync", sampleUtterances(), sampleResult())

	for _, want := range []string{
		"# Minutes: Planning Sync",
		"**Session**: `s-42`",
		"**Generated**: 2026-03-14 09:30 UTC",
		"## Discussion Health",
		"**Overall score**: 55% (fair)",
		"| Confusion | 65% |",
		"## Facilitation Suggestion",
		"**Type**: clarification",
		"> Could someone restate the open question?",
		"## Utterance Log",
		"### 1. alice",
		"## Participant Understanding",
		"## Possible Misunderstandings",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("minutes missing %q", want)
		}
	}
}

func TestGenerate_UnderstandingTrend(t *testing.T) {
	md := fixedGenerator().Generate("t", sampleUtterances(), sampleResult())

	// alice goes 0.3 -> 0.6, bob has a single sample.
	if !strings.Contains(md, "- **alice**: avg 45%, rising") {
		t.Errorf("expected rising trend for alice, got:\n%s", md)
	}
	if !strings.Contains(md, "- **bob**: avg 80%, steady") {
		t.Errorf("expected steady trend for bob, got:\n%s", md)
	}
}

func TestGenerate_FlagsLowUnderstanding(t *testing.T) {
	md := fixedGenerator().Generate("t", sampleUtterances(), sampleResult())

	// Only alice's first utterance falls below the thresholds.
	idx := strings.Index(md, "## Possible Misunderstandings")
	section := md[idx:]
	if !strings.Contains(section, "### 1. alice") {
		t.Error("expected alice's first utterance flagged")
	}
	if strings.Contains(section, "### 2. bob") {
		t.Error("bob should not be flagged")
	}
	if strings.Contains(section, "No comprehension gaps") {
		t.Error("gap notice should be absent when something is flagged")
	}
}

func TestGenerate_CleanSegment(t *testing.T) {
	result := sampleResult()
	result.Decision = intervention.Decision{Needed: false, Type: intervention.TypeNone}
	result.States = []analyzer.SpeakerState{
		{Speaker: "alice", State: cognitive.State{UnderstandingLevel: 0.9, HesitationLevel: 0.1}},
	}

	md := fixedGenerator().Generate("t", sampleUtterances()[:1], result)

	if strings.Contains(md, "## Facilitation Suggestion") {
		t.Error("no suggestion section expected when no intervention fired")
	}
	if !strings.Contains(md, "No comprehension gaps detected.") {
		t.Error("expected the clean-segment notice")
	}
}
