package predict

import (
	"math"
	"strings"
	"testing"

	"github.com/groupflow/sage/internal/profile"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		ParticipantID: "alice",
		AvgHesitation: 0.3,
		TopicDifficulty: map[string]profile.TopicStat{
			"pricing":   {AvgDifficulty: 0.8, Observations: 5},
			"logistics": {AvgDifficulty: 0.2, Observations: 3},
			"stale":     {AvgDifficulty: 0.9, Observations: 0},
		},
	}
}

func TestPredict_MaximumDominates(t *testing.T) {
	got := Predict(testProfile(), []string{"logistics", "pricing"})

	if math.Abs(got.ExpectedDifficulty-0.8) > 0.001 {
		t.Errorf("expected difficulty 0.8 (hardest known topic), got %f", got.ExpectedDifficulty)
	}
	if !strings.Contains(got.Rationale, "pricing") {
		t.Errorf("rationale should name the dominating topic: %q", got.Rationale)
	}
}

func TestPredict_UnknownTopicUsesHesitationPrior(t *testing.T) {
	got := Predict(testProfile(), []string{"governance"})

	if math.Abs(got.ExpectedDifficulty-0.3) > 0.001 {
		t.Errorf("expected prior 0.3, got %f", got.ExpectedDifficulty)
	}
	if !strings.Contains(got.Rationale, "prior") {
		t.Errorf("rationale should mention the prior: %q", got.Rationale)
	}
}

func TestPredict_ZeroObservationTopicTreatedAsUnknown(t *testing.T) {
	got := Predict(testProfile(), []string{"stale"})

	if math.Abs(got.ExpectedDifficulty-0.3) > 0.001 {
		t.Errorf("topic with zero observations should fall back to prior, got %f", got.ExpectedDifficulty)
	}
}

func TestPredict_KnownEasyTopicBeatsNothing(t *testing.T) {
	// An unknown tag's prior (0.3) outranks a known easy topic (0.2).
	got := Predict(testProfile(), []string{"logistics", "governance"})

	if math.Abs(got.ExpectedDifficulty-0.3) > 0.001 {
		t.Errorf("expected 0.3, got %f", got.ExpectedDifficulty)
	}
}

func TestPredict_NoTags(t *testing.T) {
	got := Predict(testProfile(), nil)

	if math.Abs(got.ExpectedDifficulty-0.3) > 0.001 {
		t.Errorf("expected hesitation prior 0.3, got %f", got.ExpectedDifficulty)
	}
}

func TestPredict_NilProfile(t *testing.T) {
	got := Predict(nil, []string{"pricing"})

	if got.ExpectedDifficulty != 0.5 {
		t.Errorf("expected neutral 0.5 for missing profile, got %f", got.ExpectedDifficulty)
	}
}

func TestPredict_DifficultyInRange(t *testing.T) {
	p := &profile.Profile{
		AvgHesitation: 7.5, // corrupted input
		TopicDifficulty: map[string]profile.TopicStat{
			"x": {AvgDifficulty: -2.0, Observations: 1},
		},
	}

	for _, tags := range [][]string{{"x"}, {"y"}, nil} {
		got := Predict(p, tags)
		if got.ExpectedDifficulty < 0 || got.ExpectedDifficulty > 1 {
			t.Errorf("difficulty out of range for tags %v: %f", tags, got.ExpectedDifficulty)
		}
	}
}
