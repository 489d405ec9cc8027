package predict

import (
	"fmt"

	"github.com/groupflow/sage/internal/profile"
)

// Prediction estimates how hard the current segment's topics will be
// for one participant.
type Prediction struct {
	ExpectedDifficulty float64 `json:"expected_difficulty"`
	Rationale          string  `json:"rationale"`
}

// Predict looks each topic tag up in the profile's difficulty map and
// aggregates by maximum: a single known weak area is enough to warrant
// support, even when the other tags are unfamiliar-but-easy. Tags with
// no history fall back to the profile's average hesitation as a prior.
func Predict(p *profile.Profile, topicTags []string) Prediction {
	if p == nil {
		return Prediction{
			ExpectedDifficulty: 0.5,
			Rationale:          "no profile history; neutral prior",
		}
	}

	prior := clamp01(p.AvgHesitation)

	if len(topicTags) == 0 {
		return Prediction{
			ExpectedDifficulty: prior,
			Rationale:          fmt.Sprintf("no topic tags; overall hesitation prior %.2f", prior),
		}
	}

	best := -1.0
	bestTag := ""
	bestKnown := false
	for _, tag := range topicTags {
		d := prior
		known := false
		if ts, ok := p.TopicDifficulty[tag]; ok && ts.Observations > 0 {
			d = clamp01(ts.AvgDifficulty)
			known = true
		}
		if d > best {
			best = d
			bestTag = tag
			bestKnown = known
		}
	}

	if bestKnown {
		return Prediction{
			ExpectedDifficulty: best,
			Rationale: fmt.Sprintf("participant previously averaged difficulty %.2f on topic %q",
				best, bestTag),
		}
	}
	return Prediction{
		ExpectedDifficulty: best,
		Rationale: fmt.Sprintf("no history for topic %q; overall hesitation prior %.2f",
			bestTag, best),
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
