package profile

import "errors"

// ErrProfileNotFound signals an unknown participant. Callers must be
// able to tell "new participant" apart from "participant with all-zero
// history", so snapshot never fabricates an empty profile.
var ErrProfileNotFound = errors.New("participant profile not found")

// TopicStat is the running difficulty average for a single topic tag.
type TopicStat struct {
	AvgDifficulty float64 `json:"avg_difficulty"`
	Observations  int     `json:"observations"`
}

// Profile is the longitudinal per-participant aggregate, built up one
// cognitive-state observation at a time across sessions. Owned
// exclusively by the Store; mutate only through Absorb.
type Profile struct {
	ParticipantID     string               `json:"participant_id"`
	SessionCount      int                  `json:"session_count"`
	UtteranceCount    int                  `json:"utterance_count"`
	AvgConfidence     float64              `json:"avg_confidence"`
	AvgUnderstanding  float64              `json:"avg_understanding"`
	AvgHesitation     float64              `json:"avg_hesitation"`
	ContributionStyle string               `json:"contribution_style"`
	TopicDifficulty   map[string]TopicStat `json:"topic_difficulty"`
}

// Clone returns a deep copy. Snapshots hand out clones so callers can
// never reach back into stored state.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.TopicDifficulty = make(map[string]TopicStat, len(p.TopicDifficulty))
	for k, v := range p.TopicDifficulty {
		out.TopicDifficulty[k] = v
	}
	return &out
}
