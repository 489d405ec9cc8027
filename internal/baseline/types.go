package baseline

// Utterance is one speaker turn inside a discussion segment. Immutable
// once submitted; Text may be empty (the upstream classifier treats
// that as a silence marker).
type Utterance struct {
	ID       string  `json:"utterance_id"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Speaker  string  `json:"speaker"`
	Text     string  `json:"text"`
}

// Duration returns the utterance length in seconds. Negative spans
// from malformed input are reported as-is; callers clamp.
func (u Utterance) Duration() float64 {
	return u.EndSec - u.StartSec
}

// Metrics carries the segment-level discourse scalars and event counts
// produced by the upstream classifier. Q/A/R/S/X are Question, Answer,
// Rebuttal, Silence and Interruption event counts. Treated as
// read-only input everywhere in this service.
type Metrics struct {
	Confusion          float64 `json:"M"`
	Stagnation         float64 `json:"T"`
	Understanding      float64 `json:"L"`
	Questions          int     `json:"Q"`
	Answers            int     `json:"A"`
	Rebuttals          int     `json:"R"`
	Silences           int     `json:"S"`
	Interruptions      int     `json:"X"`
	UnmatchedQuestions int     `json:"unmatched_questions"`
}
