package features

import (
	"strings"
	"unicode"

	"github.com/groupflow/sage/internal/baseline"
)

const (
	// durationEpsilon guards the speech-rate division against zero or
	// negative utterance spans from malformed timestamps.
	durationEpsilon = 0.25

	// maxSpeechRate caps the chars-per-second proxy; anything above
	// this is a timestamping artifact, not fast speech.
	maxSpeechRate = 40.0
)

// Vector is the per-utterance surface-marker profile fed to the
// cognitive state estimator. Derived, never persisted; recomputed per
// utterance.
type Vector struct {
	SpeechRateProxy    float64 `json:"speech_rate_proxy"`
	HesitationMarkers  int     `json:"hesitation_marker_count"`
	HedgeMarkers       int     `json:"hedge_marker_count"`
	SoftenerMarkers    int     `json:"softener_marker_count"`
	ExplanationMarkers int     `json:"explanation_marker_count"`
	QuestionMarkers    int     `json:"question_marker_count"`
	LengthChars        int     `json:"length_chars"`
}

// Extractor scans utterance text against the configured marker
// lexicons. Pure: no side effects, never fails; malformed input
// yields a zero vector.
type Extractor struct {
	lexicon Lexicon
}

func NewExtractor(lexicon Lexicon) *Extractor {
	return &Extractor{lexicon: lexicon.normalized()}
}

// Extract computes the feature vector for one utterance.
func (e *Extractor) Extract(u baseline.Utterance) Vector {
	text := strings.TrimSpace(u.Text)
	if text == "" {
		return Vector{}
	}

	lower := strings.ToLower(text)
	words := splitWords(lower)
	length := countNonSpace(text)

	duration := u.Duration()
	if duration < durationEpsilon {
		duration = durationEpsilon
	}
	rate := float64(length) / duration
	if rate > maxSpeechRate {
		rate = maxSpeechRate
	}

	return Vector{
		SpeechRateProxy:    rate,
		HesitationMarkers:  countMarkers(lower, words, e.lexicon.Hesitations),
		HedgeMarkers:       countMarkers(lower, words, e.lexicon.Hedges),
		SoftenerMarkers:    countMarkers(lower, words, e.lexicon.Softeners),
		ExplanationMarkers: countMarkers(lower, words, e.lexicon.Explanations),
		QuestionMarkers:    countMarkers(lower, words, e.lexicon.Questions),
		LengthChars:        length,
	}
}

// countMarkers counts lexicon hits in the utterance. Single-word
// markers match whole words only ("um" must not match "summary");
// phrases and punctuation markers match as substrings.
func countMarkers(lower string, words []string, markers []string) int {
	total := 0
	for _, m := range markers {
		if m == "" {
			continue
		}
		if isSingleWord(m) {
			for _, w := range words {
				if w == m {
					total++
				}
			}
		} else {
			total += strings.Count(lower, m)
		}
	}
	return total
}

func isSingleWord(m string) bool {
	for _, r := range m {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(m) > 0
}

func splitWords(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func countNonSpace(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
