// Package insights derives whole-session summaries from the utterance
// log and the per-segment analysis results: who spoke how much, which
// questions were picked up, how health evolved and who may have been
// left behind.
package insights

import (
	"sort"
	"strings"

	"github.com/groupflow/sage/internal/analyzer"
	"github.com/groupflow/sage/internal/baseline"
	"github.com/groupflow/sage/internal/intervention"
)

// answerWindowSec is how long after a question a reply from another
// speaker still counts as an answer.
const answerWindowSec = 30.0

// lowUnderstandingMean marks a participant as a comprehension gap when
// their session-wide mean understanding falls below it.
const lowUnderstandingMean = 0.4

type SpeakerStats struct {
	Speaker    string  `json:"speaker"`
	Utterances int     `json:"utterances"`
	Words      int     `json:"words"`
	AvgWords   float64 `json:"avg_words"`
	Questions  int     `json:"questions"`
	Share      float64 `json:"share"`
}

type InterventionRecord struct {
	SegmentID int               `json:"segment_id"`
	Type      intervention.Type `json:"type"`
	Priority  float64           `json:"priority"`
	Reason    string            `json:"reason"`
}

type Insights struct {
	SessionID         string               `json:"session_id"`
	Speakers          []SpeakerStats       `json:"speakers"`
	Questions         int                  `json:"questions"`
	AnsweredQuestions int                  `json:"answered_questions"`
	OpenQuestions     int                  `json:"open_questions"`
	HealthTrend       []float64            `json:"health_trend"`
	AvgHealth         float64              `json:"avg_health"`
	UnderstandingGaps []string             `json:"understanding_gaps"`
	Interventions     []InterventionRecord `json:"interventions"`
}

// Build computes session insights. Utterances are expected in
// chronological order; results in segment order.
func Build(sessionID string, utterances []baseline.Utterance, results []analyzer.IntegratedResult) Insights {
	ins := Insights{SessionID: sessionID}

	ins.Speakers = speakerStats(utterances)
	ins.Questions, ins.AnsweredQuestions = matchQuestions(utterances)
	ins.OpenQuestions = ins.Questions - ins.AnsweredQuestions

	understanding := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range results {
		ins.HealthTrend = append(ins.HealthTrend, r.Health.Score)
		ins.AvgHealth += r.Health.Score
		if r.Decision.Needed {
			ins.Interventions = append(ins.Interventions, InterventionRecord{
				SegmentID: r.SegmentID,
				Type:      r.Decision.Type,
				Priority:  r.Decision.Priority,
				Reason:    r.Decision.Reason,
			})
		}
		for _, s := range r.States {
			understanding[s.Speaker] += s.State.UnderstandingLevel
			counts[s.Speaker]++
		}
	}
	if len(results) > 0 {
		ins.AvgHealth /= float64(len(results))
	}

	for speaker, total := range understanding {
		if total/float64(counts[speaker]) < lowUnderstandingMean {
			ins.UnderstandingGaps = append(ins.UnderstandingGaps, speaker)
		}
	}
	sort.Strings(ins.UnderstandingGaps)

	return ins
}

func speakerStats(utterances []baseline.Utterance) []SpeakerStats {
	bySpeaker := make(map[string]*SpeakerStats)
	total := 0
	for _, u := range utterances {
		if u.Speaker == "" {
			continue
		}
		st, ok := bySpeaker[u.Speaker]
		if !ok {
			st = &SpeakerStats{Speaker: u.Speaker}
			bySpeaker[u.Speaker] = st
		}
		st.Utterances++
		st.Words += len(strings.Fields(u.Text))
		if isQuestion(u) {
			st.Questions++
		}
		total++
	}

	stats := make([]SpeakerStats, 0, len(bySpeaker))
	for _, st := range bySpeaker {
		if st.Utterances > 0 {
			st.AvgWords = float64(st.Words) / float64(st.Utterances)
		}
		if total > 0 {
			st.Share = float64(st.Utterances) / float64(total)
		}
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Utterances != stats[j].Utterances {
			return stats[i].Utterances > stats[j].Utterances
		}
		return stats[i].Speaker < stats[j].Speaker
	})
	return stats
}

// matchQuestions pairs each question with the first later utterance by
// a different speaker inside the answer window.
func matchQuestions(utterances []baseline.Utterance) (questions, answered int) {
	for i, u := range utterances {
		if !isQuestion(u) {
			continue
		}
		questions++
		for _, next := range utterances[i+1:] {
			if next.StartSec-u.EndSec > answerWindowSec {
				break
			}
			if next.Speaker != u.Speaker && strings.TrimSpace(next.Text) != "" {
				answered++
				break
			}
		}
	}
	return questions, answered
}

func isQuestion(u baseline.Utterance) bool {
	return strings.Contains(u.Text, "?")
}
