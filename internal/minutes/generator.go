// Package minutes renders a per-segment analysis into Markdown meeting
// minutes: health summary, facilitation suggestions, the utterance log
// and per-participant comprehension notes.
package minutes

import (
	"fmt"
	"strings"
	"time"

	"github.com/groupflow/sage/internal/analyzer"
	"github.com/groupflow/sage/internal/baseline"
)

const (
	goodHealthPct = 70
	okHealthPct   = 50
)

// flag thresholds for the misunderstanding section.
const (
	flagUnderstanding = 0.5
	flagHesitation    = 0.6
)

type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Generate renders Markdown minutes for one analyzed segment. States
// in the result are positionally aligned with the utterances.
func (g *Generator) Generate(title string, utterances []baseline.Utterance, result *analyzer.IntegratedResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Minutes: %s\n\n", title)
	fmt.Fprintf(&b, "**Session**: `%s`  \n", result.SessionID)
	fmt.Fprintf(&b, "**Segment**: %d  \n", result.SegmentID)
	fmt.Fprintf(&b, "**Generated**: %s\n\n", g.now().UTC().Format("2006-01-02 15:04 UTC"))
	b.WriteString("---\n\n")

	g.writeHealth(&b, result)
	g.writeIntervention(&b, result)
	g.writeLog(&b, utterances)
	g.writeUnderstandingTrend(&b, result)
	g.writeMisunderstandings(&b, utterances, result)

	return b.String()
}

func (g *Generator) writeHealth(b *strings.Builder, result *analyzer.IntegratedResult) {
	pct := int(result.Health.Score * 100)
	marker := "poor"
	switch {
	case pct >= goodHealthPct:
		marker = "good"
	case pct >= okHealthPct:
		marker = "fair"
	}

	b.WriteString("## Discussion Health\n\n")
	fmt.Fprintf(b, "**Overall score**: %d%% (%s)\n\n", pct, marker)
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Confusion | %d%% |\n", int(result.Metrics.Confusion*100))
	fmt.Fprintf(b, "| Stagnation | %d%% |\n", int(result.Metrics.Stagnation*100))
	fmt.Fprintf(b, "| Understanding | %d%% |\n", int(result.Metrics.Understanding*100))
	b.WriteString("\n")
}

func (g *Generator) writeIntervention(b *strings.Builder, result *analyzer.IntegratedResult) {
	d := result.Decision
	if !d.Needed {
		return
	}
	b.WriteString("## Facilitation Suggestion\n\n")
	fmt.Fprintf(b, "**Type**: %s  \n", d.Type)
	fmt.Fprintf(b, "**Priority**: %.2f  \n", d.Priority)
	fmt.Fprintf(b, "**Trigger**: %s\n\n", d.Reason)
	if d.Message != "" {
		fmt.Fprintf(b, "> %s\n\n", d.Message)
	}
}

func (g *Generator) writeLog(b *strings.Builder, utterances []baseline.Utterance) {
	b.WriteString("## Utterance Log\n\n")
	for i, u := range utterances {
		speaker := u.Speaker
		if speaker == "" {
			speaker = "unknown"
		}
		fmt.Fprintf(b, "### %d. %s\n\n", i+1, speaker)
		fmt.Fprintf(b, "> %s\n\n", u.Text)
	}
}

func (g *Generator) writeUnderstandingTrend(b *strings.Builder, result *analyzer.IntegratedResult) {
	if len(result.States) == 0 {
		return
	}

	order := make([]string, 0, 4)
	values := make(map[string][]float64)
	for _, s := range result.States {
		if _, ok := values[s.Speaker]; !ok {
			order = append(order, s.Speaker)
		}
		values[s.Speaker] = append(values[s.Speaker], s.State.UnderstandingLevel)
	}

	b.WriteString("## Participant Understanding\n\n")
	for _, speaker := range order {
		vs := values[speaker]
		var sum float64
		for _, v := range vs {
			sum += v
		}
		avg := sum / float64(len(vs))

		trend := "steady"
		if len(vs) > 1 {
			switch {
			case vs[len(vs)-1] > vs[0]:
				trend = "rising"
			case vs[len(vs)-1] < vs[0]:
				trend = "falling"
			}
		}
		fmt.Fprintf(b, "- **%s**: avg %d%%, %s\n", speaker, int(avg*100), trend)
	}
	b.WriteString("\n")
}

func (g *Generator) writeMisunderstandings(b *strings.Builder, utterances []baseline.Utterance, result *analyzer.IntegratedResult) {
	b.WriteString("## Possible Misunderstandings\n\n")

	flagged := 0
	for i, s := range result.States {
		if i >= len(utterances) {
			break
		}
		if s.State.UnderstandingLevel >= flagUnderstanding && s.State.HesitationLevel <= flagHesitation {
			continue
		}
		flagged++
		fmt.Fprintf(b, "### %d. %s\n\n", i+1, s.Speaker)
		fmt.Fprintf(b, "**Understanding**: %d%%\n\n", int(s.State.UnderstandingLevel*100))
		fmt.Fprintf(b, "> %s\n\n", utterances[i].Text)
	}

	if flagged == 0 {
		b.WriteString("No comprehension gaps detected.\n")
	}
}
