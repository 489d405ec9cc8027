package intervention

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/groupflow/sage/internal/anthropic"
)

// Composer turns a decision into a natural-language facilitation
// message. Implementations are best-effort: the engine falls back to a
// template on any error.
type Composer interface {
	Compose(ctx context.Context, kind Type, reason, transcript string) (string, error)
}

// FallbackMessage returns the templated message for an intervention
// type, used when composition is unavailable or times out.
func FallbackMessage(kind Type) string {
	switch kind {
	case TypeClarification:
		return "The discussion is getting tangled. Let's restate the current point and check we share the same understanding."
	case TypeSummary:
		return "Let's pause and recap the main points so far before moving on."
	case TypePerspective:
		return "Progress seems to have stalled. Would a different angle on the problem help?"
	case TypeEncouragement:
		return "Let's hear from the people who haven't weighed in yet, and pick up any open questions."
	default:
		return ""
	}
}

const composerSystemPrompt = `You are a discussion facilitator assistant. You write one short,
supportive intervention message (2-3 sentences, no preamble) that a human
facilitator could say out loud to the group. Match the requested intent.
Do not mention metrics, scores, or that you are an assistant.`

var composerIntents = map[Type]string{
	TypeClarification: "Ask the group to untangle what is unclear and re-establish shared definitions.",
	TypeSummary:       "Summarize the key points of the discussion so far in plain language.",
	TypePerspective:   "Offer a fresh angle or question that could move the stalled discussion forward.",
	TypeEncouragement: "Invite quieter participants to speak, or prompt the group to pick up unanswered questions.",
}

// LLMComposer composes messages through the Anthropic API.
type LLMComposer struct {
	llm    *anthropic.Client
	logger *slog.Logger
}

func NewLLMComposer(llm *anthropic.Client, logger *slog.Logger) *LLMComposer {
	return &LLMComposer{llm: llm, logger: logger}
}

func (c *LLMComposer) Compose(ctx context.Context, kind Type, reason, transcript string) (string, error) {
	intent, ok := composerIntents[kind]
	if !ok {
		return "", fmt.Errorf("no intent for intervention type %q", kind)
	}

	prompt := fmt.Sprintf("Intent: %s\nTrigger: %s\n\nRecent discussion:\n%s",
		intent, reason, excerpt(transcript, 1200))

	c.logger.Debug("composing intervention message",
		"type", string(kind),
		"transcript_len", len(transcript),
	)

	msg, err := c.llm.Complete(ctx, composerSystemPrompt, prompt, 300)
	if err != nil {
		return "", fmt.Errorf("compose %s message: %w", kind, err)
	}
	return strings.TrimSpace(msg), nil
}

// excerpt truncates on a rune boundary so the prompt stays bounded.
func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
