package features

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the surface-marker word lists the extractor scans for.
// Lists are configuration so they can be swapped per language or
// locale without touching the estimator.
type Lexicon struct {
	Hesitations  []string `yaml:"hesitations"`
	Hedges       []string `yaml:"hedges"`
	Softeners    []string `yaml:"softeners"`
	Explanations []string `yaml:"explanations"`
	Questions    []string `yaml:"questions"`
}

// DefaultLexicon returns the built-in English marker lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Hesitations: []string{
			"um", "uh", "er", "hmm", "well", "you know", "i mean",
		},
		Hedges: []string{
			"maybe", "perhaps", "possibly", "probably", "i guess",
			"i think", "sort of", "kind of", "not sure",
		},
		Softeners: []string{
			"or something", "i suppose", "if that makes sense",
			"right?", "more or less",
		},
		Explanations: []string{
			"because", "for example", "for instance", "in other words",
			"specifically", "concretely",
		},
		Questions: []string{
			"?", "what do you mean", "i don't understand",
			"can you explain", "not following",
		},
	}
}

// LoadLexicon reads a lexicon YAML file. Empty lists in the file fall
// back to the built-in defaults, so a locale file can override only
// the categories it cares about.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}

	def := DefaultLexicon()
	if len(lex.Hesitations) == 0 {
		lex.Hesitations = def.Hesitations
	}
	if len(lex.Hedges) == 0 {
		lex.Hedges = def.Hedges
	}
	if len(lex.Softeners) == 0 {
		lex.Softeners = def.Softeners
	}
	if len(lex.Explanations) == 0 {
		lex.Explanations = def.Explanations
	}
	if len(lex.Questions) == 0 {
		lex.Questions = def.Questions
	}

	return lex.normalized(), nil
}

// normalized lowercases every marker so matching is case-insensitive.
func (l Lexicon) normalized() Lexicon {
	lower := func(in []string) []string {
		out := make([]string, len(in))
		for i, s := range in {
			out[i] = strings.ToLower(strings.TrimSpace(s))
		}
		return out
	}
	return Lexicon{
		Hesitations:  lower(l.Hesitations),
		Hedges:       lower(l.Hedges),
		Softeners:    lower(l.Softeners),
		Explanations: lower(l.Explanations),
		Questions:    lower(l.Questions),
	}
}
