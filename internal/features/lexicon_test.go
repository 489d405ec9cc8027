package features

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLexicon_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	content := `
hedges:
  - Vielleicht
  - eventuell
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lexicon file: %v", err)
	}

	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}

	if len(lex.Hedges) != 2 {
		t.Fatalf("expected 2 hedges, got %d", len(lex.Hedges))
	}
	if lex.Hedges[0] != "vielleicht" {
		t.Errorf("expected lowercased hedge, got %q", lex.Hedges[0])
	}
	// Untouched categories fall back to defaults.
	if len(lex.Hesitations) == 0 {
		t.Error("expected default hesitations to fill in")
	}
	if len(lex.Questions) == 0 {
		t.Error("expected default questions to fill in")
	}
}

func TestLoadLexicon_MissingFile(t *testing.T) {
	if _, err := LoadLexicon("/nonexistent/lexicon.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadLexicon_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(path, []byte("hedges: [unclosed"), 0o644); err != nil {
		t.Fatalf("write lexicon file: %v", err)
	}

	if _, err := LoadLexicon(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}
