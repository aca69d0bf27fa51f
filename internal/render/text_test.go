package render

import (
	"strings"
	"testing"

	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/parse"
)

func TestText_Card(t *testing.T) {
	raw := parse.Delimiter + sampleMatch
	tree := Build(raw, parse.ParseMatches(raw), []model.CitationRecord{{URI: "http://b", Title: "BBC"}})

	out := Text(tree, TextOptions{Width: 80})

	for _, want := range []string{
		"Arsenal vs Chelsea",
		"PROJECTED SCORE",
		"2 - 1",
		"Likely Scorers:",
		"• Saka in form",
		"LIVE DATA SOURCES",
		"BBC <http://b>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestText_FallbackVerbatim(t *testing.T) {
	raw := "ok\tgo\n    indented line that is long enough to be wrapped by a narrow card width"
	tree := Build(raw, nil, nil)

	out := Text(tree, TextOptions{Width: 20, Color: true})

	if !strings.Contains(out, raw) {
		t.Errorf("Expected raw text verbatim in output:\n%s", out)
	}
}

func TestText_Fallback(t *testing.T) {
	tree := Build("one block", nil, nil)
	out := Text(tree, TextOptions{})

	if !strings.Contains(out, FallbackNotice) || !strings.Contains(out, "one block") {
		t.Errorf("Unexpected fallback output:\n%s", out)
	}
	if strings.Contains(out, "LIVE DATA SOURCES") {
		t.Errorf("Expected no sources section:\n%s", out)
	}
}
