package render

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/parse"
)

func TestHTML_Card(t *testing.T) {
	raw := parse.Delimiter + sampleMatch
	tree := Build(raw, parse.ParseMatches(raw), []model.CitationRecord{{URI: "http://a"}, {Title: "X"}})

	out, err := HTML(tree)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	for _, want := range []string{
		`<h3 class="match-title">Arsenal vs Chelsea</h3>`,
		`<span class="caption">Projected Score</span><span class="value">2 - 1</span>`,
		`<strong>Likely Scorers:</strong> Bukayo Saka, Cole Palmer`,
		`<ul><li>Saka in form</li><li>Palmer back from injury</li></ul>`,
		`<strong>Standings:</strong>  Arsenal 2nd, Chelsea 6th`,
		`<h4>Live Data Sources</h4>`,
		`<a href="http://a" target="_blank" rel="noopener noreferrer">http://a</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Count(out, "<a ") != 1 {
		t.Errorf("Expected exactly one link, got:\n%s", out)
	}
}

func TestHTML_EscapesModelText(t *testing.T) {
	tree := Build("<script>alert(1)</script>", nil, nil)

	out, err := HTML(tree)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("Expected raw text to be escaped, got %s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("Expected escaped script tag, got %s", out)
	}
	if !strings.Contains(out, FallbackNotice) {
		t.Errorf("Expected fallback notice, got %s", out)
	}
}

func TestPage(t *testing.T) {
	var sb strings.Builder
	err := html.Render(&sb, Page("PitchProphet <AI>", HTMLNode(Build("x", nil, nil))))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := sb.String()

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("Expected doctype, got %.40s", out)
	}
	if !strings.Contains(out, "<title>PitchProphet &lt;AI&gt;</title>") {
		t.Errorf("Expected escaped title in:\n%s", out)
	}
	if !strings.Contains(out, `<section class="predictions">`) {
		t.Errorf("Expected body content in:\n%s", out)
	}
}
