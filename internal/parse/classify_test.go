package parse

import (
	"encoding/json"
	"testing"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want RenderLine
	}{
		{
			name: "title keeps leading space",
			line: "**Match:** Arsenal vs Chelsea",
			want: RenderLine{Kind: KindTitle, Text: " Arsenal vs Chelsea"},
		},
		{
			name: "score block",
			line: "**Prediction:** 2 - 1",
			want: RenderLine{Kind: KindScore, Text: " 2 - 1"},
		},
		{
			name: "scorers remainder trimmed",
			line: "  **Likely Scorers:**   Saka, Palmer  ",
			want: RenderLine{Kind: KindScorers, Text: "Saka, Palmer"},
		},
		{
			name: "form block",
			line: "**H2H & Form:** Arsenal unbeaten in 5",
			want: RenderLine{Kind: KindForm, Text: " Arsenal unbeaten in 5"},
		},
		{
			name: "home away block",
			line: "**Home/Away Advantage:** strong at home",
			want: RenderLine{Kind: KindHomeAway, Text: " strong at home"},
		},
		{
			name: "full line bold header",
			line: "**Form Guide:**",
			want: RenderLine{Kind: KindSectionHeader, Text: "Form Guide:"},
		},
		{
			name: "known field with empty value is a header",
			line: "**Current Standings:**",
			want: RenderLine{Kind: KindSectionHeader, Text: "Current Standings:"},
		},
		{
			name: "header strips every asterisk",
			line: "***Key Stats***",
			want: RenderLine{Kind: KindSectionHeader, Text: "Key Stats"},
		},
		{
			name: "labeled line",
			line: "**Key News:** Rice suspended",
			want: RenderLine{Kind: KindLabeled, Label: "Key News:", Text: " Rice suspended"},
		},
		{
			name: "labeled line drops text after third marker",
			line: "**Reasoning:** home form **and** H2H",
			want: RenderLine{Kind: KindLabeled, Label: "Reasoning:", Text: " home form "},
		},
		{
			name: "unterminated bold falls through with markers kept",
			line: "**dangling bold text",
			want: RenderLine{Kind: KindPlain, Text: "**dangling bold text"},
		},
		{
			name: "dash bullet",
			line: "- Mohamed Salah",
			want: RenderLine{Kind: KindBullet, Text: "Mohamed Salah"},
		},
		{
			name: "star bullet",
			line: "   * Bukayo Saka",
			want: RenderLine{Kind: KindBullet, Text: "Bukayo Saka"},
		},
		{
			name: "plain line trimmed",
			line: "  Arsenal have won four straight.  ",
			want: RenderLine{Kind: KindPlain, Text: "Arsenal have won four straight."},
		},
		{
			name: "empty line",
			line: "   ",
			want: RenderLine{Kind: KindPlain, Text: ""},
		},
		{
			name: "hyphen without space is plain",
			line: "-5 goal difference",
			want: RenderLine{Kind: KindPlain, Text: "-5 goal difference"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyLine(tt.line)
			if got != tt.want {
				t.Errorf("ClassifyLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestRules_Order(t *testing.T) {
	want := []string{"title", "score", "scorers", "form", "home_away", "section_header", "labeled", "bullet"}
	if len(Rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(Rules))
	}
	for i, name := range want {
		if Rules[i].Name != name {
			t.Errorf("rule %d: got %s, want %s", i, Rules[i].Name, name)
		}
	}
}

func TestRules_Independent(t *testing.T) {
	// Each rule is testable on its own; the header rule alone accepts a title line
	headerRule := Rules[5]
	if _, ok := headerRule.Classify("**Match:** A vs B"); ok {
		t.Error("header rule should not match a line that does not end in bold")
	}
	if rl, ok := headerRule.Classify("**Match:**"); !ok || rl.Text != "Match:" {
		t.Errorf("header rule should match a bare marker, got %+v", rl)
	}

	// ...but the title rule runs first in the table
	if got := ClassifyLine("**Match:**"); got.Kind != KindTitle || got.Text != "" {
		t.Errorf("expected title precedence, got %+v", got)
	}
}

func TestLineKind_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(RenderLine{Kind: KindHomeAway, Text: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"kind":"home_away","text":"x"}` {
		t.Errorf("unexpected JSON: %s", data)
	}
	if LineKind(99).String() != "unknown" {
		t.Error("expected unknown for out-of-range kind")
	}
}
