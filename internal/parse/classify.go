package parse

import "strings"

// LineKind tags how a line of a fragment is displayed
type LineKind int

const (
	KindPlain LineKind = iota
	KindTitle
	KindScore
	KindScorers
	KindForm
	KindHomeAway
	KindSectionHeader
	KindLabeled
	KindBullet
)

var kindNames = map[LineKind]string{
	KindPlain:         "plain",
	KindTitle:         "title",
	KindScore:         "score",
	KindScorers:       "scorers",
	KindForm:          "form",
	KindHomeAway:      "home_away",
	KindSectionHeader: "section_header",
	KindLabeled:       "labeled",
	KindBullet:        "bullet",
}

func (k LineKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the kind by name for JSON and YAML output
func (k LineKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Field markers the prompt asks the model to emit, in prompt order
const (
	MarkerMatch         = "**Match:**"
	MarkerStandings     = "**Current Standings:**"
	MarkerH2HForm       = "**H2H & Form:**"
	MarkerHomeAway      = "**Home/Away Advantage:**"
	MarkerKeyNews       = "**Key News:**"
	MarkerLikelyScorers = "**Likely Scorers:**"
	MarkerPrediction    = "**Prediction:**"
	MarkerReasoning     = "**Reasoning:**"
)

const bold = "**"

// RenderLine is one classified line.
// Text is the display value; Label is only set for KindLabeled.
type RenderLine struct {
	Kind  LineKind `json:"kind" yaml:"kind"`
	Text  string   `json:"text" yaml:"text"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
}

// Rule is one entry of the classification table
type Rule struct {
	Name     string
	Classify func(trimmed string) (RenderLine, bool)
}

// prefixRule strips marker and keeps the remainder verbatim
func prefixRule(name, marker string, kind LineKind, trimRemainder bool) Rule {
	return Rule{
		Name: name,
		Classify: func(trimmed string) (RenderLine, bool) {
			rest, ok := strings.CutPrefix(trimmed, marker)
			if !ok {
				return RenderLine{}, false
			}
			if trimRemainder {
				rest = strings.TrimSpace(rest)
			}
			return RenderLine{Kind: kind, Text: rest}, true
		},
	}
}

// Rules is the ordered classification table; the first match wins.
// PlainLine is the fallback when no rule matches.
var Rules = []Rule{
	prefixRule("title", MarkerMatch, KindTitle, false),
	prefixRule("score", MarkerPrediction, KindScore, false),
	prefixRule("scorers", MarkerLikelyScorers, KindScorers, true),
	prefixRule("form", MarkerH2HForm, KindForm, false),
	prefixRule("home_away", MarkerHomeAway, KindHomeAway, false),
	{
		Name: "section_header",
		Classify: func(trimmed string) (RenderLine, bool) {
			if !strings.HasPrefix(trimmed, bold) || !strings.HasSuffix(trimmed, bold) {
				return RenderLine{}, false
			}
			return RenderLine{Kind: KindSectionHeader, Text: strings.ReplaceAll(trimmed, "*", "")}, true
		},
	},
	{
		// "**Label:** body"; anything after a third "**" is dropped.
		// With fewer than three parts the line falls through and keeps its markers.
		Name: "labeled",
		Classify: func(trimmed string) (RenderLine, bool) {
			if !strings.HasPrefix(trimmed, bold) {
				return RenderLine{}, false
			}
			parts := strings.Split(trimmed, bold)
			if len(parts) < 3 {
				return RenderLine{}, false
			}
			return RenderLine{Kind: KindLabeled, Label: parts[1], Text: parts[2]}, true
		},
	},
	{
		Name: "bullet",
		Classify: func(trimmed string) (RenderLine, bool) {
			if !strings.HasPrefix(trimmed, "- ") && !strings.HasPrefix(trimmed, "* ") {
				return RenderLine{}, false
			}
			return RenderLine{Kind: KindBullet, Text: trimmed[2:]}, true
		},
	},
}

// ClassifyLine classifies a single line. It never fails.
func ClassifyLine(line string) RenderLine {
	trimmed := strings.TrimSpace(line)
	for _, rule := range Rules {
		if rl, ok := rule.Classify(trimmed); ok {
			return rl
		}
	}
	return RenderLine{Kind: KindPlain, Text: trimmed}
}
