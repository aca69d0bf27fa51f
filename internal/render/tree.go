// Package render maps parsed fragments and citations to a display tree and
// encodes that tree for the terminal and the browser. Everything here is a
// pure function of its input.
package render

import (
	"strings"

	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/parse"
)

// Treatment is the visual treatment of one element
type Treatment string

const (
	TreatHeading        Treatment = "heading"
	TreatProjectedScore Treatment = "projected_score"
	TreatScorers        Treatment = "scorers"
	TreatForm           Treatment = "form"
	TreatHomeAway       Treatment = "home_away"
	TreatSubheading     Treatment = "subheading"
	TreatLabeled        Treatment = "labeled"
	TreatListItem       Treatment = "list_item"
	TreatParagraph      Treatment = "paragraph"
)

var treatments = map[parse.LineKind]Treatment{
	parse.KindTitle:         TreatHeading,
	parse.KindScore:         TreatProjectedScore,
	parse.KindScorers:       TreatScorers,
	parse.KindForm:          TreatForm,
	parse.KindHomeAway:      TreatHomeAway,
	parse.KindSectionHeader: TreatSubheading,
	parse.KindLabeled:       TreatLabeled,
	parse.KindBullet:        TreatListItem,
	parse.KindPlain:         TreatParagraph,
}

// Fixed captions shown around the cards
const (
	ProjectedScoreCaption = "Projected Score"
	ScorersCaption        = "Likely Scorers"
	FormCaption           = "H2H & Form"
	HomeAwayCaption       = "Home/Away Advantage"
	FallbackNotice        = "Analysis provided in a single block:"
	SourcesHeading        = "Live Data Sources"
)

// Element is one displayed line of a card
type Element struct {
	Treatment Treatment `json:"treatment" yaml:"treatment"`
	Text      string    `json:"text" yaml:"text"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
}

// Card shows one match fragment
type Card struct {
	Index    int       `json:"index" yaml:"index"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Elements []Element `json:"elements" yaml:"elements"`
}

// Fallback shows the raw text verbatim when no fragment was found
type Fallback struct {
	Notice  string `json:"notice" yaml:"notice"`
	RawText string `json:"raw_text" yaml:"raw_text"`
}

// Source is a renderable citation link
type Source struct {
	URL   string `json:"url" yaml:"url"`
	Label string `json:"label" yaml:"label"`
}

// DisplayTree is the complete presentation of one prediction result.
// Exactly one of Cards and Fallback is populated.
type DisplayTree struct {
	Cards    []Card    `json:"cards,omitempty" yaml:"cards,omitempty"`
	Fallback *Fallback `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Sources  []Source  `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Build maps fragments and citations to a display tree
func Build(rawText string, fragments []parse.Fragment, citations []model.CitationRecord) DisplayTree {
	tree := DisplayTree{
		Sources: Sources(citations),
	}

	if len(fragments) == 0 {
		tree.Fallback = &Fallback{Notice: FallbackNotice, RawText: rawText}
		return tree
	}

	tree.Cards = make([]Card, 0, len(fragments))
	for i, fragment := range fragments {
		tree.Cards = append(tree.Cards, BuildCard(i, fragment))
	}
	return tree
}

// BuildResult parses and builds a tree for a prediction result
func BuildResult(result *model.PredictionResult, parser *parse.Parser) DisplayTree {
	if result == nil {
		return DisplayTree{}
	}
	return Build(result.RawText, parser.Parse(result.RawText), result.Citations)
}

// BuildCard builds one card, keeping line order
func BuildCard(index int, fragment parse.Fragment) Card {
	lines := fragment.Lines()
	card := Card{
		Index:    index,
		Elements: make([]Element, 0, len(lines)),
	}

	for _, line := range lines {
		el := Element{
			Treatment: treatments[line.Kind],
			Text:      line.Text,
			Label:     line.Label,
		}
		if el.Treatment == "" {
			el.Treatment = TreatParagraph
		}
		if el.Treatment == TreatHeading && card.Title == "" {
			card.Title = strings.TrimSpace(line.Text)
		}
		card.Elements = append(card.Elements, el)
	}
	return card
}

// Sources keeps citations that have a URI, labeled by title or URI.
// Returns nil when nothing is renderable so the section is omitted.
func Sources(citations []model.CitationRecord) []Source {
	var sources []Source
	for _, c := range citations {
		if !c.Renderable() {
			continue
		}
		sources = append(sources, Source{URL: c.URI, Label: c.Label()})
	}
	return sources
}
