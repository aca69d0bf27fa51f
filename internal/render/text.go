package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TextOptions controls terminal rendering
type TextOptions struct {
	Width int  // card width in cells, 0 = 72
	Color bool // false renders structure only
}

var (
	pitchAccent = lipgloss.Color("#10B981")
	slateLight  = lipgloss.Color("#E2E8F0")
	slateMuted  = lipgloss.Color("#94A3B8")
	cardBorder  = lipgloss.Color("#334155")
)

type theme struct {
	card      lipgloss.Style
	heading   lipgloss.Style
	score     lipgloss.Style
	caption   lipgloss.Style
	sub       lipgloss.Style
	label     lipgloss.Style
	body      lipgloss.Style
	fallback  lipgloss.Style
	sourceHdr lipgloss.Style
}

func newTheme(width int, color bool) theme {
	fg := func(s lipgloss.Style, c lipgloss.Color) lipgloss.Style {
		if color {
			return s.Foreground(c)
		}
		return s
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(width)
	if color {
		card = card.BorderForeground(cardBorder)
	}

	return theme{
		card:      card,
		heading:   fg(lipgloss.NewStyle().Bold(true), pitchAccent),
		score:     fg(lipgloss.NewStyle().Bold(true), slateLight),
		caption:   fg(lipgloss.NewStyle(), slateMuted),
		sub:       fg(lipgloss.NewStyle().Bold(true), slateLight),
		label:     fg(lipgloss.NewStyle().Bold(true), slateLight),
		body:      fg(lipgloss.NewStyle(), slateMuted),
		fallback:  card,
		sourceHdr: fg(lipgloss.NewStyle().Bold(true), slateMuted),
	}
}

// Text renders the tree for a terminal. The fallback raw text is written
// verbatim below its notice box.
func Text(tree DisplayTree, opts TextOptions) string {
	width := opts.Width
	if width <= 0 {
		width = 72
	}
	th := newTheme(width, opts.Color)

	var blocks []string

	if tree.Fallback != nil {
		// raw text bypasses lipgloss, which would expand tabs and rewrap lines
		blocks = append(blocks, th.fallback.Render(th.caption.Render(tree.Fallback.Notice)), tree.Fallback.RawText)
	}

	for _, card := range tree.Cards {
		blocks = append(blocks, th.card.Render(renderCardText(card, th)))
	}

	if len(tree.Sources) > 0 {
		var sb strings.Builder
		sb.WriteString(th.sourceHdr.Render(strings.ToUpper(SourcesHeading)))
		for _, s := range tree.Sources {
			sb.WriteString("\n  • ")
			sb.WriteString(s.Label)
			if s.Label != s.URL {
				sb.WriteString(" <" + s.URL + ">")
			}
		}
		blocks = append(blocks, sb.String())
	}

	return strings.Join(blocks, "\n\n") + "\n"
}

func renderCardText(card Card, th theme) string {
	lines := make([]string, 0, len(card.Elements))
	for _, el := range card.Elements {
		switch el.Treatment {
		case TreatHeading:
			lines = append(lines, th.heading.Render(strings.TrimSpace(el.Text)))
		case TreatProjectedScore:
			lines = append(lines, th.caption.Render(strings.ToUpper(ProjectedScoreCaption))+"  "+th.score.Render(strings.TrimSpace(el.Text)))
		case TreatScorers:
			lines = append(lines, th.label.Render(ScorersCaption+":")+" "+th.body.Render(el.Text))
		case TreatForm:
			lines = append(lines, th.label.Render(FormCaption+":")+th.body.Render(el.Text))
		case TreatHomeAway:
			lines = append(lines, th.label.Render(HomeAwayCaption+":")+th.body.Render(el.Text))
		case TreatSubheading:
			lines = append(lines, th.sub.Render(el.Text))
		case TreatLabeled:
			lines = append(lines, th.label.Render(el.Label)+" "+th.body.Render(el.Text))
		case TreatListItem:
			lines = append(lines, "  • "+th.body.Render(el.Text))
		default:
			lines = append(lines, th.body.Render(el.Text))
		}
	}
	return strings.Join(lines, "\n")
}
