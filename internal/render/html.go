package render

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node creates a detached element node with attribute key/value pairs
func Node(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// TextNode creates a detached text node; html.Render escapes it
func TextNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// WithText appends a text child and returns n
func WithText(n *html.Node, s string) *html.Node {
	n.AppendChild(TextNode(s))
	return n
}

// HTMLNode converts the tree into a detached <section> node
func HTMLNode(tree DisplayTree) *html.Node {
	section := Node(atom.Section, "class", "predictions")

	if tree.Fallback != nil {
		fb := Node(atom.Div, "class", "fallback")
		fb.AppendChild(WithText(Node(atom.P, "class", "notice"), tree.Fallback.Notice))
		fb.AppendChild(WithText(Node(atom.Div, "class", "raw", "style", "white-space: pre-wrap"), tree.Fallback.RawText))
		section.AppendChild(fb)
	}

	for _, card := range tree.Cards {
		section.AppendChild(cardNode(card))
	}

	if len(tree.Sources) > 0 {
		src := Node(atom.Div, "class", "sources")
		src.AppendChild(WithText(Node(atom.H4), SourcesHeading))
		for _, s := range tree.Sources {
			src.AppendChild(WithText(Node(atom.A,
				"href", s.URL,
				"target", "_blank",
				"rel", "noopener noreferrer",
			), s.Label))
		}
		section.AppendChild(src)
	}

	return section
}

func cardNode(card Card) *html.Node {
	div := Node(atom.Div, "class", "card")

	// consecutive list items share one <ul>
	var list *html.Node
	for _, el := range card.Elements {
		if el.Treatment != TreatListItem {
			list = nil
		}

		switch el.Treatment {
		case TreatHeading:
			div.AppendChild(WithText(Node(atom.H3, "class", "match-title"), strings.TrimSpace(el.Text)))
		case TreatProjectedScore:
			box := Node(atom.Div, "class", "score")
			box.AppendChild(WithText(Node(atom.Span, "class", "caption"), ProjectedScoreCaption))
			box.AppendChild(WithText(Node(atom.Span, "class", "value"), strings.TrimSpace(el.Text)))
			div.AppendChild(box)
		case TreatScorers:
			div.AppendChild(captioned("scorers", ScorersCaption, el.Text))
		case TreatForm:
			div.AppendChild(captioned("form", FormCaption, el.Text))
		case TreatHomeAway:
			div.AppendChild(captioned("home-away", HomeAwayCaption, el.Text))
		case TreatSubheading:
			div.AppendChild(WithText(Node(atom.H4, "class", "section-header"), el.Text))
		case TreatLabeled:
			p := Node(atom.P, "class", "labeled")
			p.AppendChild(WithText(Node(atom.Strong), el.Label))
			p.AppendChild(TextNode(" " + el.Text))
			div.AppendChild(p)
		case TreatListItem:
			if list == nil {
				list = Node(atom.Ul)
				div.AppendChild(list)
			}
			list.AppendChild(WithText(Node(atom.Li), el.Text))
		default:
			if el.Text == "" {
				div.AppendChild(Node(atom.Br))
				continue
			}
			div.AppendChild(WithText(Node(atom.P), el.Text))
		}
	}
	return div
}

func captioned(class, caption, body string) *html.Node {
	p := Node(atom.P, "class", class)
	p.AppendChild(WithText(Node(atom.Strong), caption+":"))
	p.AppendChild(TextNode(" " + body))
	return p
}

// WriteHTML renders the tree as an HTML fragment
func WriteHTML(w io.Writer, tree DisplayTree) error {
	return html.Render(w, HTMLNode(tree))
}

// HTML renders the tree as an HTML fragment string
func HTML(tree DisplayTree) (string, error) {
	var sb strings.Builder
	if err := WriteHTML(&sb, tree); err != nil {
		return "", err
	}
	return sb.String(), nil
}

const pageStyle = `body{margin:0;background:#0F172A;color:#F1F5F9;font-family:system-ui,sans-serif}
main{max-width:72rem;margin:0 auto;padding:2rem 1rem}
.card{background:#1E293B;border:1px solid #334155;border-radius:.75rem;padding:1.5rem;margin-bottom:1.5rem}
.match-title{color:#10B981;margin-top:0}
.score{display:flex;justify-content:space-between;background:#0F172A;border-radius:.5rem;padding:.75rem 1rem;margin:1rem 0}
.score .value{font-size:1.5rem;font-weight:700}
.section-header{color:#E2E8F0;margin-bottom:.25rem}
.fallback{background:#1E293B;border-radius:.75rem;padding:1.5rem}
.sources{border-top:1px solid #334155;padding-top:1rem}
.sources a{display:inline-block;margin:.25rem .5rem .25rem 0;color:#10B981}
.leagues{display:grid;grid-template-columns:repeat(auto-fit,minmax(12rem,1fr));gap:1rem}
.league{width:100%;text-align:left;background:#1E293B;color:inherit;border:1px solid #334155;border-radius:.75rem;padding:1.25rem;cursor:pointer}
.league.selected{border:2px solid #10B981}
.error{background:rgba(239,68,68,.1);border:1px solid rgba(239,68,68,.2);color:#FECACA;padding:1rem;border-radius:.5rem;text-align:center}
.loading{text-align:center;padding:3rem 0}
footer{color:#475569;text-align:center;padding:2rem 0;font-size:.875rem}`

// Page wraps body nodes in a complete HTML document
func Page(title string, body ...*html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := Node(atom.Html, "lang", "en")
	head := Node(atom.Head)
	head.AppendChild(Node(atom.Meta, "charset", "utf-8"))
	head.AppendChild(Node(atom.Meta, "name", "viewport", "content", "width=device-width, initial-scale=1"))
	head.AppendChild(WithText(Node(atom.Title), title))
	head.AppendChild(WithText(Node(atom.Style), pageStyle))
	root.AppendChild(head)

	bodyNode := Node(atom.Body)
	for _, n := range body {
		bodyNode.AppendChild(n)
	}
	root.AppendChild(bodyNode)
	doc.AppendChild(root)
	return doc
}
