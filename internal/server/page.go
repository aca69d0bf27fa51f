package server

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/render"
)

const pageTitle = "PitchProphet AI"

func writePage(w io.Writer, st stateResponse, provider string) error {
	body := render.Node(atom.Main)

	header := render.Node(atom.Header)
	header.AppendChild(render.WithText(render.Node(atom.H1), "⚽ "+pageTitle))
	if provider != "" {
		header.AppendChild(render.WithText(render.Node(atom.Small, "class", "badge"), "Powered by "+provider))
	}
	body.AppendChild(header)

	intro := render.Node(atom.Div, "class", "intro")
	intro.AppendChild(render.WithText(render.Node(atom.H2), "Predict the Beautiful Game"))
	intro.AppendChild(render.WithText(render.Node(atom.P),
		"Select a league below. Our AI analyzes real-time standings, team form, injuries, and news to predict the outcome of the top 3 teams' next matches."))
	body.AppendChild(intro)

	body.AppendChild(leagueForm(st.SelectedLeague))
	body.AppendChild(actionForm(st))

	if st.Error != "" {
		box := render.Node(atom.Div, "class", "error", "role", "alert")
		box.AppendChild(render.WithText(render.Node(atom.P), "Error"))
		box.AppendChild(render.WithText(render.Node(atom.P), st.Error))
		body.AppendChild(box)
	}

	if st.IsLoading {
		loading := render.Node(atom.Div, "class", "loading")
		loading.AppendChild(render.WithText(render.Node(atom.H3), "Scouting Matches..."))
		loading.AppendChild(render.WithText(render.Node(atom.P), "Analyzing form, reading news, and calculating probabilities."))
		body.AppendChild(loading)
	} else if st.Display != nil {
		body.AppendChild(render.HTMLNode(*st.Display))
	}

	footer := render.Node(atom.Footer)
	footer.AppendChild(render.WithText(render.Node(atom.P),
		fmt.Sprintf("© %d %s. Predictions are estimates based on available data.", time.Now().Year(), pageTitle)))
	body.AppendChild(footer)

	doc := render.Page(pageTitle, body)
	if st.IsLoading {
		// <html> -> <head>
		head := doc.LastChild.FirstChild
		head.AppendChild(render.Node(atom.Meta, "http-equiv", "refresh", "content", "3"))
	}
	return html.Render(w, doc)
}

func leagueForm(selected string) *html.Node {
	form := render.Node(atom.Form, "method", "post", "action", "/select", "class", "leagues")
	for _, l := range model.Leagues() {
		class := "league"
		if l.Name == selected {
			class += " selected"
		}
		btn := render.Node(atom.Button, "type", "submit", "name", "league", "value", l.Name, "class", class)
		btn.AppendChild(render.WithText(render.Node(atom.Span, "class", "flag"), l.Flag))
		btn.AppendChild(render.WithText(render.Node(atom.H3), l.Name))
		btn.AppendChild(render.WithText(render.Node(atom.P), l.Country))
		btn.AppendChild(render.WithText(render.Node(atom.Span, "class", "icon"), l.Icon))
		form.AppendChild(btn)
	}
	return form
}

func actionForm(st stateResponse) *html.Node {
	form := render.Node(atom.Form, "method", "post", "action", "/generate", "class", "action")
	btn := render.Node(atom.Button, "type", "submit")
	if !st.CanGenerate {
		btn.Attr = append(btn.Attr, html.Attribute{Key: "disabled"})
	}
	form.AppendChild(render.WithText(btn, st.ActionLabel))
	if st.SelectedLeague == "" {
		form.AppendChild(render.WithText(render.Node(atom.P, "class", "hint"), "👆 Pick a league to start"))
	}
	return form
}
