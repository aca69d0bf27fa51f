package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/render"
)

// Format is an output encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatHTML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: text, json, yaml, html)", s)
	}
}

// Extension returns the file extension for a format
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// Document is the machine-readable encoding of an outcome
type Document struct {
	League      string                 `json:"league" yaml:"league"`
	Provider    string                 `json:"provider" yaml:"provider"`
	Model       string                 `json:"model,omitempty" yaml:"model,omitempty"`
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
	RawText     string                 `json:"raw_text" yaml:"raw_text"`
	Citations   []model.CitationRecord `json:"citations" yaml:"citations"`
	Display     render.DisplayTree     `json:"display" yaml:"display"`
}

// NewDocument flattens an outcome for encoding
func NewDocument(out *Outcome) Document {
	return Document{
		League:      out.Result.League,
		Provider:    out.Result.Provider,
		Model:       out.Result.Model,
		GeneratedAt: out.Result.GeneratedAt,
		RawText:     out.Result.RawText,
		Citations:   out.Result.Citations,
		Display:     out.Tree,
	}
}

// Renderer writes outcomes in the supported formats
type Renderer struct {
	text render.TextOptions
}

// NewRenderer creates a renderer
func NewRenderer(text render.TextOptions) *Renderer {
	return &Renderer{text: text}
}

// Write encodes an outcome to w
func (r *Renderer) Write(w io.Writer, out *Outcome, format Format) error {
	switch format {
	case FormatText, "":
		header := fmt.Sprintf("%s predictions (%s)\n\n", out.Result.League, out.Result.Provider)
		_, err := io.WriteString(w, header+render.Text(out.Tree, r.text))
		return err

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(out))

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(out)); err != nil {
			return err
		}
		return enc.Close()

	case FormatHTML:
		title := "PitchProphet: " + out.Result.League
		return renderPage(w, title, out.Tree)

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteFile encodes an outcome to a file, creating parent directories
func (r *Renderer) WriteFile(path string, out *Outcome, format Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	// colour codes do not belong in files
	fileRenderer := &Renderer{text: render.TextOptions{Width: r.text.Width}}
	if err := fileRenderer.Write(f, out, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", format, err)
	}
	return f.Close()
}

func renderPage(w io.Writer, title string, tree render.DisplayTree) error {
	body := render.Node(atom.Main)
	body.AppendChild(render.WithText(render.Node(atom.H1), title))
	body.AppendChild(render.HTMLNode(tree))
	return html.Render(w, render.Page(title, body))
}
