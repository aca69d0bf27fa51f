package model

import "time"

// PredictionRequest is created per user action and consumed by the service client
type PredictionRequest struct {
	LeagueName string `json:"league_name"`
}

// CitationRecord is a web source the backend used to ground its answer
type CitationRecord struct {
	URI   string `json:"uri" yaml:"uri"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Renderable reports whether the record has a URI to link to
func (c CitationRecord) Renderable() bool {
	return c.URI != ""
}

// Label is the title when present, otherwise the raw URI
func (c CitationRecord) Label() string {
	if c.Title != "" {
		return c.Title
	}
	return c.URI
}

// PredictionResult is the normalized backend response.
// It is replaced wholesale on each request and never mutated in place.
type PredictionResult struct {
	RawText   string           `json:"raw_text" yaml:"raw_text"`
	Citations []CitationRecord `json:"citations" yaml:"citations"`

	// Bookkeeping, not part of the rendered cards
	League      string    `json:"league,omitempty" yaml:"league,omitempty"`
	Provider    string    `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model       string    `json:"model,omitempty" yaml:"model,omitempty"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}
