// Package parse turns the backend's free-text answer into per-match
// fragments and classifies each fragment line for display.
//
// Parsing is total: every input string produces a result and nothing here
// returns an error. Structure the model did not follow degrades to plain
// lines or to zero fragments, which the renderer shows as a single block.
package parse

import (
	"iter"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/pitchprophet/internal/cache"
)

// Delimiter separates matches in the backend's answer
const Delimiter = "---MATCH_ANALYSIS---"

// MinFragmentLength is the trimmed length, in characters, a segment must exceed to count as a match
const MinFragmentLength = 20

// Fragment is one match's worth of trimmed text
type Fragment struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Lines classifies every line of the fragment in order.
// Blank lines are kept as empty plain lines.
func (f Fragment) Lines() []RenderLine {
	raw := strings.Split(f.Text, "\n")
	lines := make([]RenderLine, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, ClassifyLine(line))
	}
	return lines
}

// Fragments lazily yields the match fragments of rawText in textual order
func Fragments(rawText string) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		if rawText == "" {
			return
		}
		index := 0
		for segment := range strings.SplitSeq(rawText, Delimiter) {
			segment = strings.TrimSpace(segment)
			if utf8.RuneCountInString(segment) <= MinFragmentLength {
				continue
			}
			if !yield(Fragment{Index: index, Text: segment}) {
				return
			}
			index++
		}
	}
}

// ParseMatches returns all match fragments of rawText.
// The result is never nil.
func ParseMatches(rawText string) []Fragment {
	fragments := slices.Collect(Fragments(rawText))
	if fragments == nil {
		return []Fragment{}
	}
	return fragments
}

// Parser memoizes ParseMatches per unchanged raw text
type Parser struct {
	memo cache.Cache[[]Fragment]
}

// NewParser creates a parser. A zero ttl disables memoization.
func NewParser(ttl time.Duration) *Parser {
	if ttl <= 0 {
		return &Parser{}
	}
	return &Parser{
		memo: cache.NewMemoryCache[[]Fragment](ttl, 2*ttl),
	}
}

// Parse returns the fragments of rawText, reusing a previous parse of identical text.
// Callers get their own copy of the slice.
func (p *Parser) Parse(rawText string) []Fragment {
	if p == nil || p.memo == nil {
		return ParseMatches(rawText)
	}

	key := cache.Key("fragments", rawText)
	if fragments, ok := p.memo.Get(key); ok {
		return slices.Clone(fragments)
	}

	fragments := ParseMatches(rawText)
	p.memo.Set(key, fragments, 0)
	return slices.Clone(fragments)
}
