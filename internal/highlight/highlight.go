// Package highlight marks occurrences of evidence spans inside a document.
package highlight

import "strings"

// Marker is the pair of strings wrapped around every matched span.
type Marker struct {
	Open  string
	Close string
}

// DefaultMarker wraps matches in an HTML <mark> element.
var DefaultMarker = Marker{Open: "<mark>", Close: "</mark>"}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithMarker overrides the marker strings.
func WithMarker(m Marker) Option {
	return func(h *Highlighter) {
		h.marker = m
	}
}

// WithEscaper sets a function applied to document text (never to markers)
// when rendering, e.g. html.EscapeString.
func WithEscaper(fn func(string) string) Option {
	return func(h *Highlighter) {
		h.escape = fn
	}
}

// Highlighter wraps span occurrences in markers.
type Highlighter struct {
	marker Marker
	escape func(string) string
}

// New creates a Highlighter using DefaultMarker and no escaping.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{marker: DefaultMarker}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Marker returns the marker pair in use.
func (h *Highlighter) Marker() Marker {
	return h.marker
}

type piece struct {
	text   string
	marker bool
}

// Highlight wraps every occurrence of each non-empty span in text.
//
// Spans are applied in order. A span only matches inside document text seen so
// far, never across or inside an existing marker, so overlapping spans nest
// or are skipped depending on their order. Spans that do not occur are ignored.
func (h *Highlighter) Highlight(text string, spans []string) string {
	if text == "" || len(spans) == 0 {
		return h.render([]piece{{text: text}})
	}

	pieces := []piece{{text: text}}
	for _, span := range spans {
		if span == "" {
			continue
		}
		pieces = h.apply(pieces, span)
	}
	return h.render(pieces)
}

func (h *Highlighter) apply(pieces []piece, span string) []piece {
	out := make([]piece, 0, len(pieces))
	for _, p := range pieces {
		if p.marker || !strings.Contains(p.text, span) {
			out = append(out, p)
			continue
		}
		rest := p.text
		for {
			idx := strings.Index(rest, span)
			if idx < 0 {
				break
			}
			if idx > 0 {
				out = append(out, piece{text: rest[:idx]})
			}
			out = append(out,
				piece{text: h.marker.Open, marker: true},
				piece{text: span},
				piece{text: h.marker.Close, marker: true},
			)
			rest = rest[idx+len(span):]
		}
		if rest != "" {
			out = append(out, piece{text: rest})
		}
	}
	return out
}

func (h *Highlighter) render(pieces []piece) string {
	var b strings.Builder
	for _, p := range pieces {
		if p.marker || h.escape == nil {
			b.WriteString(p.text)
			continue
		}
		b.WriteString(h.escape(p.text))
	}
	return b.String()
}

// Highlight applies DefaultMarker without escaping.
func Highlight(text string, spans []string) string {
	return New().Highlight(text, spans)
}

// Strip removes every marker from annotated text.
func Strip(annotated string, m Marker) string {
	return strings.NewReplacer(m.Open, "", m.Close, "").Replace(annotated)
}

// Count returns the number of marked regions in annotated text.
func Count(annotated string, m Marker) int {
	if m.Open == "" {
		return 0
	}
	return strings.Count(annotated, m.Open)
}
