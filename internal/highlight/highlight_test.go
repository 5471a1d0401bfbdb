package highlight_test

import (
	"html"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"labeler/internal/highlight"
)

var corpus = []string{
	"",
	"We seek a Senior Engineer for our platform team.",
	"aaaa",
	"Salary: $120,000 - $140,000\nLocation: Berlin\n\nBerlin office is hybrid.",
	"  leading and trailing whitespace  \t\n",
	"unicode: Zürich, München, 東京",
}

func TestHighlight_NoSpansIsIdentity(t *testing.T) {
	for _, text := range corpus {
		assert.Equal(t, text, highlight.Highlight(text, nil))
		assert.Equal(t, text, highlight.Highlight(text, []string{}))
	}
}

func TestHighlight_EmptyText(t *testing.T) {
	assert.Equal(t, "", highlight.Highlight("", []string{"x", ""}))
}

func TestHighlight_EveryOccurrenceMarked(t *testing.T) {
	m := highlight.DefaultMarker
	cases := []struct {
		text string
		span string
	}{
		{corpus[1], "Senior Engineer"},
		{corpus[1], "e"},
		{corpus[2], "aa"},
		{corpus[3], "Berlin"},
		{corpus[3], "\n"},
		{corpus[4], " "},
		{corpus[5], "ü"},
	}
	for _, tc := range cases {
		got := highlight.Highlight(tc.text, []string{tc.span})
		assert.Equal(t, strings.Count(tc.text, tc.span), highlight.Count(got, m), "span %q", tc.span)
		assert.Equal(t, tc.text, highlight.Strip(got, m), "span %q", tc.span)
	}
}

func TestHighlight_NonOverlappingOccurrences(t *testing.T) {
	got := highlight.Highlight("aaaa", []string{"aa"})
	assert.Equal(t, "<mark>aa</mark><mark>aa</mark>", got)
}

func TestHighlight_MissingSpanLeavesTextUnchanged(t *testing.T) {
	for _, text := range corpus {
		assert.Equal(t, text, highlight.Highlight(text, []string{"not present anywhere"}))
	}
}

func TestHighlight_EmptySpanSkipped(t *testing.T) {
	text := corpus[1]
	assert.Equal(t, text, highlight.Highlight(text, []string{""}))
}

func TestHighlight_MultipleSpans(t *testing.T) {
	text := "Salary: $120,000. Location: Berlin."
	got := highlight.Highlight(text, []string{"$120,000", "missing", "Berlin"})
	assert.Equal(t, "Salary: <mark>$120,000</mark>. Location: <mark>Berlin</mark>.", got)
}

func TestHighlight_OverlapNests(t *testing.T) {
	text := "We seek a Senior Engineer for our team."
	got := highlight.Highlight(text, []string{"Senior Engineer", "Engineer"})

	assert.Equal(t, "We seek a <mark>Senior <mark>Engineer</mark></mark> for our team.", got)
	assert.Equal(t, 2, highlight.Count(got, highlight.DefaultMarker))
	assert.Equal(t, text, highlight.Strip(got, highlight.DefaultMarker))
}

func TestHighlight_OverlapIsOrderDependent(t *testing.T) {
	text := "Senior Engineer for"
	got := highlight.Highlight(text, []string{"Senior Engineer", "Engineer for"})

	// The second span crosses a closing marker and is not matched.
	assert.Equal(t, "<mark>Senior Engineer</mark> for", got)

	reversed := highlight.Highlight(text, []string{"Engineer for", "Senior Engineer"})
	assert.Equal(t, "Senior <mark>Engineer for</mark>", reversed)
}

func TestHighlight_MarkerTextNeverMatched(t *testing.T) {
	got := highlight.Highlight("a mark here", []string{"mark", "mark"})
	assert.Equal(t, "a <mark><mark>mark</mark></mark> here", got)
}

func TestHighlighter_CustomMarker(t *testing.T) {
	m := highlight.Marker{Open: "[[", Close: "]]"}
	h := highlight.New(highlight.WithMarker(m))

	got := h.Highlight("a Senior Engineer", []string{"Engineer"})
	assert.Equal(t, "a Senior [[Engineer]]", got)
	assert.Equal(t, m, h.Marker())
	assert.Equal(t, 1, highlight.Count(got, m))
}

func TestHighlighter_EscaperAppliesToTextOnly(t *testing.T) {
	h := highlight.New(highlight.WithEscaper(html.EscapeString))

	got := h.Highlight(`<b>R&D</b> Engineer`, []string{"R&D"})
	assert.Equal(t, "&lt;b&gt;<mark>R&amp;D</mark>&lt;/b&gt; Engineer", got)
}

func TestHighlighter_EscaperWithoutSpans(t *testing.T) {
	h := highlight.New(highlight.WithEscaper(html.EscapeString))
	assert.Equal(t, "a &lt; b", h.Highlight("a < b", nil))
}
