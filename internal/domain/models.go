package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// SpanSet is an ordered list of verbatim quotes from the source document.
// Order is insertion order and is preserved on save.
type SpanSet []string

// ParseSpans splits newline-delimited operator input into a span set.
// Blank lines are dropped; surrounding whitespace inside a line is kept.
func ParseSpans(raw string) SpanSet {
	spans := SpanSet{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		spans = append(spans, line)
	}
	return spans
}

// String joins the spans with newlines, the inverse of ParseSpans.
func (s SpanSet) String() string {
	return strings.Join(s, "\n")
}

// FieldValue is the extracted fact for one field and the quotes supporting it.
type FieldValue struct {
	Value string  `json:"value"`
	Spans SpanSet `json:"spans"`
}

// Validate checks the value against the field value shape.
func (v FieldValue) Validate() error {
	if v.Spans == nil {
		return fmt.Errorf("%w: span set is required", ErrInvalidFieldValue)
	}
	return nil
}

func (v FieldValue) clone() FieldValue {
	return FieldValue{Value: v.Value, Spans: slices.Clone(v.Spans)}
}

// FieldEntry is one field of a record in display order.
type FieldEntry struct {
	Name  FieldName  `json:"name"`
	Label string     `json:"label"`
	Value FieldValue `json:"value"`
}

// Record holds the labels of one document. Every field of the fixed
// order is present; a Record is never mutated after construction.
type Record struct {
	fields map[FieldName]FieldValue
}

// NewRecord builds a record from a complete field mapping.
func NewRecord(fields map[FieldName]FieldValue) (*Record, error) {
	r := &Record{fields: make(map[FieldName]FieldValue, len(fieldOrder))}
	for _, name := range fieldOrder {
		v, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing field %q", ErrMalformedRecord, name)
		}
		if v.Spans == nil {
			return nil, fmt.Errorf("%w: field %q has no span set", ErrMalformedRecord, name)
		}
		r.fields[name] = v.clone()
	}
	for name := range fields {
		if !name.IsValid() {
			return nil, fmt.Errorf("%w: %w: %q", ErrMalformedRecord, ErrUnknownField, name)
		}
	}
	return r, nil
}

// Get returns the value stored for f.
func (r *Record) Get(f FieldName) (FieldValue, error) {
	v, ok := r.fields[f]
	if !ok {
		return FieldValue{}, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return v.clone(), nil
}

// WithField returns a copy of r with f replaced by v.
func (r *Record) WithField(f FieldName, v FieldValue) (*Record, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	next := &Record{fields: make(map[FieldName]FieldValue, len(r.fields))}
	for name, existing := range r.fields {
		next.fields[name] = existing.clone()
	}
	next.fields[f] = v.clone()
	return next, nil
}

// Fields returns every field in the fixed order.
func (r *Record) Fields() []FieldEntry {
	out := make([]FieldEntry, 0, len(fieldOrder))
	for _, name := range fieldOrder {
		out = append(out, FieldEntry{Name: name, Label: name.Label(), Value: r.fields[name].clone()})
	}
	return out
}

// Equal reports whether both records hold the same values and span order.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	for _, name := range fieldOrder {
		a, b := r.fields[name], other.fields[name]
		if a.Value != b.Value || !slices.Equal(a.Spans, b.Spans) {
			return false
		}
	}
	return true
}

var documentIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

// ValidateDocumentID rejects identifiers that are not safe to use as a file name.
// Such an identifier can never name a stored document, so the error also matches
// ErrDocumentNotFound.
func ValidateDocumentID(id string) error {
	if len(id) > 200 || !documentIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %w: %q", ErrDocumentNotFound, ErrInvalidDocumentID, id)
	}
	return nil
}
