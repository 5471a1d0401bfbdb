package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// recordIndent matches the indentation used by the upstream extraction pass.
const recordIndent = "    "

// MarshalRecord encodes r as a JSON object keyed by field name in the fixed order.
func MarshalRecord(r *Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range fieldOrder {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeJSON(string(name))
		if err != nil {
			return nil, fmt.Errorf("MarshalRecord: %w", err)
		}
		v := r.fields[name]
		spans := v.Spans
		if spans == nil {
			spans = SpanSet{}
		}
		val, err := encodeJSON(FieldValue{Value: v.Value, Spans: spans})
		if err != nil {
			return nil, fmt.Errorf("MarshalRecord: field %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", recordIndent); err != nil {
		return nil, fmt.Errorf("MarshalRecord: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// encodeJSON is json.Marshal without HTML escaping, so quotes containing
// <, > or & are stored as written.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// UnmarshalRecord decodes and validates a persisted record. It accepts the
// canonical {"value","spans"} form, the single-span {"value","span"} form and
// the legacy {"fact","substring_quote"} form written by older extractors.
func UnmarshalRecord(data []byte) (*Record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: record is not an object", ErrMalformedRecord)
	}

	fields := make(map[FieldName]FieldValue, len(fieldOrder))
	// Canonical keys win over aliases when both are present.
	for key, msg := range raw {
		name := FieldName(key)
		if !name.IsValid() {
			continue
		}
		v, err := decodeFieldValue(msg)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrMalformedRecord, name, err)
		}
		fields[name] = v
	}
	for alias, name := range fieldAliases {
		msg, ok := raw[alias]
		if !ok {
			continue
		}
		if _, seen := fields[name]; seen {
			continue
		}
		v, err := decodeFieldValue(msg)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrMalformedRecord, alias, err)
		}
		fields[name] = v
	}

	return NewRecord(fields)
}

func decodeFieldValue(msg json.RawMessage) (FieldValue, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(msg, &obj); err != nil {
		return FieldValue{}, err
	}
	if obj == nil {
		return FieldValue{}, errors.New("field value is null")
	}

	value, err := firstString(obj, "value", "fact")
	if err != nil {
		return FieldValue{}, err
	}

	if rawSpans, ok := obj["spans"]; ok {
		spans, err := decodeSpans(rawSpans)
		if err != nil {
			return FieldValue{}, fmt.Errorf("spans: %w", err)
		}
		return FieldValue{Value: value, Spans: spans}, nil
	}
	for _, key := range []string{"span", "substring_quote"} {
		rawSpan, ok := obj[key]
		if !ok {
			continue
		}
		spans, err := decodeSpans(rawSpan)
		if err != nil {
			return FieldValue{}, fmt.Errorf("%s: %w", key, err)
		}
		return FieldValue{Value: value, Spans: spans}, nil
	}
	return FieldValue{}, errors.New("missing span set")
}

func firstString(obj map[string]json.RawMessage, keys ...string) (string, error) {
	for _, key := range keys {
		msg, ok := obj[key]
		if !ok {
			continue
		}
		var s *string
		if err := json.Unmarshal(msg, &s); err != nil || s == nil {
			return "", fmt.Errorf("%s must be a string", key)
		}
		return *s, nil
	}
	return "", errors.New("missing value string")
}

// decodeSpans accepts a list of strings or a single string. A single empty
// string means no evidence was found and yields an empty set.
func decodeSpans(msg json.RawMessage) (SpanSet, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		if s == "" {
			return SpanSet{}, nil
		}
		return SpanSet{s}, nil
	}
	var spans []string
	if err := json.Unmarshal(trimmed, &spans); err != nil {
		return nil, errors.New("must be a string or a list of strings")
	}
	if spans == nil {
		return nil, errors.New("must not be null")
	}
	return SpanSet(spans), nil
}
