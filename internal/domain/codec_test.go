package domain_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labeler/internal/domain"
)

func TestMarshalRecord_RoundTrip(t *testing.T) {
	r := sampleRecord(t)

	data, err := domain.MarshalRecord(r)
	require.NoError(t, err)

	decoded, err := domain.UnmarshalRecord(data)
	require.NoError(t, err)
	if diff := cmp.Diff(r.Fields(), decoded.Fields()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, r.Equal(decoded))
}

func TestMarshalRecord_FieldOrder(t *testing.T) {
	data, err := domain.MarshalRecord(sampleRecord(t))
	require.NoError(t, err)

	out := string(data)
	last := -1
	for _, name := range domain.FieldNames() {
		idx := strings.Index(out, `"`+string(name)+`"`)
		require.NotEqual(t, -1, idx, name)
		assert.Greater(t, idx, last, "field %s out of order", name)
		last = idx
	}
	assert.True(t, strings.HasPrefix(out, "{\n    \"title\": {"))
}

func TestMarshalRecord_EmptySpansAsList(t *testing.T) {
	data, err := domain.MarshalRecord(sampleRecord(t))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"spans": []`)
}

func TestMarshalRecord_KeepsMarkupCharacters(t *testing.T) {
	r, err := sampleRecord(t).WithField(domain.FieldCompany, domain.FieldValue{
		Value: "Smith & Sons",
		Spans: domain.SpanSet{"<b>Smith & Sons</b>"},
	})
	require.NoError(t, err)

	data, err := domain.MarshalRecord(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"<b>Smith & Sons</b>"`)
}

func TestUnmarshalRecord_SingleSpanVariant(t *testing.T) {
	data := `{
		"title": {"value": "Engineer", "span": "Senior Engineer"},
		"company": {"value": "Acme", "span": ""},
		"location": {"value": "Berlin", "span": "Berlin, Germany"},
		"salary": {"value": "n/a", "span": "competitive"},
		"minimum_education": {"value": "BSc", "span": "BSc"}
	}`

	r, err := domain.UnmarshalRecord([]byte(data))
	require.NoError(t, err)

	title, _ := r.Get(domain.FieldTitle)
	assert.Equal(t, domain.SpanSet{"Senior Engineer"}, title.Spans)
	company, _ := r.Get(domain.FieldCompany)
	assert.Equal(t, domain.SpanSet{}, company.Spans)
}

func TestUnmarshalRecord_LegacyExtractorForm(t *testing.T) {
	data := `{
		"job_title": {"fact": "Engineer", "substring_quote": "Senior Engineer"},
		"company": {"fact": "Acme", "substring_quote": ["Acme Corp", "Acme"]},
		"location": {"fact": "Berlin", "substring_quote": "Berlin"},
		"salary": {"fact": "n/a", "substring_quote": ""},
		"minimum_education": {"fact": "BSc", "substring_quote": "BSc"}
	}`

	r, err := domain.UnmarshalRecord([]byte(data))
	require.NoError(t, err)

	title, err := r.Get(domain.FieldTitle)
	require.NoError(t, err)
	assert.Equal(t, domain.FieldValue{Value: "Engineer", Spans: domain.SpanSet{"Senior Engineer"}}, title)

	company, _ := r.Get(domain.FieldCompany)
	assert.Equal(t, domain.SpanSet{"Acme Corp", "Acme"}, company.Spans)
}

func TestUnmarshalRecord_CanonicalWinsOverAlias(t *testing.T) {
	data := `{
		"title": {"value": "canonical", "spans": []},
		"job_title": {"value": "legacy", "spans": []},
		"company": {"value": "", "spans": []},
		"location": {"value": "", "spans": []},
		"salary": {"value": "", "spans": []},
		"minimum_education": {"value": "", "spans": []}
	}`

	r, err := domain.UnmarshalRecord([]byte(data))
	require.NoError(t, err)
	title, _ := r.Get(domain.FieldTitle)
	assert.Equal(t, "canonical", title.Value)
}

func TestUnmarshalRecord_IgnoresExtraKeys(t *testing.T) {
	data := `{
		"title": {"value": "a", "spans": [], "confidence": 0.9},
		"company": {"value": "", "spans": []},
		"location": {"value": "", "spans": []},
		"salary": {"value": "", "spans": []},
		"minimum_education": {"value": "", "spans": []},
		"benefits": {"value": "dental", "spans": []}
	}`

	_, err := domain.UnmarshalRecord([]byte(data))
	assert.NoError(t, err)
}

func TestUnmarshalRecord_Malformed(t *testing.T) {
	full := func(override string) string {
		fields := map[string]string{
			"title":             `{"value": "a", "spans": ["a"]}`,
			"company":           `{"value": "b", "spans": []}`,
			"location":          `{"value": "c", "spans": []}`,
			"salary":            `{"value": "d", "spans": []}`,
			"minimum_education": `{"value": "e", "spans": []}`,
		}
		parts := []string{}
		for _, name := range domain.FieldNames() {
			v := fields[string(name)]
			if override != "" && strings.HasPrefix(override, string(name)+"=") {
				v = strings.TrimPrefix(override, string(name)+"=")
				if v == "-" {
					continue
				}
			}
			parts = append(parts, `"`+string(name)+`": `+v)
		}
		return "{" + strings.Join(parts, ",") + "}"
	}

	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json"},
		{"array", "[]"},
		{"null", "null"},
		{"missing field", full("salary=-")},
		{"null field", full("salary=null")},
		{"field not object", full("salary=\"d\"")},
		{"missing value", full(`company={"spans": []}`)},
		{"value not string", full(`company={"value": 3, "spans": []}`)},
		{"null value", full(`company={"value": null, "spans": []}`)},
		{"missing spans", full(`location={"value": "c"}`)},
		{"null spans", full(`location={"value": "c", "spans": null}`)},
		{"spans wrong type", full(`location={"value": "c", "spans": [1, 2]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.UnmarshalRecord([]byte(tt.data))
			assert.ErrorIs(t, err, domain.ErrMalformedRecord)
		})
	}
}
