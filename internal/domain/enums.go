package domain

import "fmt"

// FieldName identifies one slot of an extraction record.
type FieldName string

const (
	FieldTitle            FieldName = "title"
	FieldCompany          FieldName = "company"
	FieldLocation         FieldName = "location"
	FieldSalary           FieldName = "salary"
	FieldMinimumEducation FieldName = "minimum_education"
)

// fieldOrder is the labeling order. Workflow sequencing is driven by it alone.
var fieldOrder = []FieldName{
	FieldTitle,
	FieldCompany,
	FieldLocation,
	FieldSalary,
	FieldMinimumEducation,
}

// fieldLabels maps each field to its display label.
var fieldLabels = map[FieldName]string{
	FieldTitle:            "Job Title",
	FieldCompany:          "Company",
	FieldLocation:         "Location",
	FieldSalary:           "Salary",
	FieldMinimumEducation: "Minimum Education",
}

// fieldAliases maps keys written by older extraction passes to current field names.
var fieldAliases = map[string]FieldName{
	"job_title": FieldTitle,
}

// FieldNames returns the fixed field order. The slice is a copy.
func FieldNames() []FieldName {
	out := make([]FieldName, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// IsValid reports whether f belongs to the fixed field set.
func (f FieldName) IsValid() bool {
	_, ok := fieldLabels[f]
	return ok
}

// Label returns the human-readable label, or the raw name for unknown fields.
func (f FieldName) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// ParseFieldName validates s against the fixed field set.
func ParseFieldName(s string) (FieldName, error) {
	f := FieldName(s)
	if f.IsValid() {
		return f, nil
	}
	if alias, ok := fieldAliases[s]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// FirstField returns the field the workflow starts on.
func FirstField() FieldName {
	return fieldOrder[0]
}

// NextField returns the successor of f in the fixed order. It returns
// ErrNoNextField for the last field and never wraps around.
func NextField(f FieldName) (FieldName, error) {
	for i, name := range fieldOrder {
		if name != f {
			continue
		}
		if i+1 == len(fieldOrder) {
			return "", fmt.Errorf("%w after %q", ErrNoNextField, f)
		}
		return fieldOrder[i+1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, f)
}
