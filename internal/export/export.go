// Package export writes labeled records as CSV or XLSX for downstream use.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"labeler/internal/domain"
)

// Format names accepted by the export endpoints.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// spanSeparator joins spans inside a single cell.
const spanSeparator = " | "

// Row is one document's record.
type Row struct {
	DocumentID string
	Record     *domain.Record
}

// Columns returns the header row: the document id, then a value column and a
// spans column per field in the fixed order.
func Columns() []string {
	cols := []string{"Document ID"}
	for _, name := range domain.FieldNames() {
		cols = append(cols, name.Label(), name.Label()+" Spans")
	}
	return cols
}

func rowValues(r Row) []string {
	out := []string{r.DocumentID}
	for _, entry := range r.Record.Fields() {
		out = append(out, entry.Value.Value, strings.Join(entry.Value.Spans, spanSeparator))
	}
	return out
}

// ValidFormat reports whether format is supported.
func ValidFormat(format string) bool {
	return format == FormatCSV || format == FormatXLSX
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces unsafe characters with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{format}.
func BuildFilename(name, format string, now time.Time) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "labels"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, now.Format("2006-01-02"), format)
}
