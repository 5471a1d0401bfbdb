package export

import (
	"encoding/csv"
	"io"
)

// BOM is the UTF-8 byte order mark, written first for Excel on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting records.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(Columns())
}

// WriteRows writes one line per record.
func (w *CSVWriter) WriteRows(rows []Row) error {
	for _, r := range rows {
		if err := w.csv.Write(rowValues(r)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying buffer and returns any write error.
func (w *CSVWriter) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
