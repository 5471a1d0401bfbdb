package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	labelsSheet = "Labels"
	spansSheet  = "Spans"
)

// XLSXWriter builds a workbook with a wide "Labels" sheet (one row per
// document) and a long "Spans" sheet (one row per span).
type XLSXWriter struct {
	file      *excelize.File
	labelsRow int
	spansRow  int
}

// NewXLSXWriter creates an empty workbook with header rows in place.
func NewXLSXWriter() (*XLSXWriter, error) {
	f := excelize.NewFile()
	w := &XLSXWriter{file: f, labelsRow: 1, spansRow: 1}
	if err := w.init(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

func (w *XLSXWriter) init() error {
	if err := w.file.SetSheetName("Sheet1", labelsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := w.file.NewSheet(spansSheet); err != nil {
		return fmt.Errorf("creating spans sheet: %w", err)
	}
	if err := w.setRow(labelsSheet, w.labelsRow, Columns()); err != nil {
		return err
	}
	return w.setRow(spansSheet, w.spansRow, []string{"Document ID", "Field", "Span Index", "Span"})
}

// WriteRows appends records to both sheets.
func (w *XLSXWriter) WriteRows(rows []Row) error {
	for _, r := range rows {
		w.labelsRow++
		if err := w.setRow(labelsSheet, w.labelsRow, rowValues(r)); err != nil {
			return err
		}
		for _, entry := range r.Record.Fields() {
			for i, span := range entry.Value.Spans {
				w.spansRow++
				row := []string{r.DocumentID, string(entry.Name), strconv.Itoa(i), span}
				if err := w.setRow(spansSheet, w.spansRow, row); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// WriteTo serializes the workbook to out.
func (w *XLSXWriter) WriteTo(out io.Writer) (int64, error) {
	return w.file.WriteTo(out)
}

// Close releases the workbook. Callers must close the writer whether or not
// WriteTo was reached.
func (w *XLSXWriter) Close() error {
	return w.file.Close()
}

func (w *XLSXWriter) setRow(sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
