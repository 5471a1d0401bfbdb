package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"labeler/internal/domain"
	"labeler/internal/export"
	"labeler/internal/port"
)

// ExportService writes every stored record as a spreadsheet.
type ExportService interface {
	Export(ctx context.Context, format string, w io.Writer) error
}

type exportService struct {
	records port.RecordStore
	logger  *zap.Logger
}

// NewExportService creates a new ExportService implementation.
func NewExportService(records port.RecordStore, logger *zap.Logger) ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &exportService{records: records, logger: logger}
}

// Export loads all records and writes them in format. A malformed record
// aborts the export; partial datasets are never produced.
func (s *exportService) Export(ctx context.Context, format string, w io.Writer) error {
	if !export.ValidFormat(format) {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, format)
	}

	ids, err := s.records.List(ctx)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}
	rows := make([]export.Row, 0, len(ids))
	for _, id := range ids {
		record, err := s.records.Load(ctx, id)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", id, err)
		}
		rows = append(rows, export.Row{DocumentID: id, Record: record})
	}

	s.logger.Info("exporting records", zap.String("format", format), zap.Int("documents", len(rows)))

	if format == export.FormatXLSX {
		xw, err := export.NewXLSXWriter()
		if err != nil {
			return err
		}
		defer func() { _ = xw.Close() }()
		if err := xw.WriteRows(rows); err != nil {
			return err
		}
		_, err = xw.WriteTo(w)
		return err
	}

	if _, err := w.Write(export.BOM); err != nil {
		return err
	}
	cw := export.NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteRows(rows); err != nil {
		return err
	}
	return cw.Flush()
}
