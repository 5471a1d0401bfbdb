package backend

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"labeler/internal/port"
	"labeler/internal/repository/filestore"
)

// ImportDir copies every posting/record pair found under dataDir into dst.
// Records without a posting are skipped. Existing documents in dst are left
// untouched by the importers. It returns the number of documents imported.
func ImportDir(ctx context.Context, fs afero.Fs, dataDir string, dst port.RecordImporter, logger *zap.Logger) (int, error) {
	records := filestore.NewRecordStore(fs, dataDir)
	docs := filestore.NewDocumentSource(fs, dataDir)

	ids, err := records.List(ctx)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		text, err := docs.ReadText(ctx, id)
		if err != nil {
			logger.Warn("skipping record without posting", zap.String("document_id", id), zap.Error(err))
			continue
		}
		record, err := records.Load(ctx, id)
		if err != nil {
			return imported, fmt.Errorf("loading %s: %w", id, err)
		}
		if err := dst.Import(ctx, id, text, record); err != nil {
			return imported, fmt.Errorf("importing %s: %w", id, err)
		}
		imported++
		logger.Debug("imported document", zap.String("document_id", id))
	}
	return imported, nil
}
