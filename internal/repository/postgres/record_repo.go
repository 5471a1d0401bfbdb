package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"labeler/internal/domain"
	"labeler/internal/port"
)

type recordRepo struct {
	db *sqlx.DB
}

// NewRecordRepo creates a new PostgreSQL-backed RecordStore.
func NewRecordRepo(db *sqlx.DB) port.RecordStore {
	return &recordRepo{db: db}
}

func (r *recordRepo) Load(ctx context.Context, docID string) (*domain.Record, error) {
	var data []byte
	err := r.db.GetContext(ctx, &data,
		`SELECT data FROM extraction_records WHERE document_id = $1`, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recordRepo.Load %s: %w", docID, domain.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("recordRepo.Load: %w", err)
	}
	record, err := domain.UnmarshalRecord(data)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.Load %s: %w", docID, err)
	}
	return record, nil
}

// SaveField reads, updates and writes the record inside one transaction so
// the row is replaced as a whole or not at all.
func (r *recordRepo) SaveField(ctx context.Context, docID string, field domain.FieldName, value domain.FieldValue) error {
	if !field.IsValid() {
		return fmt.Errorf("recordRepo.SaveField: %w: %q", domain.ErrUnknownField, field)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recordRepo.SaveField begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var data []byte
	err = tx.GetContext(ctx, &data,
		`SELECT data FROM extraction_records WHERE document_id = $1 FOR UPDATE`, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("recordRepo.SaveField %s: %w", docID, domain.ErrDocumentNotFound)
		}
		return fmt.Errorf("recordRepo.SaveField select: %w", err)
	}

	record, err := domain.UnmarshalRecord(data)
	if err != nil {
		return fmt.Errorf("recordRepo.SaveField %s: %w", docID, err)
	}
	updated, err := record.WithField(field, value)
	if err != nil {
		return fmt.Errorf("recordRepo.SaveField %s: %w", docID, err)
	}
	out, err := domain.MarshalRecord(updated)
	if err != nil {
		return fmt.Errorf("recordRepo.SaveField %s: %w", docID, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE extraction_records SET data = $2, updated_at = NOW() WHERE document_id = $1`,
		docID, string(out))
	if err != nil {
		return fmt.Errorf("recordRepo.SaveField update: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recordRepo.SaveField commit: %w", err)
	}
	return nil
}

func (r *recordRepo) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		`SELECT document_id FROM extraction_records ORDER BY document_id`)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.List: %w", err)
	}
	return ids, nil
}

// Import inserts a posting and its extraction record. Existing rows are left
// untouched so an import can be re-run safely.
func (r *recordRepo) Import(ctx context.Context, docID, text string, record *domain.Record) error {
	data, err := domain.MarshalRecord(record)
	if err != nil {
		return fmt.Errorf("recordRepo.Import %s: %w", docID, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recordRepo.Import begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO postings (id, body) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		docID, text)
	if err != nil {
		return fmt.Errorf("recordRepo.Import posting: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO extraction_records (document_id, data) VALUES ($1, $2) ON CONFLICT (document_id) DO NOTHING`,
		docID, string(data))
	if err != nil {
		return fmt.Errorf("recordRepo.Import record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recordRepo.Import commit: %w", err)
	}
	return nil
}

// NewImporter creates a PostgreSQL-backed RecordImporter.
func NewImporter(db *sqlx.DB) port.RecordImporter {
	return &recordRepo{db: db}
}
