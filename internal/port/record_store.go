package port

import (
	"context"

	"labeler/internal/domain"
)

// RecordStore persists one extraction record per document.
//
// SaveField replaces the whole record with a single field changed, atomically:
// either the update is fully visible or the store is unchanged. There is no
// cross-call locking; concurrent saves to one document race and the last
// write wins.
type RecordStore interface {
	Load(ctx context.Context, docID string) (*domain.Record, error)
	SaveField(ctx context.Context, docID string, field domain.FieldName, value domain.FieldValue) error
	List(ctx context.Context) ([]string, error)
}

// DocumentSource provides the read-only posting text for a document.
type DocumentSource interface {
	ReadText(ctx context.Context, docID string) (string, error)
	List(ctx context.Context) ([]string, error)
}

// RecordImporter loads upstream postings and extraction records into a
// backend. It is used by operator tooling, never by the labeling workflow.
type RecordImporter interface {
	Import(ctx context.Context, docID, text string, record *domain.Record) error
}
