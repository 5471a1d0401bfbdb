// Package objectstore keeps postings and extraction records in an object
// store bucket. A PUT replaces the whole object, so record saves are atomic
// without temp-file handling.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"labeler/internal/domain"
	"labeler/internal/port"
)

const (
	postingsPrefix = "postings/"
	labelsPrefix   = "extracted_labels/"

	postingExt = ".txt"
	labelExt   = ".json"
)

type recordStore struct {
	storage port.ObjectStorage
	bucket  string
	prefix  string
}

// NewRecordStore creates a RecordStore over storage. prefix is prepended to
// every key, e.g. "jobs/" gives "jobs/extracted_labels/<id>.json".
func NewRecordStore(storage port.ObjectStorage, bucket, prefix string) port.RecordStore {
	return &recordStore{storage: storage, bucket: bucket, prefix: path.Join(prefix, labelsPrefix) + "/"}
}

func (s *recordStore) key(docID string) string {
	return s.prefix + docID + labelExt
}

func (s *recordStore) Load(ctx context.Context, docID string) (*domain.Record, error) {
	if err := domain.ValidateDocumentID(docID); err != nil {
		return nil, fmt.Errorf("objectstore.Load: %w", err)
	}
	data, err := s.storage.Download(ctx, s.bucket, s.key(docID))
	if err != nil {
		if errors.Is(err, port.ErrObjectNotFound) {
			return nil, fmt.Errorf("objectstore.Load %s: %w", docID, domain.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("objectstore.Load %s: %w", docID, err)
	}
	record, err := domain.UnmarshalRecord(data)
	if err != nil {
		return nil, fmt.Errorf("objectstore.Load %s: %w", docID, err)
	}
	return record, nil
}

func (s *recordStore) SaveField(ctx context.Context, docID string, field domain.FieldName, value domain.FieldValue) error {
	if !field.IsValid() {
		return fmt.Errorf("objectstore.SaveField: %w: %q", domain.ErrUnknownField, field)
	}
	record, err := s.Load(ctx, docID)
	if err != nil {
		return err
	}
	updated, err := record.WithField(field, value)
	if err != nil {
		return fmt.Errorf("objectstore.SaveField %s: %w", docID, err)
	}
	data, err := domain.MarshalRecord(updated)
	if err != nil {
		return fmt.Errorf("objectstore.SaveField %s: %w", docID, err)
	}
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         s.key(docID),
		Body:        bytes.NewReader(data),
		ContentType: "application/json",
		Size:        int64(len(data)),
	})
	if err != nil {
		return fmt.Errorf("objectstore.SaveField %s: %w", docID, err)
	}
	return nil
}

func (s *recordStore) List(ctx context.Context) ([]string, error) {
	return listIDs(ctx, s.storage, s.bucket, s.prefix, labelExt)
}

type documentSource struct {
	storage port.ObjectStorage
	bucket  string
	prefix  string
}

// NewDocumentSource creates a DocumentSource over storage.
func NewDocumentSource(storage port.ObjectStorage, bucket, prefix string) port.DocumentSource {
	return &documentSource{storage: storage, bucket: bucket, prefix: path.Join(prefix, postingsPrefix) + "/"}
}

func (s *documentSource) ReadText(ctx context.Context, docID string) (string, error) {
	if err := domain.ValidateDocumentID(docID); err != nil {
		return "", fmt.Errorf("objectstore.ReadText: %w", err)
	}
	data, err := s.storage.Download(ctx, s.bucket, s.prefix+docID+postingExt)
	if err != nil {
		if errors.Is(err, port.ErrObjectNotFound) {
			return "", fmt.Errorf("objectstore.ReadText %s: %w", docID, domain.ErrDocumentNotFound)
		}
		return "", fmt.Errorf("objectstore.ReadText %s: %w", docID, err)
	}
	return string(data), nil
}

func (s *documentSource) List(ctx context.Context) ([]string, error) {
	return listIDs(ctx, s.storage, s.bucket, s.prefix, postingExt)
}

func listIDs(ctx context.Context, storage port.ObjectStorage, bucket, prefix, ext string) ([]string, error) {
	keys, err := storage.List(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("objectstore.List %s: %w", prefix, err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimPrefix(key, prefix)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, ext) {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if domain.ValidateDocumentID(id) != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type importer struct {
	storage port.ObjectStorage
	bucket  string
	prefix  string
}

// NewImporter creates a RecordImporter that uploads postings and records.
func NewImporter(storage port.ObjectStorage, bucket, prefix string) port.RecordImporter {
	return &importer{storage: storage, bucket: bucket, prefix: prefix}
}

// Import uploads the posting first and the record second. Documents whose
// record already exists are left untouched so corrections survive a re-import.
// If the record upload fails the posting is removed again.
func (i *importer) Import(ctx context.Context, docID, text string, record *domain.Record) error {
	if err := domain.ValidateDocumentID(docID); err != nil {
		return fmt.Errorf("objectstore.Import: %w", err)
	}
	labelKey := path.Join(i.prefix, labelsPrefix, docID+labelExt)
	_, err := i.storage.Download(ctx, i.bucket, labelKey)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, port.ErrObjectNotFound):
		return fmt.Errorf("objectstore.Import %s: %w", labelKey, err)
	}

	data, err := domain.MarshalRecord(record)
	if err != nil {
		return fmt.Errorf("objectstore.Import %s: %w", docID, err)
	}
	postingKey := path.Join(i.prefix, postingsPrefix, docID+postingExt)
	if _, err := i.storage.Upload(ctx, port.UploadInput{
		Bucket:      i.bucket,
		Key:         postingKey,
		Body:        strings.NewReader(text),
		ContentType: "text/plain; charset=utf-8",
		Size:        int64(len(text)),
	}); err != nil {
		return fmt.Errorf("objectstore.Import %s: %w", postingKey, err)
	}
	if _, err := i.storage.Upload(ctx, port.UploadInput{
		Bucket:      i.bucket,
		Key:         labelKey,
		Body:        bytes.NewReader(data),
		ContentType: "application/json",
		Size:        int64(len(data)),
	}); err != nil {
		if delErr := i.storage.Delete(ctx, i.bucket, postingKey); delErr != nil {
			return fmt.Errorf("objectstore.Import %s: %w", labelKey, errors.Join(err, delErr))
		}
		return fmt.Errorf("objectstore.Import %s: %w", labelKey, err)
	}
	return nil
}
