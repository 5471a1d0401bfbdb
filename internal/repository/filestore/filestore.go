// Package filestore keeps postings and extraction records as one file per
// document under a data directory:
//
//	<root>/postings/<id>.txt
//	<root>/extracted_labels/<id>.json
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"labeler/internal/domain"
	"labeler/internal/port"
)

const (
	PostingsDir = "postings"
	LabelsDir   = "extracted_labels"

	postingExt = ".txt"
	labelExt   = ".json"
)

type recordStore struct {
	fs  afero.Fs
	dir string
}

// NewRecordStore creates a file-backed RecordStore rooted at root.
func NewRecordStore(fs afero.Fs, root string) port.RecordStore {
	return &recordStore{fs: fs, dir: filepath.Join(root, LabelsDir)}
}

func (s *recordStore) path(docID string) string {
	return filepath.Join(s.dir, docID+labelExt)
}

func (s *recordStore) Load(ctx context.Context, docID string) (*domain.Record, error) {
	if err := domain.ValidateDocumentID(docID); err != nil {
		return nil, fmt.Errorf("filestore.Load: %w", err)
	}
	data, err := afero.ReadFile(s.fs, s.path(docID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("filestore.Load %s: %w", docID, domain.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("filestore.Load %s: %w", docID, err)
	}
	record, err := domain.UnmarshalRecord(data)
	if err != nil {
		return nil, fmt.Errorf("filestore.Load %s: %w", docID, err)
	}
	return record, nil
}

func (s *recordStore) SaveField(ctx context.Context, docID string, field domain.FieldName, value domain.FieldValue) error {
	if !field.IsValid() {
		return fmt.Errorf("filestore.SaveField: %w: %q", domain.ErrUnknownField, field)
	}
	record, err := s.Load(ctx, docID)
	if err != nil {
		return err
	}
	updated, err := record.WithField(field, value)
	if err != nil {
		return fmt.Errorf("filestore.SaveField %s: %w", docID, err)
	}
	data, err := domain.MarshalRecord(updated)
	if err != nil {
		return fmt.Errorf("filestore.SaveField %s: %w", docID, err)
	}
	if err := writeAtomic(s.fs, s.path(docID), data); err != nil {
		return fmt.Errorf("filestore.SaveField %s: %w", docID, err)
	}
	return nil
}

func (s *recordStore) List(ctx context.Context) ([]string, error) {
	return listIDs(s.fs, s.dir, labelExt)
}

type documentSource struct {
	fs  afero.Fs
	dir string
}

// NewDocumentSource creates a file-backed DocumentSource rooted at root.
func NewDocumentSource(fs afero.Fs, root string) port.DocumentSource {
	return &documentSource{fs: fs, dir: filepath.Join(root, PostingsDir)}
}

func (s *documentSource) ReadText(ctx context.Context, docID string) (string, error) {
	if err := domain.ValidateDocumentID(docID); err != nil {
		return "", fmt.Errorf("filestore.ReadText: %w", err)
	}
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, docID+postingExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("filestore.ReadText %s: %w", docID, domain.ErrDocumentNotFound)
		}
		return "", fmt.Errorf("filestore.ReadText %s: %w", docID, err)
	}
	return string(data), nil
}

func (s *documentSource) List(ctx context.Context) ([]string, error) {
	return listIDs(s.fs, s.dir, postingExt)
}

// writeAtomic writes data to a temporary file next to path and renames it
// over path. On failure the temporary file is removed and path is untouched.
func writeAtomic(fs afero.Fs, path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	tmp, err := afero.TempFile(fs, dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = fs.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing record: %w", err)
	}
	return nil
}

func listIDs(fs afero.Fs, dir, ext string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("filestore.List %s: %w", dir, err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ext)
		if domain.ValidateDocumentID(id) != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
