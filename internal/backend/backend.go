// Package backend opens the record store and document source selected by
// configuration.
package backend

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"

	"labeler/internal/config"
	"labeler/internal/port"
	"labeler/internal/repository/filestore"
	"labeler/internal/repository/objectstore"
	"labeler/internal/repository/postgres"
	s3storage "labeler/internal/storage/s3"
)

// ErrImportUnsupported is returned by Importer for the file backend, which
// already reads the data directory directly.
var ErrImportUnsupported = errors.New("import requires the postgres or s3 backend")

// Backend bundles the stores of one storage backend.
type Backend struct {
	Name    string
	Records port.RecordStore
	Docs    port.DocumentSource

	// DB is set only for the postgres backend.
	DB *sqlx.DB

	importer port.RecordImporter
}

// Open connects to the backend named in cfg.Storage. fs is used by the file
// backend only.
func Open(cfg *config.Config, fs afero.Fs) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return &Backend{
			Name:    config.BackendFile,
			Records: filestore.NewRecordStore(fs, cfg.Storage.DataDir),
			Docs:    filestore.NewDocumentSource(fs, cfg.Storage.DataDir),
		}, nil

	case config.BackendPostgres:
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Name:     config.BackendPostgres,
			Records:  postgres.NewRecordRepo(db),
			Docs:     postgres.NewPostingRepo(db),
			DB:       db,
			importer: postgres.NewImporter(db),
		}, nil

	case config.BackendS3:
		client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, err
		}
		return FromObjectStorage(client, cfg.S3.Bucket, cfg.S3.Prefix), nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

// FromObjectStorage builds an s3 backend over an existing ObjectStorage.
func FromObjectStorage(storage port.ObjectStorage, bucket, prefix string) *Backend {
	return &Backend{
		Name:     config.BackendS3,
		Records:  objectstore.NewRecordStore(storage, bucket, prefix),
		Docs:     objectstore.NewDocumentSource(storage, bucket, prefix),
		importer: objectstore.NewImporter(storage, bucket, prefix),
	}
}

// Importer returns the writer used to seed this backend from a data directory.
func (b *Backend) Importer() (port.RecordImporter, error) {
	if b.importer == nil {
		return nil, ErrImportUnsupported
	}
	return b.importer, nil
}

// Close releases the database pool, if any.
func (b *Backend) Close() error {
	if b.DB != nil {
		return b.DB.Close()
	}
	return nil
}
