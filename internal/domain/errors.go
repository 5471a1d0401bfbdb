package domain

import "errors"

var (
	ErrDocumentNotFound        = errors.New("document not found")
	ErrMalformedRecord         = errors.New("malformed extraction record")
	ErrUnknownField            = errors.New("unknown field")
	ErrNoNextField             = errors.New("no next field")
	ErrInvalidFieldValue       = errors.New("invalid field value")
	ErrInvalidDocumentID       = errors.New("invalid document id")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)
