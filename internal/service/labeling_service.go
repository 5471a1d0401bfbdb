package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"labeler/internal/domain"
	"labeler/internal/highlight"
	"labeler/internal/port"
)

// DocumentSummary is one entry of the document index.
type DocumentSummary struct {
	ID string `json:"id"`
}

// View is everything needed to render one field of a document for review.
type View struct {
	DocumentID  string              `json:"document_id"`
	ActiveField domain.FieldName    `json:"active_field"`
	Fields      []domain.FieldEntry `json:"fields"`
	Spans       domain.SpanSet      `json:"spans"`
	Text        string              `json:"text"`
	Highlighted string              `json:"highlighted"`
}

// Summary lists every field of a document, shown once labeling is complete.
type Summary struct {
	DocumentID string              `json:"document_id"`
	Fields     []domain.FieldEntry `json:"fields"`
}

// SaveFieldInput is the DTO for saving a single field.
type SaveFieldInput struct {
	DocumentID string
	Field      string
	Value      domain.FieldValue
}

// SaveResult reports the saved field and the workflow state that follows it.
type SaveResult struct {
	DocumentID string           `json:"document_id"`
	Saved      domain.FieldName `json:"saved_field"`
	State      WorkflowState    `json:"state"`
}

// LabelingService defines the field-by-field review workflow.
type LabelingService interface {
	ListDocuments(ctx context.Context) ([]DocumentSummary, error)
	View(ctx context.Context, docID, field string) (*View, error)
	Save(ctx context.Context, input *SaveFieldInput) (*SaveResult, error)
	Summary(ctx context.Context, docID string) (*Summary, error)
}

type labelingService struct {
	records     port.RecordStore
	docs        port.DocumentSource
	highlighter *highlight.Highlighter
	logger      *zap.Logger
}

// NewLabelingService creates a new LabelingService implementation.
func NewLabelingService(
	records port.RecordStore,
	docs port.DocumentSource,
	highlighter *highlight.Highlighter,
	logger *zap.Logger,
) LabelingService {
	if highlighter == nil {
		highlighter = highlight.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &labelingService{
		records:     records,
		docs:        docs,
		highlighter: highlighter,
		logger:      logger,
	}
}

// ListDocuments returns the documents that have both a posting and a record.
func (s *labelingService) ListDocuments(ctx context.Context) ([]DocumentSummary, error) {
	recordIDs, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	postingIDs, err := s.docs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing postings: %w", err)
	}

	hasPosting := make(map[string]bool, len(postingIDs))
	for _, id := range postingIDs {
		hasPosting[id] = true
	}
	out := make([]DocumentSummary, 0, len(recordIDs))
	for _, id := range recordIDs {
		if hasPosting[id] {
			out = append(out, DocumentSummary{ID: id})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// View loads the record and posting and highlights the spans of field.
// Any field may be viewed; the requested field becomes the active one.
func (s *labelingService) View(ctx context.Context, docID, field string) (*View, error) {
	name, err := domain.ParseFieldName(field)
	if err != nil {
		return nil, err
	}
	record, err := s.records.Load(ctx, docID)
	if err != nil {
		return nil, err
	}
	text, err := s.docs.ReadText(ctx, docID)
	if err != nil {
		return nil, err
	}
	value, err := record.Get(name)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("rendering field",
		zap.String("document_id", docID),
		zap.String("field", string(name)),
		zap.Int("spans", len(value.Spans)))

	return &View{
		DocumentID:  docID,
		ActiveField: name,
		Fields:      record.Fields(),
		Spans:       value.Spans,
		Text:        text,
		Highlighted: s.highlighter.Highlight(text, value.Spans),
	}, nil
}

// Save persists one field and advances the workflow. Saving the last field
// yields the complete state rather than an error.
func (s *labelingService) Save(ctx context.Context, input *SaveFieldInput) (*SaveResult, error) {
	name, err := domain.ParseFieldName(input.Field)
	if err != nil {
		return nil, err
	}
	if err := input.Value.Validate(); err != nil {
		return nil, err
	}
	if err := s.records.SaveField(ctx, input.DocumentID, name, input.Value); err != nil {
		return nil, err
	}

	state, err := WorkflowState{Active: name}.Advance()
	if err != nil {
		return nil, err
	}

	s.logger.Info("field saved",
		zap.String("document_id", input.DocumentID),
		zap.String("field", string(name)),
		zap.Int("spans", len(input.Value.Spans)),
		zap.Bool("complete", state.Complete))

	return &SaveResult{DocumentID: input.DocumentID, Saved: name, State: state}, nil
}

// Summary returns all fields of a document in order.
func (s *labelingService) Summary(ctx context.Context, docID string) (*Summary, error) {
	record, err := s.records.Load(ctx, docID)
	if err != nil {
		return nil, err
	}
	return &Summary{DocumentID: docID, Fields: record.Fields()}, nil
}
