package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"labeler/internal/domain"
	"labeler/internal/highlight"
	"labeler/internal/repository/filestore"
	"labeler/internal/service"
	"labeler/mocks"
)

const postingText = "We seek a Senior Engineer for our Berlin office. Acme Corp offers a competitive salary."

func testRecord(t *testing.T) *domain.Record {
	t.Helper()
	r, err := domain.NewRecord(map[domain.FieldName]domain.FieldValue{
		domain.FieldTitle:            {Value: "Engineer", Spans: domain.SpanSet{"Senior Engineer"}},
		domain.FieldCompany:          {Value: "Acme", Spans: domain.SpanSet{"Acme Corp"}},
		domain.FieldLocation:         {Value: "Berlin", Spans: domain.SpanSet{"Berlin"}},
		domain.FieldSalary:           {Value: "competitive", Spans: domain.SpanSet{"competitive salary"}},
		domain.FieldMinimumEducation: {Value: "", Spans: domain.SpanSet{}},
	})
	require.NoError(t, err)
	return r
}

func newMockService() (service.LabelingService, *mocks.MockRecordStore, *mocks.MockDocumentSource) {
	records := new(mocks.MockRecordStore)
	docs := new(mocks.MockDocumentSource)
	return service.NewLabelingService(records, docs, nil, nil), records, docs
}

// --- View ---

func TestLabelingService_View_Success(t *testing.T) {
	svc, records, docs := newMockService()
	records.On("Load", mock.Anything, "p1").Return(testRecord(t), nil)
	docs.On("ReadText", mock.Anything, "p1").Return(postingText, nil)

	view, err := svc.View(context.Background(), "p1", "company")
	require.NoError(t, err)

	assert.Equal(t, domain.FieldCompany, view.ActiveField)
	assert.Equal(t, domain.SpanSet{"Acme Corp"}, view.Spans)
	assert.Equal(t, postingText, view.Text)
	assert.Contains(t, view.Highlighted, "<mark>Acme Corp</mark>")
	assert.Len(t, view.Fields, 5)
	records.AssertExpectations(t)
	docs.AssertExpectations(t)
}

func TestLabelingService_View_UnknownField(t *testing.T) {
	svc, records, docs := newMockService()

	_, err := svc.View(context.Background(), "p1", "benefits")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
	records.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	docs.AssertNotCalled(t, "ReadText", mock.Anything, mock.Anything)
}

func TestLabelingService_View_RecordNotFound(t *testing.T) {
	svc, records, _ := newMockService()
	records.On("Load", mock.Anything, "p1").Return(nil, domain.ErrDocumentNotFound)

	_, err := svc.View(context.Background(), "p1", "title")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestLabelingService_View_MalformedRecord(t *testing.T) {
	svc, records, _ := newMockService()
	records.On("Load", mock.Anything, "p1").Return(nil, errors.Join(domain.ErrMalformedRecord, errors.New("missing salary")))

	_, err := svc.View(context.Background(), "p1", "title")
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestLabelingService_View_PostingNotFound(t *testing.T) {
	svc, records, docs := newMockService()
	records.On("Load", mock.Anything, "p1").Return(testRecord(t), nil)
	docs.On("ReadText", mock.Anything, "p1").Return("", domain.ErrDocumentNotFound)

	_, err := svc.View(context.Background(), "p1", "title")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestLabelingService_View_CustomHighlighter(t *testing.T) {
	records := new(mocks.MockRecordStore)
	docs := new(mocks.MockDocumentSource)
	h := highlight.New(highlight.WithMarker(highlight.Marker{Open: "[[", Close: "]]"}))
	svc := service.NewLabelingService(records, docs, h, nil)
	records.On("Load", mock.Anything, "p1").Return(testRecord(t), nil)
	docs.On("ReadText", mock.Anything, "p1").Return(postingText, nil)

	view, err := svc.View(context.Background(), "p1", "location")
	require.NoError(t, err)
	assert.Contains(t, view.Highlighted, "our [[Berlin]] office")
}

// --- Save ---

func TestLabelingService_Save_AdvancesToNextField(t *testing.T) {
	svc, records, _ := newMockService()
	value := domain.FieldValue{Value: "Acme Inc", Spans: domain.SpanSet{"Acme Corp"}}
	records.On("SaveField", mock.Anything, "p1", domain.FieldCompany, value).Return(nil)

	result, err := svc.Save(context.Background(), &service.SaveFieldInput{DocumentID: "p1", Field: "company", Value: value})
	require.NoError(t, err)

	assert.Equal(t, domain.FieldCompany, result.Saved)
	assert.Equal(t, service.WorkflowState{Active: domain.FieldLocation}, result.State)
	records.AssertExpectations(t)
}

func TestLabelingService_Save_LastFieldCompletes(t *testing.T) {
	svc, records, _ := newMockService()
	value := domain.FieldValue{Value: "BSc", Spans: domain.SpanSet{}}
	records.On("SaveField", mock.Anything, "p1", domain.FieldMinimumEducation, value).Return(nil)

	result, err := svc.Save(context.Background(), &service.SaveFieldInput{DocumentID: "p1", Field: "minimum_education", Value: value})
	require.NoError(t, err)

	assert.True(t, result.State.Complete)
	assert.Empty(t, result.State.Active)
}

func TestLabelingService_Save_UnknownField(t *testing.T) {
	svc, records, _ := newMockService()

	_, err := svc.Save(context.Background(), &service.SaveFieldInput{DocumentID: "p1", Field: "benefits", Value: domain.FieldValue{Spans: domain.SpanSet{}}})
	assert.ErrorIs(t, err, domain.ErrUnknownField)
	records.AssertNotCalled(t, "SaveField", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLabelingService_Save_InvalidValue(t *testing.T) {
	svc, records, _ := newMockService()

	_, err := svc.Save(context.Background(), &service.SaveFieldInput{DocumentID: "p1", Field: "title", Value: domain.FieldValue{Value: "x"}})
	assert.ErrorIs(t, err, domain.ErrInvalidFieldValue)
	records.AssertNotCalled(t, "SaveField", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLabelingService_Save_StoreErrorSurfacesUnmodified(t *testing.T) {
	svc, records, _ := newMockService()
	storeErr := errors.New("disk full")
	records.On("SaveField", mock.Anything, "p1", domain.FieldTitle, mock.Anything).Return(storeErr).Once()

	_, err := svc.Save(context.Background(), &service.SaveFieldInput{DocumentID: "p1", Field: "title", Value: domain.FieldValue{Spans: domain.SpanSet{}}})
	assert.Same(t, storeErr, err)
	records.AssertNumberOfCalls(t, "SaveField", 1)
}

// --- ListDocuments / Summary ---

func TestLabelingService_ListDocuments_Intersection(t *testing.T) {
	svc, records, docs := newMockService()
	records.On("List", mock.Anything).Return([]string{"c", "a", "orphan-record"}, nil)
	docs.On("List", mock.Anything).Return([]string{"a", "c", "orphan-posting"}, nil)

	list, err := svc.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []service.DocumentSummary{{ID: "a"}, {ID: "c"}}, list)
}

func TestLabelingService_ListDocuments_Error(t *testing.T) {
	svc, records, _ := newMockService()
	records.On("List", mock.Anything).Return(nil, errors.New("boom"))

	_, err := svc.ListDocuments(context.Background())
	assert.Error(t, err)
}

func TestLabelingService_Summary(t *testing.T) {
	svc, records, _ := newMockService()
	records.On("Load", mock.Anything, "p1").Return(testRecord(t), nil)

	summary, err := svc.Summary(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", summary.DocumentID)
	assert.Len(t, summary.Fields, 5)
}

// --- End to end over the file store ---

const e2eRecord = `{
    "title": {"value": "Engineer", "spans": ["Senior Engineer"]},
    "company": {"value": "Acme", "spans": ["Acme Corp"]},
    "location": {"value": "Berlin", "spans": ["Berlin"]},
    "salary": {"value": "competitive", "spans": ["competitive salary"]},
    "minimum_education": {"value": "", "spans": []}
}`

func newFileService(t *testing.T) service.LabelingService {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join("/data", filestore.LabelsDir), 0o755))
	require.NoError(t, fs.MkdirAll(filepath.Join("/data", filestore.PostingsDir), 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join("/data", filestore.LabelsDir, "p1.json"), []byte(e2eRecord), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join("/data", filestore.PostingsDir, "p1.txt"), []byte(postingText), 0o644))
	svc := service.NewLabelingService(
		filestore.NewRecordStore(fs, "/data"),
		filestore.NewDocumentSource(fs, "/data"),
		highlight.New(),
		nil,
	)
	return svc
}

func TestEndToEnd_TitleReviewAndSave(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()
	m := highlight.DefaultMarker

	view, err := svc.View(ctx, "p1", "title")
	require.NoError(t, err)
	assert.Equal(t, 1, highlight.Count(view.Highlighted, m))
	assert.Contains(t, view.Highlighted, "<mark>Senior Engineer</mark>")

	result, err := svc.Save(ctx, &service.SaveFieldInput{
		DocumentID: "p1",
		Field:      "title",
		Value:      domain.FieldValue{Value: "Senior Engineer", Spans: domain.ParseSpans("Senior Engineer\nEngineer")},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FieldCompany, result.State.Active)

	view, err = svc.View(ctx, "p1", "title")
	require.NoError(t, err)
	assert.Equal(t, domain.SpanSet{"Senior Engineer", "Engineer"}, view.Spans)
	assert.Equal(t, 2, highlight.Count(view.Highlighted, m))
	assert.Equal(t, postingText, highlight.Strip(view.Highlighted, m))

	summary, err := svc.Summary(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", summary.Fields[0].Value.Value)
	assert.Equal(t, "Acme", summary.Fields[1].Value.Value, "other fields unchanged")
}

func TestEndToEnd_SavingLastFieldCompletes(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	result, err := svc.Save(ctx, &service.SaveFieldInput{
		DocumentID: "p1",
		Field:      string(domain.FieldMinimumEducation),
		Value:      domain.FieldValue{Value: "none", Spans: domain.SpanSet{}},
	})
	require.NoError(t, err)
	assert.Equal(t, service.WorkflowState{Complete: true}, result.State)

	// Deterministic: saving the last field again yields the same terminal state.
	again, err := svc.Save(ctx, &service.SaveFieldInput{
		DocumentID: "p1",
		Field:      string(domain.FieldMinimumEducation),
		Value:      domain.FieldValue{Value: "none", Spans: domain.SpanSet{}},
	})
	require.NoError(t, err)
	assert.Equal(t, result.State, again.State)
}

func TestEndToEnd_UnknownDocument(t *testing.T) {
	svc := newFileService(t)

	_, err := svc.View(context.Background(), "nope", "title")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	_, err = svc.Save(context.Background(), &service.SaveFieldInput{DocumentID: "nope", Field: "title", Value: domain.FieldValue{Spans: domain.SpanSet{}}})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}
