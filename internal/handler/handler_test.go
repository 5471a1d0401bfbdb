package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"labeler/internal/domain"
	"labeler/internal/service"
	"labeler/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine returns a bare engine with the page templates loaded.
func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	tmpl, err := web.Templates()
	require.NoError(t, err)
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	return r
}

func doRequest(r http.Handler, method, target, body, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, target, http.NoBody)
	} else {
		req, _ = http.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	}
	r.ServeHTTP(w, req)
	return w
}

func sampleView() *service.View {
	fields := []domain.FieldEntry{
		{Name: domain.FieldTitle, Label: domain.FieldTitle.Label(), Value: domain.FieldValue{Value: "Engineer", Spans: domain.SpanSet{"Senior Engineer"}}},
		{Name: domain.FieldCompany, Label: domain.FieldCompany.Label(), Value: domain.FieldValue{Value: "Acme", Spans: domain.SpanSet{"Acme Corp", "Acme"}}},
		{Name: domain.FieldLocation, Label: domain.FieldLocation.Label(), Value: domain.FieldValue{Value: "Berlin", Spans: domain.SpanSet{}}},
		{Name: domain.FieldSalary, Label: domain.FieldSalary.Label(), Value: domain.FieldValue{Value: "", Spans: domain.SpanSet{}}},
		{Name: domain.FieldMinimumEducation, Label: domain.FieldMinimumEducation.Label(), Value: domain.FieldValue{Value: "", Spans: domain.SpanSet{}}},
	}
	return &service.View{
		DocumentID:  "p1",
		ActiveField: domain.FieldTitle,
		Fields:      fields,
		Spans:       fields[0].Value.Spans,
		Text:        "We seek a Senior Engineer & more.",
		Highlighted: "We seek a <mark>Senior Engineer</mark> &amp; more.",
	}
}
