package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labeler/internal/domain"
	"labeler/internal/service"
)

// LabelingHandler serves the HTML review pages.
type LabelingHandler struct {
	labeling service.LabelingService
	logger   *zap.Logger
}

// NewLabelingHandler creates a new LabelingHandler.
func NewLabelingHandler(labeling service.LabelingService, logger *zap.Logger) *LabelingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LabelingHandler{labeling: labeling, logger: logger}
}

func labelPath(docID string, elems ...string) string {
	p := "/label/" + url.PathEscape(docID)
	for _, e := range elems {
		p += "/" + url.PathEscape(e)
	}
	return p
}

// renderError shows the error page with the status the domain error maps to.
func (h *LabelingHandler) renderError(c *gin.Context, err error) {
	status, _, msg := MapDomainError(err)
	logError(c, h.logger, status, err)
	c.HTML(status, "error.html", gin.H{"Title": http.StatusText(status), "Message": msg})
}

// Index handles GET /
func (h *LabelingHandler) Index(c *gin.Context) {
	docs, err := h.labeling.ListDocuments(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": "Postings", "Documents": docs})
}

// Start handles GET /label/:id and redirects to the first field.
func (h *LabelingHandler) Start(c *gin.Context) {
	c.Redirect(http.StatusFound, labelPath(c.Param("id"), string(service.StartState().Active)))
}

// View handles GET /label/:id/:field
func (h *LabelingHandler) View(c *gin.Context) {
	view, err := h.labeling.View(c.Request.Context(), c.Param("id"), c.Param("field"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "label.html", gin.H{
		"Title": fmt.Sprintf("%s · %s", view.DocumentID, view.ActiveField.Label()),
		"View":  view,
	})
}

// Save handles POST /label/:id/:field. The form carries the normalized value
// and the substring quotes, one per line.
func (h *LabelingHandler) Save(c *gin.Context) {
	docID := c.Param("id")
	result, err := h.labeling.Save(c.Request.Context(), &service.SaveFieldInput{
		DocumentID: docID,
		Field:      c.Param("field"),
		Value: domain.FieldValue{
			Value: c.PostForm("value"),
			Spans: domain.ParseSpans(c.PostForm("spans")),
		},
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	if result.State.Complete {
		c.Redirect(http.StatusSeeOther, labelPath(docID, "complete"))
		return
	}
	c.Redirect(http.StatusSeeOther, labelPath(docID, string(result.State.Active)))
}

// Complete handles GET /label/:id/complete
func (h *LabelingHandler) Complete(c *gin.Context) {
	summary, err := h.labeling.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "complete.html", gin.H{"Title": summary.DocumentID, "Summary": summary})
}
