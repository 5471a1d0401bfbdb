package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labeler/internal/domain"
	"labeler/internal/export"
	"labeler/internal/service"
)

// APIHandler serves the JSON API under /api/v1.
type APIHandler struct {
	labeling service.LabelingService
	exporter service.ExportService
	logger   *zap.Logger
	now      func() time.Time
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(labeling service.LabelingService, exporter service.ExportService, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{labeling: labeling, exporter: exporter, logger: logger, now: time.Now}
}

// SaveFieldRequest is the body of PUT /api/v1/documents/:id/fields/:field.
type SaveFieldRequest struct {
	Value string   `json:"value"`
	Spans []string `json:"spans" binding:"required"`
}

// ListDocuments handles GET /api/v1/documents
// @Summary List documents
// @Description List every document that has an extraction record, sorted by ID, with its review state.
// @Tags documents
// @Produce json
// @Success 200 {object} APIResponse{data=[]service.DocumentSummary} "Document index"
// @Failure 500 {object} APIResponse "Storage failure"
// @Router /documents [get]
func (h *APIHandler) ListDocuments(c *gin.Context) {
	docs, err := h.labeling.ListDocuments(c.Request.Context())
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, docs)
}

// GetField handles GET /api/v1/documents/:id/fields/:field
// @Summary Get a field for review
// @Description Get the current value and spans of one field, plus the posting text with the spans highlighted.
// @Tags fields
// @Produce json
// @Param id path string true "Document ID"
// @Param field path string true "Field name" Enums(title, company, location, salary, minimum_education)
// @Success 200 {object} APIResponse{data=service.View} "Field view"
// @Failure 400 {object} APIResponse "Unknown field"
// @Failure 404 {object} APIResponse "Document not found"
// @Router /documents/{id}/fields/{field} [get]
func (h *APIHandler) GetField(c *gin.Context) {
	view, err := h.labeling.View(c.Request.Context(), c.Param("id"), c.Param("field"))
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, view)
}

// SaveField handles PUT /api/v1/documents/:id/fields/:field
// @Summary Save a corrected field
// @Description Replace the value and spans of one field and persist the whole record.
// @Tags fields
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param field path string true "Field name" Enums(title, company, location, salary, minimum_education)
// @Param body body SaveFieldRequest true "Corrected value and spans"
// @Success 200 {object} APIResponse{data=service.SaveResult} "Saved, with the next step of the workflow"
// @Failure 400 {object} APIResponse "Invalid request or unknown field"
// @Failure 404 {object} APIResponse "Document not found"
// @Router /documents/{id}/fields/{field} [put]
func (h *APIHandler) SaveField(c *gin.Context) {
	var req SaveFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be {\"value\": string, \"spans\": [string]}")
		return
	}

	result, err := h.labeling.Save(c.Request.Context(), &service.SaveFieldInput{
		DocumentID: c.Param("id"),
		Field:      c.Param("field"),
		Value:      domain.FieldValue{Value: req.Value, Spans: domain.SpanSet(req.Spans)},
	})
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, result)
}

// Export handles GET /api/v1/export?format=csv|xlsx. The dataset is built in
// memory so a failing record yields an error response, not a truncated file.
// @Summary Export labels
// @Description Download every record as one row of values and one row of spans per document.
// @Tags export
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "Output format" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} APIResponse "Unsupported format"
// @Failure 422 {object} APIResponse "Malformed record"
// @Router /export [get]
func (h *APIHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", export.FormatCSV)

	var buf bytes.Buffer
	if err := h.exporter.Export(c.Request.Context(), format, &buf); err != nil {
		HandleError(c, h.logger, err)
		return
	}

	filename := export.BuildFilename("labels", format, h.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}
