package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"khata/internal/domain"
	"khata/internal/logger"
	"khata/internal/port"
	"khata/internal/service"
)

// DocumentHandler handles voucher endpoints.
type DocumentHandler struct {
	*ErrorResponder
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, log *logger.Logger) *DocumentHandler {
	return &DocumentHandler{ErrorResponder: NewErrorResponder(log), documentService: documentService}
}

// ComputeTotals handles POST /api/v1/documents/totals
// @Summary Compute document totals
// @Description Splits tax per line and folds the lines into document totals. Nothing is stored.
// @Tags documents
// @Accept json
// @Produce json
// @Param request body TotalsRequest true "Lines and regions"
// @Success 200 {object} Response{data=tax.Totals}
// @Failure 400 {object} ErrorResponseBody "Invalid amounts or rates"
// @Security BearerAuth
// @Router /documents/totals [post]
func (h *DocumentHandler) ComputeTotals(c *gin.Context) {
	if _, _, _, ok := extractAuthContext(c); !ok {
		return
	}

	var input service.TotalsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	totals, err := h.documentService.ComputeTotals(c.Request.Context(), &input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, totals)
}

// Create handles POST /api/v1/documents
// @Summary Create a document
// @Description Creates a draft voucher, computes its totals and allocates its number in one transaction.
// @Tags documents
// @Accept json
// @Produce json
// @Param request body CreateDocumentRequest true "Document"
// @Success 201 {object} Response{data=domain.Document}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "No numbering series"
// @Failure 409 {object} ErrorResponseBody "Series inactive or exhausted"
// @Failure 422 {object} ErrorResponseBody "Number violates compliance rules"
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	input.TenantID = tenantID
	input.CreatedBy = userID

	doc, err := h.documentService.Create(c.Request.Context(), &input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondCreated(c, doc)
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), tenantID, docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Tags documents
// @Produce json
// @Param document_type query string false "Filter by document type"
// @Param status query string false "Filter by status"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.Document,meta=PagMeta}
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	docs, total, err := h.documentService.List(c.Request.Context(), port.DocumentFilter{
		TenantID:     tenantID,
		DocumentType: domain.DocumentType(c.Query("document_type")),
		Status:       domain.DocumentStatus(c.Query("status")),
	}, offset, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ReplaceItems handles PUT /api/v1/documents/:id/items
// @Summary Replace the line items of a draft
// @Description Replaces every line and recomputes totals.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body ReplaceItemsRequest true "Line items"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 409 {object} ErrorResponseBody "Document is not a draft"
// @Security BearerAuth
// @Router /documents/{id}/items [put]
func (h *DocumentHandler) ReplaceItems(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.documentService.ReplaceItems(c.Request.Context(), tenantID, docID, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// ReplaceEntries handles PUT /api/v1/documents/:id/entries
// @Summary Replace the ledger entries of a draft
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body ReplaceEntriesRequest true "Ledger entries"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 409 {object} ErrorResponseBody "Document is not a draft"
// @Security BearerAuth
// @Router /documents/{id}/entries [put]
func (h *DocumentHandler) ReplaceEntries(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ReplaceEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.documentService.ReplaceEntries(c.Request.Context(), tenantID, docID, req.Entries)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// AssignNumber handles POST /api/v1/documents/:id/number
// @Summary Allocate a number for an unnumbered draft
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body AssignNumberRequest false "Explicit series"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 409 {object} ErrorResponseBody "Already numbered or series exhausted"
// @Security BearerAuth
// @Router /documents/{id}/number [post]
func (h *DocumentHandler) AssignNumber(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req AssignNumberRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
			return
		}
	}

	doc, err := h.documentService.AssignNumber(c.Request.Context(), tenantID, docID, req.SeriesID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Post handles POST /api/v1/documents/:id/post
// @Summary Post a document
// @Description Validates the ledger entries balance and makes the document immutable.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 422 {object} ErrorResponseBody "Unbalanced or unnumbered"
// @Security BearerAuth
// @Router /documents/{id}/post [post]
func (h *DocumentHandler) Post(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.Post(c.Request.Context(), tenantID, docID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Cancel handles POST /api/v1/documents/:id/cancel
// @Summary Cancel a draft
// @Description The number stays consumed; cancelled documents keep it.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body CancelDocumentRequest true "Reason"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 409 {object} ErrorResponseBody "Invalid status transition"
// @Security BearerAuth
// @Router /documents/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "reason is required")
		return
	}

	doc, err := h.documentService.Cancel(c.Request.Context(), tenantID, docID, userID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// seriesFromQuery parses an optional series_id query parameter.
func seriesFromQuery(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("series_id")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid series_id")
		return nil, false
	}
	return &id, true
}
