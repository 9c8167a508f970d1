package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"khata/internal/domain"
	"khata/internal/export"
	"khata/internal/logger"
	"khata/internal/port"
	"khata/internal/service"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SeriesHandler handles numbering series endpoints.
type SeriesHandler struct {
	*ErrorResponder
	seriesService service.SeriesService
}

// NewSeriesHandler creates a new SeriesHandler.
func NewSeriesHandler(seriesService service.SeriesService, log *logger.Logger) *SeriesHandler {
	return &SeriesHandler{ErrorResponder: NewErrorResponder(log), seriesService: seriesService}
}

// Create handles POST /api/v1/series
// @Summary Create a numbering series
// @Description Create a numbering series for a document type. Admin only.
// @Tags series
// @Accept json
// @Produce json
// @Param request body CreateSeriesRequest true "Series configuration"
// @Success 201 {object} Response{data=domain.NumberingSeries}
// @Failure 400 {object} ErrorResponseBody "Invalid configuration"
// @Failure 403 {object} ErrorResponseBody "Admin role required"
// @Security BearerAuth
// @Router /series [post]
func (h *SeriesHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateSeriesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	input.TenantID = tenantID
	input.CreatedBy = userID

	series, err := h.seriesService.Create(c.Request.Context(), &input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondCreated(c, series)
}

// List handles GET /api/v1/series
// @Summary List numbering series
// @Tags series
// @Produce json
// @Param document_type query string false "Filter by document type"
// @Param active query bool false "Only active series"
// @Success 200 {object} Response{data=[]domain.NumberingSeries}
// @Security BearerAuth
// @Router /series [get]
func (h *SeriesHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	series, err := h.seriesService.List(c.Request.Context(), port.SeriesFilter{
		TenantID:     tenantID,
		DocumentType: domain.DocumentType(c.Query("document_type")),
		ActiveOnly:   c.Query("active") == "true",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, series)
}

// GetByID handles GET /api/v1/series/:id
// @Summary Get a numbering series
// @Tags series
// @Produce json
// @Param id path string true "Series ID"
// @Success 200 {object} Response{data=domain.NumberingSeries}
// @Failure 404 {object} ErrorResponseBody "Series not found"
// @Security BearerAuth
// @Router /series/{id} [get]
func (h *SeriesHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	series, err := h.seriesService.GetByID(c.Request.Context(), tenantID, seriesID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, series)
}

// Update handles PUT /api/v1/series/:id
// @Summary Update a numbering series
// @Description Partially update a series. start_number cannot change once numbers were issued. Admin only.
// @Tags series
// @Accept json
// @Produce json
// @Param id path string true "Series ID"
// @Param request body UpdateSeriesRequest true "Fields to change"
// @Success 200 {object} Response{data=domain.NumberingSeries}
// @Failure 400 {object} ErrorResponseBody "Invalid configuration"
// @Failure 409 {object} ErrorResponseBody "Series already issued numbers"
// @Security BearerAuth
// @Router /series/{id} [put]
func (h *SeriesHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input service.UpdateSeriesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	input.TenantID = tenantID
	input.SeriesID = seriesID

	series, err := h.seriesService.Update(c.Request.Context(), &input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, series)
}

// SetDefault handles POST /api/v1/series/:id/default
// @Summary Make a series the default for its document type and branch
// @Tags series
// @Produce json
// @Param id path string true "Series ID"
// @Success 200 {object} Response{data=domain.NumberingSeries}
// @Failure 409 {object} ErrorResponseBody "Series is inactive"
// @Security BearerAuth
// @Router /series/{id}/default [post]
func (h *SeriesHandler) SetDefault(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	series, err := h.seriesService.SetDefault(c.Request.Context(), tenantID, seriesID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, series)
}

// Delete handles DELETE /api/v1/series/:id
// @Summary Delete a numbering series
// @Description Removes an unused series. A series that issued numbers is deactivated instead.
// @Tags series
// @Produce json
// @Param id path string true "Series ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Security BearerAuth
// @Router /series/{id} [delete]
func (h *SeriesHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deactivated, err := h.seriesService.Delete(c.Request.Context(), tenantID, seriesID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if deactivated {
		RespondOK(c, gin.H{"message": "series deactivated", "deactivated": true})
		return
	}
	RespondOK(c, gin.H{"message": "series deleted", "deactivated": false})
}

// Preview handles GET /api/v1/series/:id/preview
// @Summary Preview the next document number
// @Description Renders the number the next allocation would produce without consuming it.
// @Tags series
// @Produce json
// @Param id path string true "Series ID"
// @Success 200 {object} Response{data=service.Preview}
// @Failure 409 {object} ErrorResponseBody "Series exhausted"
// @Security BearerAuth
// @Router /series/{id}/preview [get]
func (h *SeriesHandler) Preview(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	preview, err := h.seriesService.PreviewNext(c.Request.Context(), tenantID, seriesID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, preview)
}

// ListHistory handles GET /api/v1/series/:id/history
// @Summary List numbers issued by a series
// @Tags series
// @Produce json
// @Param id path string true "Series ID"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.NumberingHistory,meta=PagMeta}
// @Security BearerAuth
// @Router /series/{id}/history [get]
func (h *SeriesHandler) ListHistory(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	rows, total, err := h.seriesService.ListHistory(c.Request.Context(), tenantID, seriesID, offset, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondPaginated(c, rows, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ExportHistory handles GET /api/v1/series/:id/history/export
// @Summary Export the issued numbers of a series
// @Tags series
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Series ID"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /series/{id}/history/export [get]
func (h *SeriesHandler) ExportHistory(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	seriesID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "format must be csv or xlsx")
		return
	}

	series, rows, err := h.seriesService.ExportHistory(c.Request.Context(), tenantID, seriesID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// Render into a buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	contentType := contentTypeCSV
	if format == "xlsx" {
		contentType = contentTypeXLSX
		err = export.WriteXLSX(&buf, series, rows)
	} else {
		err = export.WriteCSV(&buf, series, rows)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	name := series.Name
	if name == "" {
		name = series.Prefix
	}
	filename := export.BuildFilename(name, format, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
