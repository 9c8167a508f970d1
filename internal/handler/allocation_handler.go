package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khata/internal/logger"
	"khata/internal/service"
)

// AllocationHandler exposes number allocation to callers that keep documents elsewhere.
type AllocationHandler struct {
	*ErrorResponder
	allocator service.SequenceAllocator
}

// NewAllocationHandler creates a new AllocationHandler.
func NewAllocationHandler(allocator service.SequenceAllocator, log *logger.Logger) *AllocationHandler {
	return &AllocationHandler{ErrorResponder: NewErrorResponder(log), allocator: allocator}
}

// Allocate handles POST /api/v1/allocations
// @Summary Allocate the next document number
// @Description Consumes the next number of the explicit series, or of the default series for the document type and branch.
// @Description Stored documents are numbered through POST /documents/{id}/number instead.
// @Tags allocations
// @Accept json
// @Produce json
// @Param series_id query string false "Explicit series"
// @Param request body AllocateRequest true "Document type and branch"
// @Success 201 {object} Response{data=domain.Allocation}
// @Failure 404 {object} ErrorResponseBody "No numbering series"
// @Failure 409 {object} ErrorResponseBody "Series inactive or exhausted"
// @Failure 422 {object} ErrorResponseBody "Number violates compliance rules"
// @Security BearerAuth
// @Router /allocations [post]
func (h *AllocationHandler) Allocate(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	seriesID, ok := seriesFromQuery(c)
	if !ok {
		return
	}

	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	if seriesID == nil {
		seriesID = req.SeriesID
	}

	alloc, err := h.allocator.Allocate(c.Request.Context(), &service.AllocateInput{
		TenantID:     tenantID,
		DocumentType: req.DocumentType,
		Branch:       req.Branch,
		SeriesID:     seriesID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondCreated(c, alloc)
}
