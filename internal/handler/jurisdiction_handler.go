package handler

import (
	"github.com/gin-gonic/gin"

	"khata/internal/logger"
	"khata/internal/service"
)

// JurisdictionHandler serves the region directory.
type JurisdictionHandler struct {
	*ErrorResponder
	jurisdictions service.JurisdictionService
}

// NewJurisdictionHandler creates a new JurisdictionHandler.
func NewJurisdictionHandler(jurisdictions service.JurisdictionService, log *logger.Logger) *JurisdictionHandler {
	return &JurisdictionHandler{ErrorResponder: NewErrorResponder(log), jurisdictions: jurisdictions}
}

// List handles GET /api/v1/jurisdictions
// @Summary List taxing regions
// @Tags jurisdictions
// @Produce json
// @Success 200 {object} Response{data=[]domain.Jurisdiction}
// @Security BearerAuth
// @Router /jurisdictions [get]
func (h *JurisdictionHandler) List(c *gin.Context) {
	entries, err := h.jurisdictions.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, entries)
}

// Reload handles POST /api/v1/jurisdictions/reload
// @Summary Rebuild the jurisdiction alias table after the directory changes
// @Tags jurisdictions
// @Produce json
// @Success 200 {object} Response{data=ReloadJurisdictionsResponse}
// @Failure 403 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /jurisdictions/reload [post]
func (h *JurisdictionHandler) Reload(c *gin.Context) {
	h.jurisdictions.Invalidate()
	regions, err := h.jurisdictions.Regions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	RespondOK(c, ReloadJurisdictionsResponse{Aliases: regions.Len()})
}
