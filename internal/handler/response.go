package handler

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"khata/internal/domain"
	"khata/internal/logger"
	"khata/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// The more specific sentinels are checked before ErrValidation and ErrNotFound.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrSeriesNotFound):
		return http.StatusNotFound, "SERIES_NOT_FOUND", "no numbering series configured for this document"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrSeriesInactive):
		return http.StatusConflict, "SERIES_INACTIVE", "numbering series is inactive"
	case errors.Is(err, domain.ErrSeriesInUse):
		return http.StatusConflict, "SERIES_IN_USE", "numbering series has already issued numbers"
	case errors.Is(err, domain.ErrSequenceExhausted):
		return http.StatusConflict, "SEQUENCE_EXHAUSTED", "numbering series has reached its end number"
	case errors.Is(err, domain.ErrComplianceViolation):
		return http.StatusUnprocessableEntity, "COMPLIANCE_VIOLATION", err.Error()
	case errors.Is(err, domain.ErrUnbalancedEntry):
		return http.StatusUnprocessableEntity, "UNBALANCED_ENTRY", "ledger entries do not balance"
	case errors.Is(err, domain.ErrDocumentNotNumbered):
		return http.StatusUnprocessableEntity, "DOCUMENT_NOT_NUMBERED", "document has no document number"
	case errors.Is(err, domain.ErrImmutableDocument):
		return http.StatusConflict, "IMMUTABLE_DOCUMENT", "document is no longer editable"
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict, "INVALID_STATUS_TRANSITION", "invalid document status transition"
	case errors.Is(err, domain.ErrEmptyDocument):
		return http.StatusBadRequest, "EMPTY_DOCUMENT", "document has no line items"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_AMOUNT", err.Error()
	case errors.Is(err, domain.ErrInvalidRate):
		return http.StatusBadRequest, "INVALID_RATE", err.Error()
	case errors.Is(err, domain.ErrMissingJurisdiction):
		return http.StatusBadRequest, "MISSING_JURISDICTION", "origin and destination regions are required"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err)
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// validationMessage returns the innermost caller-facing message of a validation error.
func validationMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return "validation failed"
	}
	return errors.UnwrapAll(err).Error()
}

// errorDetails returns structured details for errors that carry them.
func errorDetails(err error) interface{} {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	var ue *domain.UnbalancedEntryError
	if errors.As(err, &ue) {
		return gin.H{
			"debit":      ue.Debit.StringFixed(2),
			"credit":     ue.Credit.StringFixed(2),
			"difference": ue.Difference().StringFixed(2),
		}
	}
	var ee *domain.ExhaustedError
	if errors.As(err, &ee) {
		return gin.H{"series_id": ee.SeriesID, "end_number": ee.EndNumber}
	}
	return nil
}

// extractAuthContext extracts tenant ID, user ID, and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (tenantID, userID uuid.UUID, role domain.UserRole, ok bool) {
	var err error
	tenantID, err = middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return uuid.Nil, uuid.Nil, "", false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, "", false
	}
	return tenantID, userID, middleware.GetRole(c), true
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// ErrorResponder maps domain errors to responses and logs server-side failures.
type ErrorResponder struct {
	log *logger.Logger
}

// NewErrorResponder creates an ErrorResponder.
func NewErrorResponder(log *logger.Logger) *ErrorResponder {
	return &ErrorResponder{log: log}
}

// HandleError maps a domain error and sends the appropriate error response.
func (r *ErrorResponder) HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		r.log.Errorw("internal error",
			"request_id", c.GetString(middleware.ContextKeyRequestID),
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg, Details: errorDetails(err)},
	})
}
