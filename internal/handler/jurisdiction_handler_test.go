package handler_test

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"khata/internal/domain"
	"khata/internal/handler"
	"khata/internal/logger"
	"khata/internal/tax"
	"khata/mocks"
)

func newJurisdictionHandler() (*handler.JurisdictionHandler, *mocks.MockJurisdictionService) {
	mockSvc := new(mocks.MockJurisdictionService)
	return handler.NewJurisdictionHandler(mockSvc, logger.NewNop()), mockSvc
}

func TestJurisdictionHandler_List(t *testing.T) {
	h, mockSvc := newJurisdictionHandler()
	mockSvc.On("List", mock.Anything).Return([]domain.Jurisdiction{{Code: "27", Name: "Maharashtra", ShortCode: "MH"}}, nil)

	c, w := newRequest(http.MethodGet, "/api/v1/jurisdictions", nil)
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleMember)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 1)
	mockSvc.AssertExpectations(t)
}

func TestJurisdictionHandler_Reload(t *testing.T) {
	h, mockSvc := newJurisdictionHandler()
	regions := tax.NewRegions([]domain.Jurisdiction{{Code: "27", Name: "Maharashtra", ShortCode: "MH"}})

	invalidated := false
	mockSvc.On("Invalidate").Run(func(mock.Arguments) { invalidated = true }).Once()
	mockSvc.On("Regions", mock.Anything).Run(func(mock.Arguments) {
		assert.True(t, invalidated, "alias table must be dropped before it is rebuilt")
	}).Return(regions, nil).Once()

	c, w := newRequest(http.MethodPost, "/api/v1/jurisdictions/reload", nil)
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleAdmin)

	h.Reload(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["aliases"])
	mockSvc.AssertExpectations(t)
}

func TestJurisdictionHandler_Reload_LoadError(t *testing.T) {
	h, mockSvc := newJurisdictionHandler()
	mockSvc.On("Invalidate").Once()
	mockSvc.On("Regions", mock.Anything).Return(nil, errors.New("connection refused"))

	c, w := newRequest(http.MethodPost, "/api/v1/jurisdictions/reload", nil)
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleAdmin)

	h.Reload(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	mockSvc.AssertExpectations(t)
}
