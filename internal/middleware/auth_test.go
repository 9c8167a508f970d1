package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"khata/internal/domain"
	"khata/internal/middleware"
	"khata/internal/service"
	"khata/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	tenantID, userID := uuid.New(), uuid.New()

	mockAuth.On("ValidateToken", "valid-token").Return(&service.Claims{
		TenantID: tenantID,
		UserID:   userID,
		Role:     domain.RoleAdmin,
	}, nil)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(mockAuth))
	r.GET("/test", func(c *gin.Context) {
		tid, _ := middleware.GetTenantID(c)
		uid, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"tenant_id": tid, "user_id": uid, "role": middleware.GetRole(c)})
	})

	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, tenantID.String(), resp["tenant_id"])
	assert.Equal(t, userID.String(), resp["user_id"])
	assert.Equal(t, "admin", resp["role"])
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"invalid token", "Bearer bad-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mocks.MockAuthService)
			mockAuth.On("ValidateToken", "bad-token").Return(nil, domain.ErrUnauthorized).Maybe()

			r := gin.New()
			r.Use(middleware.AuthMiddleware(mockAuth))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		role   domain.UserRole
		status int
	}{
		{"admin allowed", domain.RoleAdmin, http.StatusOK},
		{"member forbidden", domain.RoleMember, http.StatusForbidden},
		{"no role", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(middleware.ContextKeyRole, tt.role)
				}
				c.Next()
			})
			r.POST("/series", middleware.RequireRole(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

			req, _ := http.NewRequest(http.MethodPost, "/series", http.NoBody)
			w := serve(r, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGetTenantID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := middleware.GetTenantID(c)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
