package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"blogapi/internal/http-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func fakeIdentity(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Set(ContextUsername, "testuser")
		c.Set(ContextRole, role)
		c.Next()
	}
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func TestRequireRoles_Allowed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/categories", fakeIdentity("u1", models.RoleModerator),
		RequireRoles(models.RoleAdmin, models.RoleModerator), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles_Denied(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/categories/1", fakeIdentity("u1", models.RoleModerator),
		RequireRoles(models.RoleAdmin), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/categories/1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden")
}

func TestRequireRoles_MissingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/categories", RequireRoles(models.RoleAdmin), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireOwnership_Owner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users/:id", fakeIdentity("u1", models.RoleUser), RequireOwnership("id"), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireOwnership_OtherUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users/:id", fakeIdentity("u1", models.RoleUser), RequireOwnership("id"), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u2", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireOwnership_AdminBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users/:id", fakeIdentity("admin-id", models.RoleAdmin), RequireOwnership("id"), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u2", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireOwnership_ModeratorDoesNotBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users/:id", fakeIdentity("mod-id", models.RoleModerator), RequireOwnership("id"), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u2", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
