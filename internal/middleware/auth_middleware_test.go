package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"guidely/internal/config"
	"guidely/internal/models"
	"guidely/internal/utils"
)

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:   "test-jwt-secret-key-123456789",
		JWTTokenTTL: time.Hour,
	}
}

func setupProtectedRouter(cfg *config.SecurityConfig, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := append([]gin.HandlerFunc{AuthRequired(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		role, _ := c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{"role": role})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestAuthRequired_BearerToken(t *testing.T) {
	cfg := testSecurityConfig()
	router := setupProtectedRouter(cfg)

	userID := primitive.NewObjectID()
	token, err := utils.GenerateToken(userID, "tourist", "asha@example.com", "Asha", cfg.JWTSecret, cfg.JWTTokenTTL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tourist")
}

func TestAuthRequired_CookieFallback(t *testing.T) {
	cfg := testSecurityConfig()
	router := setupProtectedRouter(cfg)

	userID := primitive.NewObjectID()
	token, err := utils.GenerateToken(userID, "guide", "guide@example.com", "Guide", cfg.JWTSecret, cfg.JWTTokenTTL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: utils.AuthCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "guide")
}

func TestAuthRequired_MissingToken(t *testing.T) {
	router := setupProtectedRouter(testSecurityConfig())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	router := setupProtectedRouter(testSecurityConfig())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_WrongScheme(t *testing.T) {
	cfg := testSecurityConfig()
	router := setupProtectedRouter(cfg)

	userID := primitive.NewObjectID()
	token, err := utils.GenerateToken(userID, "tourist", "asha@example.com", "Asha", cfg.JWTSecret, cfg.JWTTokenTTL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	cfg := testSecurityConfig()

	tests := []struct {
		name     string
		role     string
		minimum  models.AccountRole
		expected int
	}{
		{"admin passes admin gate", "admin", models.RoleAdmin, http.StatusOK},
		{"guide rejected at admin gate", "guide", models.RoleAdmin, http.StatusForbidden},
		{"tourist rejected at admin gate", "tourist", models.RoleAdmin, http.StatusForbidden},
		{"guide passes guide gate", "guide", models.RoleGuide, http.StatusOK},
		{"admin passes guide gate", "admin", models.RoleGuide, http.StatusOK},
		{"tourist rejected at guide gate", "tourist", models.RoleGuide, http.StatusForbidden},
		{"unknown role always rejected", "superuser", models.RoleTourist, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupProtectedRouter(cfg, RequireRole(tt.minimum))

			userID := primitive.NewObjectID()
			token, err := utils.GenerateToken(userID, tt.role, "user@example.com", "User", cfg.JWTSecret, cfg.JWTTokenTTL)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestAuthOptional(t *testing.T) {
	cfg := testSecurityConfig()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/open", AuthOptional(cfg), func(c *gin.Context) {
		if role, exists := c.Get("user_role"); exists {
			c.JSON(http.StatusOK, gin.H{"role": role})
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": "anonymous"})
	})

	// Without a token the request still succeeds.
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	// A garbage token is ignored rather than rejected.
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer junk")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	// A valid token attaches the identity.
	token, err := utils.GenerateToken(primitive.NewObjectID(), "admin", "admin@example.com", "Admin", cfg.JWTSecret, cfg.JWTTokenTTL)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}
