package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"crm-service/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		TenantID: "acme",
		Email:    "user@example.com",
		Role:     models.RoleStaff,
		IsActive: true,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	user := testUser()

	access, err := tokens.GenerateAccessToken(user)
	assert.NoError(t, err)

	claims, err := tokens.Validate(access, "access")
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "acme", claims.TenantID)
	assert.Equal(t, "staff", claims.Role)
}

func TestTokenTypeMismatch(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)

	refresh, err := tokens.GenerateRefreshToken(testUser())
	assert.NoError(t, err)

	_, err = tokens.Validate(refresh, "access")
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	other := NewTokenManager("other-secret", 15*time.Minute, 24*time.Hour)

	access, err := tokens.GenerateAccessToken(testUser())
	assert.NoError(t, err)

	_, err = other.Validate(access, "access")
	assert.Error(t, err)
}

func setupAuthRouter(tokens *TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(tokens))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetUserID(c),
			"tenant_id": GetTenantID(c),
		})
	})
	return router
}

func TestAuthMiddlewareAttachesIdentity(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	user := testUser()
	access, err := tokens.GenerateAccessToken(user)
	assert.NoError(t, err)

	router := setupAuthRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
	assert.Contains(t, w.Body.String(), "acme")
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupAuthRouter(NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router := setupAuthRouter(NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Token abcdef")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
