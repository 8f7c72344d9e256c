package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"crm-service/internal/models"
)

// Claims are the JWT claims issued by this service
type Claims struct {
	UserID   string `json:"sub"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	Type     string `json:"type"` // access or refresh
	jwt.RegisteredClaims
}

// TokenManager issues and validates JWT token pairs
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a token manager with the given signing secret
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the access token lifetime
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// GenerateAccessToken issues a short-lived access token for a user
func (m *TokenManager) GenerateAccessToken(user *models.User) (string, error) {
	return m.generate(user, "access", m.accessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token for a user
func (m *TokenManager) GenerateRefreshToken(user *models.User) (string, error) {
	return m.generate(user, "refresh", m.refreshTTL)
}

func (m *TokenManager) generate(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID.String(),
		TenantID: user.TenantID,
		Role:     string(user.Role),
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "crm-service",
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and verifies a token of the expected type
func (m *TokenManager) Validate(tokenString, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Type != expectedType {
		return nil, fmt.Errorf("unexpected token type %q", claims.Type)
	}

	return claims, nil
}

// AuthMiddleware validates the bearer token and attaches the authenticated
// identity (user_id, tenant_id, role) to the request context. The tenant
// guard runs after this, so the claim tenant takes precedence over any
// header.
func AuthMiddleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
				ErrCodeUnauthorized, "Authorization header is required"))
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
				ErrCodeUnauthorized, "Authorization header must be a Bearer token"))
			c.Abort()
			return
		}

		claims, err := tokens.Validate(tokenString, "access")
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
				ErrCodeUnauthorized, "Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user ID from gin context
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetUserIDPtr parses the authenticated user ID as a UUID pointer, nil when
// the request is unauthenticated or the ID is malformed
func GetUserIDPtr(c *gin.Context) *uuid.UUID {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return nil
	}
	return &id
}
