package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"crm-service/internal/middleware"
	"crm-service/internal/models"
	"crm-service/internal/repository"
)

type AuthHandler struct {
	repo   repository.UserRepository
	tokens *middleware.TokenManager
}

func NewAuthHandler(repo repository.UserRepository, tokens *middleware.TokenManager) *AuthHandler {
	return &AuthHandler{
		repo:   repo,
		tokens: tokens,
	}
}

// Login verifies credentials and issues a token pair
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, "Email and password are required"))
		return
	}

	user, err := h.repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
				middleware.ErrCodeUnauthorized, "Invalid email or password"))
			return
		}
		logrus.WithError(err).Error("Failed to look up user")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Login failed"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
			middleware.ErrCodeUnauthorized, "Invalid email or password"))
		return
	}

	h.issueTokens(c, user)

	if err := h.repo.UpdateLastLogin(user.TenantID, user.ID, time.Now()); err != nil {
		logrus.WithError(err).Warn("Failed to record login time")
	}
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, "Refresh token is required"))
		return
	}

	claims, err := h.tokens.Validate(req.RefreshToken, "refresh")
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
			middleware.ErrCodeUnauthorized, "Invalid or expired refresh token"))
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
			middleware.ErrCodeUnauthorized, "Invalid or expired refresh token"))
		return
	}

	user, err := h.repo.GetByID(claims.TenantID, userID)
	if err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
			middleware.ErrCodeUnauthorized, "Account is no longer active"))
		return
	}

	h.issueTokens(c, user)
}

func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) {
	accessToken, err := h.tokens.GenerateAccessToken(user)
	if err != nil {
		logrus.WithError(err).Error("Failed to sign access token")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeInternalServer, "Login failed"))
		return
	}

	refreshToken, err := h.tokens.GenerateRefreshToken(user)
	if err != nil {
		logrus.WithError(err).Error("Failed to sign refresh token")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeInternalServer, "Login failed"))
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Success:      true,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(h.tokens.AccessTTL().Seconds()),
		User:         user.ToInfo(),
	})
}

// Me returns the authenticated user's profile
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	userID := middleware.GetUserIDPtr(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
			middleware.ErrCodeUnauthorized, "Not authenticated"))
		return
	}

	user, err := h.repo.GetByID(tenantID, *userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "User not found"))
			return
		}
		logrus.WithError(err).Error("Failed to load user")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to load user"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.ToInfo()})
}

// ListUsers returns the tenant's user accounts. Admin only.
// GET /api/auth/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if c.GetString("role") != string(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, models.NewErrorResponse(
			middleware.ErrCodeForbidden, "Admin role required"))
		return
	}

	page, limit := pageParams(c)

	users, pagination, err := h.repo.List(tenantID, page, limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to list users"))
		return
	}

	infos := make([]*models.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, users[i].ToInfo())
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": infos, "pagination": pagination})
}

// ChangePassword verifies the current password and stores a new hash
// POST /api/auth/password/change
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	userID := middleware.GetUserIDPtr(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
			middleware.ErrCodeUnauthorized, "Not authenticated"))
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, "Current and new password are required (minimum 8 characters)"))
		return
	}

	user, err := h.repo.GetByID(tenantID, *userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load user")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to change password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(
			middleware.ErrCodeUnauthorized, "Current password is incorrect"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash password")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeInternalServer, "Failed to change password"))
		return
	}

	if err := h.repo.UpdatePassword(tenantID, *userID, string(hash)); err != nil {
		logrus.WithError(err).Error("Failed to store password")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to change password"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
