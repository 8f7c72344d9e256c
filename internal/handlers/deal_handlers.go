package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crm-service/internal/middleware"
	"crm-service/internal/models"
	"crm-service/internal/repository"
)

// DealHandler surfaces signed energy contracts. Read-only: deals are
// written by the contracts system.
type DealHandler struct {
	repo repository.DealRepository
}

func NewDealHandler(repo repository.DealRepository) *DealHandler {
	return &DealHandler{repo: repo}
}

// ListDeals returns a paginated deal listing
// GET /api/crm/deals
func (h *DealHandler) ListDeals(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	page, limit := pageParams(c)

	filters := &models.DealFilters{}
	if v := c.Query("status"); v != "" {
		filters.Status = &v
	}
	if v := c.Query("ownerId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filters.OwnerID = &id
		}
	}

	deals, pagination, err := h.repo.List(tenantID, filters, page, limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list deals")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to list deals"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"deals":      deals,
		"pagination": pagination,
	})
}

// GetDeal returns a single deal
// GET /api/crm/deals/:id
func (h *DealHandler) GetDeal(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid deal ID"))
		return
	}

	deal, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Deal not found"))
			return
		}
		logrus.WithError(err).Error("Failed to get deal")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to get deal"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deal": deal})
}
