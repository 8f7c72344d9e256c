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

type ProjectHandler struct {
	repo     repository.ProjectRepository
	dealRepo repository.DealRepository
}

func NewProjectHandler(repo repository.ProjectRepository, dealRepo repository.DealRepository) *ProjectHandler {
	return &ProjectHandler{
		repo:     repo,
		dealRepo: dealRepo,
	}
}

// ListProjects returns a paginated project listing
// GET /api/crm/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	page, limit := pageParams(c)

	filters := &models.ProjectFilters{}
	if v := c.Query("status"); v != "" {
		filters.Status = &v
	}
	if v := c.Query("managerId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filters.ManagerID = &id
		}
	}

	projects, pagination, err := h.repo.List(tenantID, filters, page, limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list projects")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to list projects"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"projects":   projects,
		"pagination": pagination,
	})
}

// GetProject returns a single project with its deals
// GET /api/crm/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid project ID"))
		return
	}

	project, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Project not found"))
			return
		}
		logrus.WithError(err).Error("Failed to get project")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to get project"))
		return
	}

	deals, err := h.dealRepo.ListByProject(tenantID, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to load project deals")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to load project deals"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": project,
		"deals":   deals,
	})
}
