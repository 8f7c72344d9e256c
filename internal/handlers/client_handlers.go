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

type ClientHandler struct {
	repo        repository.ClientRepository
	projectRepo repository.ProjectRepository
	leadRepo    repository.LeadRepository
}

func NewClientHandler(repo repository.ClientRepository, projectRepo repository.ProjectRepository, leadRepo repository.LeadRepository) *ClientHandler {
	return &ClientHandler{
		repo:        repo,
		projectRepo: projectRepo,
		leadRepo:    leadRepo,
	}
}

// ListClients returns a paginated client listing with optional search
// GET /api/crm/clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	page, limit := pageParams(c)

	clients, pagination, err := h.repo.List(tenantID, c.Query("search"), page, limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list clients")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to list clients"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"clients":    clients,
		"pagination": pagination,
	})
}

// GetClient returns a single client with its projects
// GET /api/crm/clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid client ID"))
		return
	}

	client, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Client not found"))
			return
		}
		logrus.WithError(err).Error("Failed to get client")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to get client"))
		return
	}

	projects, err := h.projectRepo.ListByClient(tenantID, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to load client projects")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to load client projects"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"client":   client,
		"projects": projects,
	})
}

// CreateClient creates a new client
// POST /api/crm/clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	client := &models.Client{
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Address:     req.Address,
		PostCode:    req.PostCode,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
	}

	if err := h.repo.Create(tenantID, client); err != nil {
		logrus.WithError(err).Error("Failed to create client")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to create client"))
		return
	}

	// Every new client starts with an open opportunity in the first stage
	lead := &models.Lead{
		ClientID:      &client.ID,
		Title:         "Opportunity - " + client.CompanyName,
		BusinessName:  client.CompanyName,
		ContactPerson: client.ContactName,
		TelNumber:     client.Phone,
		Email:         client.Email,
		StageID:       models.DefaultStageID,
		Status:        models.LeadStatusOpen,
		CreatedBy:     middleware.GetUserIDPtr(c),
	}
	if err := h.leadRepo.Create(tenantID, lead); err != nil {
		logrus.WithError(err).Warn("Failed to create initial opportunity for client")
		lead = nil
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "client": client, "lead": lead})
}

// UpdateClient updates a client
// PUT /api/crm/clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid client ID"))
		return
	}

	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	if err := h.repo.Update(tenantID, id, &req); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Client not found"))
			return
		}
		logrus.WithError(err).Error("Failed to update client")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to update client"))
		return
	}

	client, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to reload client")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to reload client"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "client": client})
}

// DeleteClient soft deletes a client
// DELETE /api/crm/clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid client ID"))
		return
	}

	if err := h.repo.Delete(tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Client not found"))
			return
		}
		logrus.WithError(err).Error("Failed to delete client")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to delete client"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
