package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crm-service/internal/events"
	"crm-service/internal/middleware"
	"crm-service/internal/models"
	"crm-service/internal/repository"
)

type LeadHandler struct {
	repo       repository.LeadRepository
	clientRepo repository.ClientRepository
	publisher  *events.Publisher
}

func NewLeadHandler(repo repository.LeadRepository, clientRepo repository.ClientRepository, publisher *events.Publisher) *LeadHandler {
	return &LeadHandler{
		repo:       repo,
		clientRepo: clientRepo,
		publisher:  publisher,
	}
}

// ListLeads returns a paginated lead listing with optional filters
// GET /api/crm/leads
func (h *LeadHandler) ListLeads(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	page, limit := pageParams(c)

	filters := leadFilters(c)
	leads, pagination, err := h.repo.List(tenantID, filters, page, limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list leads")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to list leads"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"leads":      leads,
		"pagination": pagination,
	})
}

// GetLeadsTable returns the flat joined rows backing the CRM table view
// GET /api/crm/leads/table
func (h *LeadHandler) GetLeadsTable(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	page, limit := pageParams(c)

	rows, pagination, err := h.repo.Table(tenantID, leadFilters(c), page, limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to load leads table")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to load leads table"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"rows":       rows,
		"pagination": pagination,
	})
}

// GetLead returns a single lead with client and stage preloaded
// GET /api/crm/leads/:id
func (h *LeadHandler) GetLead(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid lead ID"))
		return
	}

	lead, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeLeadNotFound, "Lead not found"))
			return
		}
		logrus.WithError(err).Error("Failed to get lead")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to get lead"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "lead": lead})
}

// CreateLead creates a single lead, resolving or creating the client
// POST /api/crm/leads
func (h *LeadHandler) CreateLead(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	clientID, businessName, err := h.resolveClient(tenantID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	lead := &models.Lead{
		ClientID:      clientID,
		BusinessName:  businessName,
		ContactPerson: req.ContactPerson,
		TelNumber:     req.TelNumber,
		Email:         req.Email,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		StageID:       models.DefaultStageID,
		Status:        models.LeadStatusOpen,
		CreatedBy:     middleware.GetUserIDPtr(c),
	}
	lead.MPANMPR = req.MPANMPR
	if req.Title != nil {
		lead.Title = *req.Title
	} else {
		lead.Title = "Opportunity - " + businessName
	}
	lead.Description = req.Description
	if req.StageID != nil {
		lead.StageID = *req.StageID
	}
	if req.Value != nil {
		lead.Value = *req.Value
	}
	lead.AssignedTo = req.AssignedTo

	if err := h.repo.Create(tenantID, lead); err != nil {
		logrus.WithError(err).Error("Failed to create lead")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to create lead"))
		return
	}

	mpan := ""
	if lead.MPANMPR != nil {
		mpan = *lead.MPANMPR
	}
	h.publisher.PublishLeadCreated(tenantID, lead.ID.String(), mpan, lead.BusinessName, middleware.GetUserID(c))

	c.JSON(http.StatusCreated, gin.H{"success": true, "lead": lead})
}

// resolveClient resolves the lead's client: an existing client by ID, an
// inline client payload (created on the fly), or a bare business name.
func (h *LeadHandler) resolveClient(tenantID string, req *models.CreateLeadRequest) (*uuid.UUID, string, error) {
	if req.ClientID != nil {
		client, err := h.clientRepo.GetByID(tenantID, *req.ClientID)
		if err != nil {
			return nil, "", errors.New("client not found")
		}
		return &client.ID, client.CompanyName, nil
	}

	if req.Client != nil {
		client := &models.Client{
			CompanyName: req.Client.CompanyName,
			ContactName: req.Client.ContactName,
			Address:     req.Client.Address,
			PostCode:    req.Client.PostCode,
			Phone:       req.Client.Phone,
			Email:       req.Client.Email,
			Website:     req.Client.Website,
		}
		if err := h.clientRepo.Create(tenantID, client); err != nil {
			return nil, "", errors.New("failed to create client")
		}
		return &client.ID, client.CompanyName, nil
	}

	if req.BusinessName != nil && *req.BusinessName != "" {
		return nil, *req.BusinessName, nil
	}

	return nil, "", errors.New("clientId, client or businessName is required")
}

// UpdateLead applies a partial update to a lead
// PUT /api/crm/leads/:id
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid lead ID"))
		return
	}

	var req models.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	if err := h.repo.Update(tenantID, id, &req); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeLeadNotFound, "Lead not found"))
			return
		}
		logrus.WithError(err).Error("Failed to update lead")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to update lead"))
		return
	}

	lead, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to reload lead")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to reload lead"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "lead": lead})
}

// DeleteLead soft deletes a lead
// DELETE /api/crm/leads/:id
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid lead ID"))
		return
	}

	if err := h.repo.Delete(tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeLeadNotFound, "Lead not found"))
			return
		}
		logrus.WithError(err).Error("Failed to delete lead")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to delete lead"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetDashboard returns aggregate lead counts for the CRM dashboard
// GET /api/crm/dashboard
func (h *LeadHandler) GetDashboard(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	summary, err := h.repo.Dashboard(tenantID)
	if err != nil {
		logrus.WithError(err).Error("Failed to build dashboard")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to build dashboard"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// ListStages returns the pipeline stages
// GET /api/crm/stages
func (h *LeadHandler) ListStages(c *gin.Context) {
	stages, err := h.repo.ListStages(c.Query("pipelineType"))
	if err != nil {
		logrus.WithError(err).Error("Failed to list stages")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to list stages"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stages": stages})
}

func leadFilters(c *gin.Context) *models.LeadFilters {
	filters := &models.LeadFilters{}

	if v := c.Query("stageId"); v != "" {
		if stageID, err := strconv.Atoi(v); err == nil {
			filters.StageID = &stageID
		}
	}
	if v := c.Query("status"); v != "" {
		status := models.LeadStatus(v)
		filters.Status = &status
	}
	if v := c.Query("assignedTo"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filters.AssignedTo = &id
		}
	}

	return filters
}

var (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SetPagination applies the configured page size bounds for all listings
func SetPagination(defaultSize, maxSize int) {
	if defaultSize > 0 {
		defaultPageSize = defaultSize
	}
	if maxSize > 0 {
		maxPageSize = maxSize
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return page, limit
}
