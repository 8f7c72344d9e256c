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

type ProposalHandler struct {
	repo repository.ProposalRepository
}

func NewProposalHandler(repo repository.ProposalRepository) *ProposalHandler {
	return &ProposalHandler{repo: repo}
}

// ListProposals returns a paginated proposal listing, optionally filtered by
// status or matched against a search query
// GET /api/crm/proposals
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	page, limit := pageParams(c)

	if search := c.Query("search"); search != "" {
		proposals, pagination, err := h.repo.Search(tenantID, search, page, limit)
		if err != nil {
			logrus.WithError(err).Error("Failed to search proposals")
			c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
				middleware.ErrCodeDatabaseError, "Failed to search proposals"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "proposals": proposals, "pagination": pagination})
		return
	}

	var status *models.ProposalStatus
	if v := c.Query("status"); v != "" {
		s := models.ProposalStatus(v)
		status = &s
	}

	proposals, pagination, err := h.repo.List(tenantID, status, page, limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list proposals")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to list proposals"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "proposals": proposals, "pagination": pagination})
}

// GetProposalStats returns proposal counts and total value by status
// GET /api/crm/proposals/stats
func (h *ProposalHandler) GetProposalStats(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	stats, err := h.repo.Stats(tenantID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load proposal stats")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to load proposal stats"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// GetProposal returns a single proposal
// GET /api/crm/proposals/:id
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid proposal ID"))
		return
	}

	proposal, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Proposal not found"))
			return
		}
		logrus.WithError(err).Error("Failed to get proposal")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to get proposal"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "proposal": proposal})
}

// CreateProposal creates a proposal in draft status
// POST /api/crm/proposals
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	proposal := &models.Proposal{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProposalStatusDraft,
		ValidUntil:  req.ValidUntil,
		CreatedBy:   middleware.GetUserIDPtr(c),
	}
	if req.Amount != nil {
		proposal.Amount = *req.Amount
	}

	if err := h.repo.Create(tenantID, proposal); err != nil {
		logrus.WithError(err).Error("Failed to create proposal")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to create proposal"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "proposal": proposal})
}

// UpdateProposal applies a partial update to a proposal
// PUT /api/crm/proposals/:id
func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid proposal ID"))
		return
	}

	var req models.UpdateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	if err := h.repo.Update(tenantID, id, &req); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Proposal not found"))
			return
		}
		logrus.WithError(err).Error("Failed to update proposal")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to update proposal"))
		return
	}

	proposal, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to reload proposal")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to reload proposal"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "proposal": proposal})
}

// DeleteProposal soft deletes a proposal
// DELETE /api/crm/proposals/:id
func (h *ProposalHandler) DeleteProposal(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid proposal ID"))
		return
	}

	if err := h.repo.Delete(tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Proposal not found"))
			return
		}
		logrus.WithError(err).Error("Failed to delete proposal")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to delete proposal"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
