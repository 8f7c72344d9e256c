package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crm-service/internal/models"
)

type ProposalRepository interface {
	Create(tenantID string, proposal *models.Proposal) error
	GetByID(tenantID string, id uuid.UUID) (*models.Proposal, error)
	List(tenantID string, status *models.ProposalStatus, page, limit int) ([]models.Proposal, *models.PaginationInfo, error)
	Search(tenantID, query string, page, limit int) ([]models.Proposal, *models.PaginationInfo, error)
	Update(tenantID string, id uuid.UUID, updates *models.UpdateProposalRequest) error
	Delete(tenantID string, id uuid.UUID) error
	Stats(tenantID string) (*models.ProposalStats, error)
}

type proposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Create(tenantID string, proposal *models.Proposal) error {
	proposal.TenantID = tenantID
	proposal.CreatedAt = time.Now()
	proposal.UpdatedAt = time.Now()

	return r.db.Create(proposal).Error
}

func (r *proposalRepository) GetByID(tenantID string, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Preload("Client").
		First(&proposal).Error

	if err != nil {
		return nil, err
	}

	return &proposal, nil
}

func (r *proposalRepository) List(tenantID string, status *models.ProposalStatus, page, limit int) ([]models.Proposal, *models.PaginationInfo, error) {
	var proposals []models.Proposal
	var total int64

	query := r.db.Model(&models.Proposal{}).Where("tenant_id = ?", tenantID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Preload("Client").
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		return nil, nil, err
	}

	return proposals, paginationInfo(page, limit, total), nil
}

func (r *proposalRepository) Search(tenantID, searchQuery string, page, limit int) ([]models.Proposal, *models.PaginationInfo, error) {
	var proposals []models.Proposal
	var total int64

	pattern := "%" + searchQuery + "%"
	query := r.db.Model(&models.Proposal{}).
		Where("tenant_id = ?", tenantID).
		Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Preload("Client").
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		return nil, nil, err
	}

	return proposals, paginationInfo(page, limit, total), nil
}

func (r *proposalRepository) Update(tenantID string, id uuid.UUID, updates *models.UpdateProposalRequest) error {
	result := r.db.Model(&models.Proposal{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *proposalRepository) Delete(tenantID string, id uuid.UUID) error {
	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.Proposal{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *proposalRepository) Stats(tenantID string) (*models.ProposalStats, error) {
	stats := &models.ProposalStats{}

	type statusCount struct {
		Status models.ProposalStatus
		Count  int64
	}
	var counts []statusCount

	err := r.db.Model(&models.Proposal{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	for _, c := range counts {
		stats.Total += c.Count
		switch c.Status {
		case models.ProposalStatusDraft:
			stats.Draft = c.Count
		case models.ProposalStatusSent:
			stats.Sent = c.Count
		case models.ProposalStatusAccepted:
			stats.Accepted = c.Count
		case models.ProposalStatusRejected:
			stats.Rejected = c.Count
		}
	}

	var totalValue struct{ Total float64 }
	err = r.db.Model(&models.Proposal{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ?", tenantID).
		Scan(&totalValue).Error
	if err != nil {
		return nil, err
	}
	stats.TotalValue = totalValue.Total

	return stats, nil
}
