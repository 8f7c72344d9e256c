package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"crm-service/internal/models"
)

// DealRepository is read-only. Deals are written by the contracts system;
// this service only surfaces them.
type DealRepository interface {
	GetByID(tenantID string, id uuid.UUID) (*models.Deal, error)
	List(tenantID string, filters *models.DealFilters, page, limit int) ([]models.Deal, *models.PaginationInfo, error)
	ListByProject(tenantID string, projectID uuid.UUID) ([]models.Deal, error)
}

type dealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) GetByID(tenantID string, id uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Preload("Project").
		First(&deal).Error

	if err != nil {
		return nil, err
	}

	return &deal, nil
}

func (r *dealRepository) List(tenantID string, filters *models.DealFilters, page, limit int) ([]models.Deal, *models.PaginationInfo, error) {
	var deals []models.Deal
	var total int64

	query := r.db.Model(&models.Deal{}).Where("tenant_id = ?", tenantID)
	if filters != nil {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.OwnerID != nil {
			query = query.Where("owner_id = ?", *filters.OwnerID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Preload("Project").
		Order("created_at DESC").
		Find(&deals).Error; err != nil {
		return nil, nil, err
	}

	return deals, paginationInfo(page, limit, total), nil
}

func (r *dealRepository) ListByProject(tenantID string, projectID uuid.UUID) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.Where("tenant_id = ? AND project_id = ?", tenantID, projectID).
		Order("created_at DESC").
		Find(&deals).Error
	return deals, err
}
