package repository

import (
	"gorm.io/gorm"

	"crm-service/internal/models"
)

type TenantRepository interface {
	GetByID(tenantID string) (*models.Tenant, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) GetByID(tenantID string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.Where("id = ?", tenantID).First(&tenant).Error

	if err != nil {
		return nil, err
	}

	return &tenant, nil
}
