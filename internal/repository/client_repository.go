package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crm-service/internal/models"
)

type ClientRepository interface {
	Create(tenantID string, client *models.Client) error
	GetByID(tenantID string, id uuid.UUID) (*models.Client, error)
	GetByCompanyName(tenantID, companyName string) (*models.Client, error)
	List(tenantID string, search string, page, limit int) ([]models.Client, *models.PaginationInfo, error)
	Update(tenantID string, id uuid.UUID, updates *models.CreateClientRequest) error
	Delete(tenantID string, id uuid.UUID) error
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(tenantID string, client *models.Client) error {
	client.TenantID = tenantID
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	return r.db.Create(client).Error
}

func (r *clientRepository) GetByID(tenantID string, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&client).Error

	if err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) GetByCompanyName(tenantID, companyName string) (*models.Client, error) {
	var client models.Client
	err := r.db.Where("tenant_id = ? AND LOWER(company_name) = LOWER(?)", tenantID, companyName).
		First(&client).Error

	if err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) List(tenantID string, search string, page, limit int) ([]models.Client, *models.PaginationInfo, error) {
	var clients []models.Client
	var total int64

	query := r.db.Model(&models.Client{}).Where("tenant_id = ?", tenantID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("company_name ILIKE ? OR contact_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Order("company_name ASC").
		Find(&clients).Error; err != nil {
		return nil, nil, err
	}

	return clients, paginationInfo(page, limit, total), nil
}

func (r *clientRepository) Update(tenantID string, id uuid.UUID, updates *models.CreateClientRequest) error {
	result := r.db.Model(&models.Client{}).
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

func (r *clientRepository) Delete(tenantID string, id uuid.UUID) error {
	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.Client{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
