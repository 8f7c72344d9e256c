package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crm-service/internal/models"
)

type ProjectRepository interface {
	Create(tenantID string, project *models.Project) error
	GetByID(tenantID string, id uuid.UUID) (*models.Project, error)
	List(tenantID string, filters *models.ProjectFilters, page, limit int) ([]models.Project, *models.PaginationInfo, error)
	ListByClient(tenantID string, clientID uuid.UUID) ([]models.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(tenantID string, project *models.Project) error {
	project.TenantID = tenantID
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	return r.db.Create(project).Error
}

func (r *projectRepository) GetByID(tenantID string, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Preload("Client").
		First(&project).Error

	if err != nil {
		return nil, err
	}

	return &project, nil
}

func (r *projectRepository) List(tenantID string, filters *models.ProjectFilters, page, limit int) ([]models.Project, *models.PaginationInfo, error) {
	var projects []models.Project
	var total int64

	query := r.db.Model(&models.Project{}).Where("tenant_id = ?", tenantID)
	if filters != nil {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.ManagerID != nil {
			query = query.Where("manager_id = ?", *filters.ManagerID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Preload("Client").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, nil, err
	}

	return projects, paginationInfo(page, limit, total), nil
}

func (r *projectRepository) ListByClient(tenantID string, clientID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}
