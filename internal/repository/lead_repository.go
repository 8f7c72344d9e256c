package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crm-service/internal/models"
)

type LeadRepository interface {
	Create(tenantID string, lead *models.Lead) error
	GetByID(tenantID string, id uuid.UUID) (*models.Lead, error)
	ExistsByMPAN(tenantID, mpanMPR string) (bool, error)
	List(tenantID string, filters *models.LeadFilters, page, limit int) ([]models.Lead, *models.PaginationInfo, error)
	Table(tenantID string, filters *models.LeadFilters, page, limit int) ([]models.LeadTableRow, *models.PaginationInfo, error)
	Update(tenantID string, id uuid.UUID, updates *models.UpdateLeadRequest) error
	Delete(tenantID string, id uuid.UUID) error
	Dashboard(tenantID string) (*models.DashboardSummary, error)
	ListStages(pipelineType string) ([]models.Stage, error)
}

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(tenantID string, lead *models.Lead) error {
	lead.TenantID = tenantID
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = time.Now()

	return r.db.Create(lead).Error
}

func (r *leadRepository) GetByID(tenantID string, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Preload("Client").
		Preload("Stage").
		First(&lead).Error

	if err != nil {
		return nil, err
	}

	return &lead, nil
}

func (r *leadRepository) ExistsByMPAN(tenantID, mpanMPR string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Lead{}).
		Where("tenant_id = ? AND LOWER(mpan_mpr) = LOWER(?)", tenantID, mpanMPR).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *leadRepository) List(tenantID string, filters *models.LeadFilters, page, limit int) ([]models.Lead, *models.PaginationInfo, error) {
	var leads []models.Lead
	var total int64

	query := r.db.Model(&models.Lead{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Preload("Stage").
		Order("created_at DESC").
		Find(&leads).Error; err != nil {
		return nil, nil, err
	}

	return leads, paginationInfo(page, limit, total), nil
}

func (r *leadRepository) Table(tenantID string, filters *models.LeadFilters, page, limit int) ([]models.LeadTableRow, *models.PaginationInfo, error) {
	var rows []models.LeadTableRow
	var total int64

	query := r.db.Model(&models.Lead{}).Where("leads.tenant_id = ?", tenantID)
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	err := query.
		Select("leads.id, leads.mpan_mpr, leads.business_name, leads.contact_person, leads.tel_number, leads.email, stages.name AS stage_name, leads.status, leads.value, leads.start_date, leads.end_date, leads.created_at").
		Joins("LEFT JOIN stages ON stages.id = leads.stage_id").
		Offset(offset).Limit(limit).
		Order("leads.created_at DESC").
		Scan(&rows).Error

	if err != nil {
		return nil, nil, err
	}

	return rows, paginationInfo(page, limit, total), nil
}

func (r *leadRepository) Update(tenantID string, id uuid.UUID, updates *models.UpdateLeadRequest) error {
	result := r.db.Model(&models.Lead{}).
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

func (r *leadRepository) Delete(tenantID string, id uuid.UUID) error {
	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.Lead{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *leadRepository) Dashboard(tenantID string) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{LeadsPerStage: make(map[string]int64)}

	base := r.db.Model(&models.Lead{}).Where("tenant_id = ?", tenantID)

	if err := base.Session(&gorm.Session{}).Count(&summary.TotalLeads).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.LeadStatusOpen).Count(&summary.OpenLeads).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.LeadStatusWon).Count(&summary.WonLeads).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.LeadStatusLost).Count(&summary.LostLeads).Error; err != nil {
		return nil, err
	}

	var totalValue struct{ Total float64 }
	if err := base.Session(&gorm.Session{}).Select("COALESCE(SUM(value), 0) AS total").Scan(&totalValue).Error; err != nil {
		return nil, err
	}
	summary.TotalValue = totalValue.Total

	var perStage []struct {
		Name  string
		Count int64
	}
	err := r.db.Model(&models.Lead{}).
		Select("stages.name AS name, COUNT(leads.id) AS count").
		Joins("LEFT JOIN stages ON stages.id = leads.stage_id").
		Where("leads.tenant_id = ?", tenantID).
		Group("stages.name").
		Scan(&perStage).Error
	if err != nil {
		return nil, err
	}
	for _, s := range perStage {
		summary.LeadsPerStage[s.Name] = s.Count
	}

	return summary, nil
}

func (r *leadRepository) ListStages(pipelineType string) ([]models.Stage, error) {
	var stages []models.Stage
	query := r.db.Model(&models.Stage{})
	if pipelineType != "" {
		query = query.Where("pipeline_type = ?", pipelineType)
	}
	err := query.Order("id ASC").Find(&stages).Error
	return stages, err
}

func (r *leadRepository) applyFilters(query *gorm.DB, filters *models.LeadFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.StageID != nil {
		query = query.Where("stage_id = ?", *filters.StageID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filters.AssignedTo)
	}
	return query
}

func paginationInfo(page, limit int, total int64) *models.PaginationInfo {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.PaginationInfo{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
