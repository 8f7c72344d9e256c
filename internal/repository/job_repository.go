package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crm-service/internal/models"
)

type JobRepository interface {
	Create(tenantID string, job *models.Job) error
	GetByID(tenantID string, id uuid.UUID) (*models.Job, error)
	List(tenantID string, status *models.JobStatus, page, limit int) ([]models.Job, *models.PaginationInfo, error)
	Update(tenantID string, id uuid.UUID, updates *models.UpdateJobRequest) error
	UpdateStatus(tenantID string, id uuid.UUID, status models.JobStatus) error
	Delete(tenantID string, id uuid.UUID) error
	Stats(tenantID string) (*models.JobStats, error)
	ListAvailable(tenantID string, from, to *time.Time) ([]models.Job, error)

	CreateAssignment(tenantID string, assignment *models.Assignment) error
	GetAssignment(tenantID string, id uuid.UUID) (*models.Assignment, error)
	ListAssignments(tenantID string, jobID, userID *uuid.UUID, from, to *time.Time) ([]models.Assignment, error)
	UpdateAssignment(tenantID string, id uuid.UUID, updates *models.UpdateAssignmentRequest) error
	DeleteAssignment(tenantID string, id uuid.UUID) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create assigns the next JOB-NNNN reference for the tenant inside a
// transaction so concurrent creates cannot take the same number.
func (r *jobRepository) Create(tenantID string, job *models.Job) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxRef struct{ Max int }
		err := tx.Model(&models.Job{}).
			Select("COALESCE(MAX(CAST(SUBSTRING(reference FROM 5) AS INTEGER)), 0) AS max").
			Where("tenant_id = ? AND reference LIKE 'JOB-%'", tenantID).
			Scan(&maxRef).Error
		if err != nil {
			return err
		}

		job.TenantID = tenantID
		job.Reference = fmt.Sprintf("JOB-%04d", maxRef.Max+1)
		job.CreatedAt = time.Now()
		job.UpdatedAt = time.Now()

		return tx.Create(job).Error
	})
}

func (r *jobRepository) GetByID(tenantID string, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Preload("Client").
		First(&job).Error

	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *jobRepository) List(tenantID string, status *models.JobStatus, page, limit int) ([]models.Job, *models.PaginationInfo, error) {
	var jobs []models.Job
	var total int64

	query := r.db.Model(&models.Job{}).Where("tenant_id = ?", tenantID)
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
		Find(&jobs).Error; err != nil {
		return nil, nil, err
	}

	return jobs, paginationInfo(page, limit, total), nil
}

func (r *jobRepository) Update(tenantID string, id uuid.UUID, updates *models.UpdateJobRequest) error {
	result := r.db.Model(&models.Job{}).
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

func (r *jobRepository) UpdateStatus(tenantID string, id uuid.UUID, status models.JobStatus) error {
	result := r.db.Model(&models.Job{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *jobRepository) Delete(tenantID string, id uuid.UUID) error {
	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.Job{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *jobRepository) Stats(tenantID string) (*models.JobStats, error) {
	stats := &models.JobStats{}

	type statusCount struct {
		Status models.JobStatus
		Count  int64
	}
	var counts []statusCount

	err := r.db.Model(&models.Job{}).
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
		case models.JobStatusScheduled:
			stats.Scheduled = c.Count
		case models.JobStatusInProgress:
			stats.InProgress = c.Count
		case models.JobStatusCompleted:
			stats.Completed = c.Count
		case models.JobStatusCancelled:
			stats.Cancelled = c.Count
		}
	}

	return stats, nil
}

// ListAvailable returns open jobs with no active assignment overlapping the
// requested window. Cancelled assignments do not block a job.
func (r *jobRepository) ListAvailable(tenantID string, from, to *time.Time) ([]models.Job, error) {
	var jobs []models.Job

	overlap := r.db.Model(&models.Assignment{}).
		Select("1").
		Where("assignments.tenant_id = jobs.tenant_id AND assignments.job_id = jobs.id").
		Where("assignments.status <> ?", models.AssignmentStatusCancelled)
	if from != nil {
		overlap = overlap.Where("assignments.end_date IS NULL OR assignments.end_date >= ?", *from)
	}
	if to != nil {
		overlap = overlap.Where("assignments.start_date IS NULL OR assignments.start_date <= ?", *to)
	}

	err := r.db.Model(&models.Job{}).
		Where("jobs.tenant_id = ?", tenantID).
		Where("jobs.status IN ?", []models.JobStatus{models.JobStatusScheduled, models.JobStatusInProgress}).
		Where("NOT EXISTS (?)", overlap).
		Preload("Client").
		Order("job_date ASC NULLS LAST").
		Find(&jobs).Error

	return jobs, err
}

func (r *jobRepository) CreateAssignment(tenantID string, assignment *models.Assignment) error {
	assignment.TenantID = tenantID
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()

	return r.db.Create(assignment).Error
}

func (r *jobRepository) GetAssignment(tenantID string, id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Preload("Job").
		First(&assignment).Error

	if err != nil {
		return nil, err
	}

	return &assignment, nil
}

func (r *jobRepository) ListAssignments(tenantID string, jobID, userID *uuid.UUID, from, to *time.Time) ([]models.Assignment, error) {
	var assignments []models.Assignment

	query := r.db.Where("tenant_id = ?", tenantID)
	if jobID != nil {
		query = query.Where("job_id = ?", *jobID)
	}
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if from != nil {
		query = query.Where("end_date IS NULL OR end_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("start_date IS NULL OR start_date <= ?", *to)
	}

	err := query.Preload("Job").Order("start_date ASC").Find(&assignments).Error
	return assignments, err
}

func (r *jobRepository) UpdateAssignment(tenantID string, id uuid.UUID, updates *models.UpdateAssignmentRequest) error {
	result := r.db.Model(&models.Assignment{}).
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

func (r *jobRepository) DeleteAssignment(tenantID string, id uuid.UUID) error {
	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.Assignment{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
