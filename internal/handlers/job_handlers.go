package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crm-service/internal/middleware"
	"crm-service/internal/models"
	"crm-service/internal/repository"
)

type JobHandler struct {
	repo repository.JobRepository
}

func NewJobHandler(repo repository.JobRepository) *JobHandler {
	return &JobHandler{repo: repo}
}

// ListJobs returns a paginated job listing
// GET /api/crm/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	page, limit := pageParams(c)

	var status *models.JobStatus
	if v := c.Query("status"); v != "" {
		s := models.JobStatus(v)
		status = &s
	}

	jobs, pagination, err := h.repo.List(tenantID, status, page, limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list jobs")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to list jobs"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "jobs": jobs, "pagination": pagination})
}

// GetJobStats returns job counts by status
// GET /api/crm/jobs/stats
func (h *JobHandler) GetJobStats(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	stats, err := h.repo.Stats(tenantID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load job stats")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to load job stats"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// GetJob returns a single job
// GET /api/crm/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid job ID"))
		return
	}

	job, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Job not found"))
			return
		}
		logrus.WithError(err).Error("Failed to get job")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to get job"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "job": job})
}

// CreateJob creates a job with an auto-generated JOB-NNNN reference
// POST /api/crm/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	job := &models.Job{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		JobDate:     req.JobDate,
		Status:      models.JobStatusScheduled,
		CreatedBy:   middleware.GetUserIDPtr(c),
	}

	if err := h.repo.Create(tenantID, job); err != nil {
		logrus.WithError(err).Error("Failed to create job")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to create job"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "job": job})
}

// UpdateJob applies a partial update to a job, including status transitions
// PUT /api/crm/jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid job ID"))
		return
	}

	var req models.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	if err := h.repo.Update(tenantID, id, &req); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Job not found"))
			return
		}
		logrus.WithError(err).Error("Failed to update job")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to update job"))
		return
	}

	job, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to reload job")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to reload job"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "job": job})
}

// UpdateJobStatus moves a job to a new status without touching other fields
// PATCH /api/crm/jobs/:id/status
func (h *JobHandler) UpdateJobStatus(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid job ID"))
		return
	}

	var req models.UpdateJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, "Invalid job status"))
		return
	}

	if err := h.repo.UpdateStatus(tenantID, id, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Job not found"))
			return
		}
		logrus.WithError(err).Error("Failed to update job status")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to update job status"))
		return
	}

	job, err := h.repo.GetByID(tenantID, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to reload job")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to reload job"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "job": job})
}

// DeleteJob soft deletes a job
// DELETE /api/crm/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid job ID"))
		return
	}

	if err := h.repo.Delete(tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Job not found"))
			return
		}
		logrus.WithError(err).Error("Failed to delete job")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to delete job"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListAssignments returns instructor assignments, filterable by job, user
// and date range
// GET /api/crm/assignments
func (h *JobHandler) ListAssignments(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var jobID, userID *uuid.UUID
	if v := c.Query("jobId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			jobID = &id
		}
	}
	if v := c.Query("userId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			userID = &id
		}
	}

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = &t
		}
	}

	assignments, err := h.repo.ListAssignments(tenantID, jobID, userID, from, to)
	if err != nil {
		logrus.WithError(err).Error("Failed to list assignments")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to list assignments"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignments": assignments})
}

// ListAvailableJobs returns open jobs with no active assignment in the
// requested window, for the scheduling picker
// GET /api/crm/assignments/available-jobs
func (h *JobHandler) ListAvailableJobs(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = &t
		}
	}

	jobs, err := h.repo.ListAvailable(tenantID, from, to)
	if err != nil {
		logrus.WithError(err).Error("Failed to list available jobs")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to list available jobs"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "jobs": jobs})
}

// CreateAssignment assigns an instructor to a job
// POST /api/crm/assignments
func (h *JobHandler) CreateAssignment(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, "endDate must not be before startDate"))
		return
	}

	if _, err := h.repo.GetByID(tenantID, req.JobID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Job not found"))
			return
		}
		logrus.WithError(err).Error("Failed to verify job")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to verify job"))
		return
	}

	assignment := &models.Assignment{
		JobID:     req.JobID,
		UserID:    req.UserID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    models.AssignmentStatusPending,
		Notes:     req.Notes,
	}

	if err := h.repo.CreateAssignment(tenantID, assignment); err != nil {
		logrus.WithError(err).Error("Failed to create assignment")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to create assignment"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "assignment": assignment})
}

// UpdateAssignment applies a partial update to an assignment
// PUT /api/crm/assignments/:id
func (h *JobHandler) UpdateAssignment(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid assignment ID"))
		return
	}

	var req models.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeValidationFailed, err.Error()))
		return
	}

	if err := h.repo.UpdateAssignment(tenantID, id, &req); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Assignment not found"))
			return
		}
		logrus.WithError(err).Error("Failed to update assignment")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to update assignment"))
		return
	}

	assignment, err := h.repo.GetAssignment(tenantID, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to reload assignment")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to reload assignment"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}

// DeleteAssignment removes an assignment
// DELETE /api/crm/assignments/:id
func (h *JobHandler) DeleteAssignment(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Invalid assignment ID"))
		return
	}

	if err := h.repo.DeleteAssignment(tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewErrorResponse(
				middleware.ErrCodeNotFound, "Assignment not found"))
			return
		}
		logrus.WithError(err).Error("Failed to delete assignment")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeDatabaseError, "Failed to delete assignment"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
