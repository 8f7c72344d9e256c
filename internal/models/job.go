package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobStatus represents the lifecycle status of a training job
type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Job represents a forklift training engagement booked by a client.
// Reference is generated per tenant in the form JOB-NNNN.
type Job struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string          `json:"tenantId" gorm:"not null;index"`
	Reference   string          `json:"reference" gorm:"uniqueIndex:idx_tenant_job_ref"`
	ClientID    *uuid.UUID      `json:"clientId,omitempty" gorm:"type:uuid;index"`
	Title       string          `json:"title" gorm:"not null"`
	Description *string         `json:"description,omitempty"`
	Location    *string         `json:"location,omitempty"`
	JobDate     *time.Time      `json:"jobDate,omitempty" gorm:"column:job_date"`
	Status      JobStatus       `json:"status" gorm:"default:'scheduled'"`
	CreatedBy   *uuid.UUID      `json:"createdBy,omitempty" gorm:"type:uuid;column:created_by"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *gorm.DeletedAt `json:"-" gorm:"index"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

// CreateJobRequest represents a request to create a training job
type CreateJobRequest struct {
	ClientID    *uuid.UUID `json:"clientId,omitempty"`
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	JobDate     *time.Time `json:"jobDate,omitempty"`
}

// UpdateJobRequest represents a partial update to a job
type UpdateJobRequest struct {
	ClientID    *uuid.UUID `json:"clientId,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	JobDate     *time.Time `json:"jobDate,omitempty"`
	Status      *JobStatus `json:"status,omitempty"`
}

// UpdateJobStatusRequest moves a job to a new lifecycle status
type UpdateJobStatusRequest struct {
	Status JobStatus `json:"status" binding:"required"`
}

// Valid reports whether s is a known job status
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusScheduled, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// JobStats aggregates job counts by status
type JobStats struct {
	Total      int64 `json:"total"`
	Scheduled  int64 `json:"scheduled"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
}

// AssignmentStatus represents the status of an instructor assignment
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusConfirmed AssignmentStatus = "confirmed"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

// Assignment links an instructor (user) to a job over a date range
type Assignment struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  string           `json:"tenantId" gorm:"not null;index"`
	JobID     uuid.UUID        `json:"jobId" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID        `json:"userId" gorm:"type:uuid;not null;index"`
	StartDate *time.Time       `json:"startDate,omitempty" gorm:"column:start_date"`
	EndDate   *time.Time       `json:"endDate,omitempty" gorm:"column:end_date"`
	Status    AssignmentStatus `json:"status" gorm:"default:'pending'"`
	Notes     *string          `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`

	Job *Job `json:"job,omitempty" gorm:"foreignKey:JobID"`
}

// CreateAssignmentRequest represents a request to assign a user to a job
type CreateAssignmentRequest struct {
	JobID     uuid.UUID  `json:"jobId" binding:"required"`
	UserID    uuid.UUID  `json:"userId" binding:"required"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// UpdateAssignmentRequest represents a partial update to an assignment
type UpdateAssignmentRequest struct {
	StartDate *time.Time        `json:"startDate,omitempty"`
	EndDate   *time.Time        `json:"endDate,omitempty"`
	Status    *AssignmentStatus `json:"status,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
}
