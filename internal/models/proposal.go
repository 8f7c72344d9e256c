package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProposalStatus represents the lifecycle status of a proposal
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// Proposal represents a commercial proposal sent to a client
type Proposal struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string          `json:"tenantId" gorm:"not null;index"`
	ClientID    *uuid.UUID      `json:"clientId,omitempty" gorm:"type:uuid;index"`
	Title       string          `json:"title" gorm:"not null"`
	Description *string         `json:"description,omitempty"`
	Amount      float64         `json:"amount" gorm:"default:0"`
	Status      ProposalStatus  `json:"status" gorm:"default:'draft'"`
	ValidUntil  *time.Time      `json:"validUntil,omitempty" gorm:"column:valid_until"`
	CreatedBy   *uuid.UUID      `json:"createdBy,omitempty" gorm:"type:uuid;column:created_by"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *gorm.DeletedAt `json:"-" gorm:"index"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

// CreateProposalRequest represents a request to create a proposal
type CreateProposalRequest struct {
	ClientID    *uuid.UUID `json:"clientId,omitempty"`
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description,omitempty"`
	Amount      *float64   `json:"amount,omitempty"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
}

// UpdateProposalRequest represents a partial update to a proposal
type UpdateProposalRequest struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Amount      *float64        `json:"amount,omitempty"`
	Status      *ProposalStatus `json:"status,omitempty"`
	ValidUntil  *time.Time      `json:"validUntil,omitempty"`
}

// ProposalStats aggregates proposal counts and value by status
type ProposalStats struct {
	Total      int64   `json:"total"`
	Draft      int64   `json:"draft"`
	Sent       int64   `json:"sent"`
	Accepted   int64   `json:"accepted"`
	Rejected   int64   `json:"rejected"`
	TotalValue float64 `json:"totalValue"`
}
