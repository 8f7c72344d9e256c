package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadStatus represents the lifecycle status of a lead
type LeadStatus string

const (
	LeadStatusOpen LeadStatus = "open"
	LeadStatusWon  LeadStatus = "won"
	LeadStatusLost LeadStatus = "lost"
)

// DefaultStageID is the initial pipeline stage assigned to new leads
const DefaultStageID = 1

// Lead represents a sales opportunity. MPANMPR is the business key used for
// dedup during bulk import; it is unique per tenant, enforced by a tenant
// scoped unique index in the leads table.
type Lead struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      string          `json:"tenantId" gorm:"not null;index"`
	ClientID      *uuid.UUID      `json:"clientId,omitempty" gorm:"type:uuid;index"`
	MPANMPR       *string         `json:"mpanMpr,omitempty" gorm:"column:mpan_mpr;uniqueIndex:idx_tenant_mpan"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	BusinessName  string          `json:"businessName" gorm:"column:business_name"`
	ContactPerson *string         `json:"contactPerson,omitempty" gorm:"column:contact_person"`
	TelNumber     *string         `json:"telNumber,omitempty" gorm:"column:tel_number"`
	Email         *string         `json:"email,omitempty"`
	StartDate     *time.Time      `json:"startDate,omitempty" gorm:"column:start_date"`
	EndDate       *time.Time      `json:"endDate,omitempty" gorm:"column:end_date"`
	StageID       int             `json:"stageId" gorm:"column:stage_id;default:1"`
	Status        LeadStatus      `json:"status" gorm:"default:'open'"`
	Value         float64         `json:"value" gorm:"default:0"`
	AssignedTo    *uuid.UUID      `json:"assignedTo,omitempty" gorm:"type:uuid;column:assigned_to"`
	CreatedBy     *uuid.UUID      `json:"createdBy,omitempty" gorm:"type:uuid;column:created_by"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     *gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Stage  *Stage  `json:"stage,omitempty" gorm:"foreignKey:StageID"`
}

// Stage is a pipeline stage in the sales funnel
type Stage struct {
	ID               int     `json:"id" gorm:"primary_key"`
	Name             string  `json:"name" gorm:"not null"`
	Description      *string `json:"description,omitempty"`
	PrecedingStageID *int    `json:"precedingStageId,omitempty" gorm:"column:preceding_stage_id"`
	PipelineType     string  `json:"pipelineType" gorm:"column:pipeline_type;default:'sales'"`
}

// TableName overrides the default pluralization
func (Stage) TableName() string {
	return "stages"
}

// LeadFilters holds the optional query filters for lead listings
type LeadFilters struct {
	StageID    *int
	Status     *LeadStatus
	AssignedTo *uuid.UUID
}

// CreateLeadRequest represents a request to create a new lead. Either
// ClientID or an inline client (Client object / BusinessName) must be given.
type CreateLeadRequest struct {
	ClientID      *uuid.UUID           `json:"clientId,omitempty"`
	Client        *CreateClientRequest `json:"client,omitempty"`
	BusinessName  *string              `json:"businessName,omitempty"`
	Title         *string              `json:"title,omitempty"`
	Description   *string              `json:"description,omitempty"`
	MPANMPR       *string              `json:"mpanMpr,omitempty"`
	ContactPerson *string              `json:"contactPerson,omitempty"`
	TelNumber     *string              `json:"telNumber,omitempty"`
	Email         *string              `json:"email,omitempty"`
	StartDate     *time.Time           `json:"startDate,omitempty"`
	EndDate       *time.Time           `json:"endDate,omitempty"`
	StageID       *int                 `json:"stageId,omitempty"`
	Value         *float64             `json:"value,omitempty"`
	AssignedTo    *uuid.UUID           `json:"assignedTo,omitempty"`
}

// UpdateLeadRequest represents a partial update to an existing lead
type UpdateLeadRequest struct {
	Title         *string     `json:"title,omitempty"`
	Description   *string     `json:"description,omitempty"`
	BusinessName  *string     `json:"businessName,omitempty"`
	ContactPerson *string     `json:"contactPerson,omitempty"`
	TelNumber     *string     `json:"telNumber,omitempty"`
	Email         *string     `json:"email,omitempty"`
	StartDate     *time.Time  `json:"startDate,omitempty"`
	EndDate       *time.Time  `json:"endDate,omitempty"`
	StageID       *int        `json:"stageId,omitempty"`
	Status        *LeadStatus `json:"status,omitempty"`
	Value         *float64    `json:"value,omitempty"`
	AssignedTo    *uuid.UUID  `json:"assignedTo,omitempty"`
}

// LeadTableRow is a flat row for the CRM leads table view (joined columns)
type LeadTableRow struct {
	ID            uuid.UUID  `json:"id"`
	MPANMPR       *string    `json:"mpanMpr,omitempty"`
	BusinessName  string     `json:"businessName"`
	ContactPerson *string    `json:"contactPerson,omitempty"`
	TelNumber     *string    `json:"telNumber,omitempty"`
	Email         *string    `json:"email,omitempty"`
	StageName     string     `json:"stageName"`
	Status        LeadStatus `json:"status"`
	Value         float64    `json:"value"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// DashboardSummary aggregates lead counts for the CRM dashboard
type DashboardSummary struct {
	TotalLeads    int64            `json:"totalLeads"`
	OpenLeads     int64            `json:"openLeads"`
	WonLeads      int64            `json:"wonLeads"`
	LostLeads     int64            `json:"lostLeads"`
	TotalValue    float64          `json:"totalValue"`
	LeadsPerStage map[string]int64 `json:"leadsPerStage"`
}
