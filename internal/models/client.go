package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents a customer organization (energy or training)
type Client struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string          `json:"tenantId" gorm:"not null;index"`
	CompanyName string          `json:"companyName" gorm:"column:company_name;not null"`
	ContactName *string         `json:"contactName,omitempty" gorm:"column:contact_name"`
	Address     *string         `json:"address,omitempty"`
	PostCode    *string         `json:"postCode,omitempty" gorm:"column:post_code"`
	Phone       *string         `json:"phone,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Website     *string         `json:"website,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *gorm.DeletedAt `json:"-" gorm:"index"`
}

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	CompanyName string  `json:"companyName" binding:"required"`
	ContactName *string `json:"contactName,omitempty"`
	Address     *string `json:"address,omitempty"`
	PostCode    *string `json:"postCode,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Website     *string `json:"website,omitempty"`
}

// Project represents a client site or delivery engagement
type Project struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string     `json:"tenantId" gorm:"not null;index"`
	ClientID    uuid.UUID  `json:"clientId" gorm:"type:uuid;not null;index"`
	LeadID      *uuid.UUID `json:"leadId,omitempty" gorm:"type:uuid;column:lead_id"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description,omitempty"`
	Address     *string    `json:"address,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty" gorm:"column:start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" gorm:"column:end_date"`
	ManagerID   *uuid.UUID `json:"managerId,omitempty" gorm:"type:uuid;column:manager_id"`
	Status      string     `json:"status" gorm:"default:'active'"`
	AnnualUsage *int       `json:"annualUsage,omitempty" gorm:"column:annual_usage"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

// ProjectFilters holds the optional query filters for project listings
type ProjectFilters struct {
	Status    *string
	ManagerID *uuid.UUID
}

// Deal represents a signed energy contract against a project. Deals are
// written by the contracts system; this service only reads them.
type Deal struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     string     `json:"tenantId" gorm:"not null;index"`
	ProjectID    uuid.UUID  `json:"projectId" gorm:"type:uuid;not null;index"`
	OwnerID      *uuid.UUID `json:"ownerId,omitempty" gorm:"type:uuid;column:owner_id"`
	SupplierName *string    `json:"supplierName,omitempty" gorm:"column:supplier_name"`
	MPANNumber   *string    `json:"mpanNumber,omitempty" gorm:"column:mpan_number"`
	StartDate    *time.Time `json:"startDate,omitempty" gorm:"column:start_date"`
	EndDate      *time.Time `json:"endDate,omitempty" gorm:"column:end_date"`
	UnitRate     float64    `json:"unitRate" gorm:"column:unit_rate;default:0"`
	TermsOfSale  *string    `json:"termsOfSale,omitempty" gorm:"column:terms_of_sale"`
	Status       string     `json:"status" gorm:"default:'active'"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

// DealFilters holds the optional query filters for deal listings
type DealFilters struct {
	Status  *string
	OwnerID *uuid.UUID
}
