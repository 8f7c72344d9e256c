package models

import "time"

// Tenant is a row in the tenant directory. The directory is owned by the
// onboarding system; this service only reads it for existence/active checks.
type Tenant struct {
	ID          string     `json:"id" gorm:"column:id;primary_key"`
	CompanyName string     `json:"companyName" gorm:"column:company_name"`
	ContactName string     `json:"contactName" gorm:"column:contact_name"`
	OnboardedAt *time.Time `json:"onboardedAt,omitempty" gorm:"column:onboarded_at"`
	IsActive    bool       `json:"isActive" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName overrides the default pluralization
func (Tenant) TableName() string {
	return "tenants"
}

// TenantContext is the resolved identity the tenant middleware attaches to a
// request. Read-only for the rest of the request lifecycle.
type TenantContext struct {
	TenantID string `json:"tenantId"`
	IsActive bool   `json:"isActive"`
}
