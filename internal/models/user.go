package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole represents the role of a back-office user
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
)

// User is a back-office user account. Passwords are stored as bcrypt hashes.
type User struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     string          `json:"tenantId" gorm:"not null;index"`
	Email        string          `json:"email" gorm:"not null;uniqueIndex:idx_tenant_user_email"`
	PasswordHash string          `json:"-" gorm:"column:password_hash"`
	FirstName    string          `json:"firstName" gorm:"column:first_name;not null"`
	LastName     string          `json:"lastName" gorm:"column:last_name;not null"`
	Phone        *string         `json:"phone,omitempty"`
	Role         UserRole        `json:"role" gorm:"default:'staff'"`
	IsActive     bool            `json:"isActive" gorm:"default:true"`
	LastLoginAt  *time.Time      `json:"lastLoginAt,omitempty" gorm:"column:last_login_at"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    *gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserInfo is the safe response shape for user data (no credential fields)
type UserInfo struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  string     `json:"tenantId"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Phone     *string    `json:"phone,omitempty"`
	Role      UserRole   `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ToInfo converts a User to its safe response shape
func (u *User) ToInfo() *UserInfo {
	return &UserInfo{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLoginAt,
		CreatedAt: u.CreatedAt,
	}
}

// LoginRequest is the credentials payload for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token pair and the authenticated user
type LoginResponse struct {
	Success      bool      `json:"success"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    int       `json:"expiresIn"`
	User         *UserInfo `json:"user"`
}

// RefreshRequest carries a refresh token for POST /api/auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordRequest is the payload for POST /api/auth/password/change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
