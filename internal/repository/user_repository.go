package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crm-service/internal/models"
)

type UserRepository interface {
	GetByID(tenantID string, id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List(tenantID string, page, limit int) ([]models.User, *models.PaginationInfo, error)
	UpdatePassword(tenantID string, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(tenantID string, id uuid.UUID, loginTime time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(tenantID string, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByEmail looks the user up across tenants; login resolves the tenant
// from the account rather than the other way round.
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("LOWER(email) = LOWER(?) AND is_active = ?", email, true).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) List(tenantID string, page, limit int) ([]models.User, *models.PaginationInfo, error) {
	var users []models.User
	var total int64

	query := r.db.Model(&models.User{}).Where("tenant_id = ?", tenantID)

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Order("email ASC").
		Find(&users).Error; err != nil {
		return nil, nil, err
	}

	return users, paginationInfo(page, limit, total), nil
}

func (r *userRepository) UpdatePassword(tenantID string, id uuid.UUID, passwordHash string) error {
	return r.db.Model(&models.User{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		}).Error
}

func (r *userRepository) UpdateLastLogin(tenantID string, id uuid.UUID, loginTime time.Time) error {
	return r.db.Model(&models.User{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("last_login_at", loginTime).Error
}
