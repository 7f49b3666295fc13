package repositories

import (
	"context"

	"stagestream/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByStageKey(ctx context.Context, stageKey string) (*models.Admin, error)
	CreateIfAbsent(ctx context.Context, admin *models.Admin) (bool, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) GetByStageKey(ctx context.Context, stageKey string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("stage_key = ?", stageKey).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateIfAbsent inserts admin unless one already exists for its stage key.
// It reports whether this call created the row, so concurrent first logins
// provision exactly one admin.
func (r *adminRepository) CreateIfAbsent(ctx context.Context, admin *models.Admin) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "stage_key"}}, DoNothing: true}).
		Create(admin)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
