package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/victorxmota/downeycleaning/internal/model"
)

// OfficeRepository 办公点数据访问接口
type OfficeRepository interface {
	Create(ctx context.Context, office *model.Office) error
	GetByID(ctx context.Context, id string) (*model.Office, error)
	List(ctx context.Context) ([]model.Office, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type officeRepo struct {
	db *gorm.DB
}

// NewOfficeRepo 创建 OfficeRepository 实例
func NewOfficeRepo(db *gorm.DB) OfficeRepository {
	return &officeRepo{db: db}
}

func (r *officeRepo) Create(ctx context.Context, office *model.Office) error {
	return r.db.WithContext(ctx).Create(office).Error
}

func (r *officeRepo) GetByID(ctx context.Context, id string) (*model.Office, error) {
	var office model.Office
	err := r.db.WithContext(ctx).
		Where("office_id = ?", id).
		First(&office).Error
	if err != nil {
		return nil, err
	}
	return &office, nil
}

func (r *officeRepo) List(ctx context.Context) ([]model.Office, error) {
	var offices []model.Office
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&offices).Error
	return offices, err
}

func (r *officeRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Office{}).
		Where("office_id = ?", id).
		Updates(fields).Error
}

func (r *officeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("office_id = ?", id).
		Delete(&model.Office{}).Error
}
