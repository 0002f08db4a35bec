package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/victorxmota/downeycleaning/internal/model"
)

// ScheduleItemRepository 排班项数据访问接口
type ScheduleItemRepository interface {
	Create(ctx context.Context, item *model.ScheduleItem) error
	GetByID(ctx context.Context, id string) (*model.ScheduleItem, error)
	ListByUser(ctx context.Context, userID string) ([]model.ScheduleItem, error)
	ListAll(ctx context.Context) ([]model.ScheduleItem, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type scheduleItemRepo struct {
	db *gorm.DB
}

// NewScheduleItemRepo 创建 ScheduleItemRepository 实例
func NewScheduleItemRepo(db *gorm.DB) ScheduleItemRepository {
	return &scheduleItemRepo{db: db}
}

func (r *scheduleItemRepo) Create(ctx context.Context, item *model.ScheduleItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *scheduleItemRepo) GetByID(ctx context.Context, id string) (*model.ScheduleItem, error) {
	var item model.ScheduleItem
	err := r.db.WithContext(ctx).
		Where("schedule_item_id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *scheduleItemRepo) ListByUser(ctx context.Context, userID string) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day_of_week ASC, site_name ASC").
		Find(&items).Error
	return items, err
}

func (r *scheduleItemRepo) ListAll(ctx context.Context) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	err := r.db.WithContext(ctx).
		Order("day_of_week ASC, site_name ASC").
		Find(&items).Error
	return items, err
}

func (r *scheduleItemRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.ScheduleItem{}).
		Where("schedule_item_id = ?", id).
		Updates(fields).Error
}

func (r *scheduleItemRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("schedule_item_id = ?", id).
		Delete(&model.ScheduleItem{}).Error
}
