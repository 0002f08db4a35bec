package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/victorxmota/downeycleaning/internal/model"
)

// 列表查询上限（与源系统一致，通知流不分页，只取最近 50 条）
const notificationListCap = 50

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// ListForUser 用户可见的通知（广播 + 定向），按时间倒序，最多 50 条
	ListForUser(ctx context.Context, userID string) ([]model.Notification, error)
	// MarkRead 将用户追加到 read_by；重复标记为幂等空操作
	MarkRead(ctx context.Context, id, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ListForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? OR recipient_id = ?", model.RecipientAll, userID).
		Order("created_at DESC").
		Limit(notificationListCap).
		Find(&list).Error
	return list, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	// 数组追加在数据库端完成，避免读-改-写竞态
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ? AND NOT (read_by @> ARRAY[?::uuid])", id, userID).
		Update("read_by", gorm.Expr("array_append(read_by, ?::uuid)", userID)).Error
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("(recipient_id = ? OR recipient_id = ?) AND NOT (read_by @> ARRAY[?::uuid])",
			model.RecipientAll, userID, userID).
		Count(&count).Error
	return count, err
}

func (r *notificationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("notification_id = ?", id).
		Delete(&model.Notification{}).Error
}
