package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/victorxmota/downeycleaning/internal/model"
	pkgerrors "github.com/victorxmota/downeycleaning/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var ids []string
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]model.User, 0, len(ids))
	for _, id := range ids {
		result = append(result, *m.users[id])
	}
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, val := range fields {
		switch col {
		case "name":
			u.Name = val.(string)
		case "phone":
			u.Phone = val.(string)
		case "pps":
			u.PPS = val.(string)
		case "role":
			u.Role = val.(string)
		}
	}
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

// ── Mock ShiftRecordRepository ──
//
// UpdateGuarded 按列名对照内存记录检查 guard，与数据库条件更新语义一致

type mockShiftRecordRepo struct {
	records map[string]*model.ShiftRecord
	seq     int
}

func newMockShiftRecordRepo() *mockShiftRecordRepo {
	return &mockShiftRecordRepo{records: make(map[string]*model.ShiftRecord)}
}

func (m *mockShiftRecordRepo) CreateActive(_ context.Context, record *model.ShiftRecord) error {
	// 部分唯一索引等价检查：同一用户最多一条进行中记录
	for _, r := range m.records {
		if r.UserID == record.UserID && r.EndTime == nil {
			return pkgerrors.ErrUniqueViolation
		}
	}
	if record.RecordID == "" {
		m.seq++
		record.RecordID = fmt.Sprintf("rec-%d", m.seq)
	}
	clone := *record
	m.records[record.RecordID] = &clone
	return nil
}

func (m *mockShiftRecordRepo) GetByID(_ context.Context, id string) (*model.ShiftRecord, error) {
	if r, ok := m.records[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRecordRepo) FindActiveByUser(_ context.Context, userID string) (*model.ShiftRecord, error) {
	for _, r := range m.records {
		if r.UserID == userID && r.EndTime == nil {
			clone := *r
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRecordRepo) UpdateGuarded(_ context.Context, id string, guard map[string]interface{}, fields map[string]interface{}) (bool, error) {
	r, ok := m.records[id]
	if !ok {
		return false, nil
	}
	for col, val := range guard {
		switch col {
		case "is_paused":
			if r.IsPaused != val.(bool) {
				return false, nil
			}
		case "end_time":
			if val == nil && r.EndTime != nil {
				return false, nil
			}
		case "end_photo_url":
			if val == nil && r.EndPhotoURL != nil {
				return false, nil
			}
		}
	}
	applyShiftFields(r, fields)
	return true, nil
}

func (m *mockShiftRecordRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	r, ok := m.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	applyShiftFields(r, fields)
	return nil
}

func (m *mockShiftRecordRepo) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

func (m *mockShiftRecordRepo) ListByUser(_ context.Context, userID string) ([]model.ShiftRecord, error) {
	var result []model.ShiftRecord
	for _, r := range m.records {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	sortRecords(result)
	return result, nil
}

func (m *mockShiftRecordRepo) ListAll(_ context.Context) ([]model.ShiftRecord, error) {
	var result []model.ShiftRecord
	for _, r := range m.records {
		result = append(result, *r)
	}
	sortRecords(result)
	return result, nil
}

func (m *mockShiftRecordRepo) ListActive(_ context.Context) ([]model.ShiftRecord, error) {
	var result []model.ShiftRecord
	for _, r := range m.records {
		if r.EndTime == nil {
			result = append(result, *r)
		}
	}
	sortRecords(result)
	return result, nil
}

func (m *mockShiftRecordRepo) CountByDate(_ context.Context, workDate string) (int64, error) {
	var count int64
	for _, r := range m.records {
		if r.WorkDate.String() == workDate {
			count++
		}
	}
	return count, nil
}

func applyShiftFields(r *model.ShiftRecord, fields map[string]interface{}) {
	for col, val := range fields {
		switch col {
		case "is_paused":
			r.IsPaused = val.(bool)
		case "paused_at":
			if val == nil {
				r.PausedAt = nil
			} else {
				t := val.(time.Time)
				r.PausedAt = &t
			}
		case "paused_ms":
			r.PausedMs = val.(int64)
		case "end_time":
			t := val.(time.Time)
			r.EndTime = &t
		case "end_location":
			if val == nil {
				r.EndLocation = nil
			} else {
				r.EndLocation = val.(*model.GeoPoint)
			}
		case "end_photo_url":
			s := val.(string)
			r.EndPhotoURL = &s
		case "notes":
			s := val.(string)
			r.Notes = &s
		case "site_name":
			r.SiteName = val.(string)
		case "start_time":
			r.StartTime = val.(time.Time)
		case "work_date":
			r.WorkDate = model.DateOnly(val.(string))
		}
	}
}

func sortRecords(records []model.ShiftRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartTime.After(records[j].StartTime)
	})
}

// ── Mock PhotoStore ──

type mockPhotoStore struct {
	fail    bool
	uploads []string // 已上传的对象 key
}

func (m *mockPhotoStore) Upload(_ context.Context, objectKey string, _ []byte, _ string) (string, error) {
	if m.fail {
		return "", fmt.Errorf("对象存储不可用")
	}
	m.uploads = append(m.uploads, objectKey)
	return "https://cdn.downey-cleaning.ie/" + objectKey, nil
}

// ── Mock ScheduleItemRepository ──

type mockScheduleRepo struct {
	items map[string]*model.ScheduleItem
	seq   int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{items: make(map[string]*model.ScheduleItem)}
}

func (m *mockScheduleRepo) Create(_ context.Context, item *model.ScheduleItem) error {
	if item.ScheduleItemID == "" {
		m.seq++
		item.ScheduleItemID = fmt.Sprintf("sched-%d", m.seq)
	}
	m.items[item.ScheduleItemID] = item
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.ScheduleItem, error) {
	if it, ok := m.items[id]; ok {
		return it, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListByUser(_ context.Context, userID string) ([]model.ScheduleItem, error) {
	var result []model.ScheduleItem
	for _, it := range m.items {
		if it.UserID == userID {
			result = append(result, *it)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DayOfWeek < result[j].DayOfWeek })
	return result, nil
}

func (m *mockScheduleRepo) ListAll(_ context.Context) ([]model.ScheduleItem, error) {
	var result []model.ScheduleItem
	for _, it := range m.items {
		result = append(result, *it)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DayOfWeek < result[j].DayOfWeek })
	return result, nil
}

func (m *mockScheduleRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	it, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, val := range fields {
		switch col {
		case "site_name":
			it.SiteName = val.(string)
		case "site_address":
			it.SiteAddress = val.(string)
		case "day_of_week":
			it.DayOfWeek = val.(int)
		case "hours_per_day":
			it.HoursPerDay = val.(float64)
		case "notes":
			s := val.(string)
			it.Notes = &s
		}
	}
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// ── Mock OfficeRepository ──

type mockOfficeRepo struct {
	offices map[string]*model.Office
	seq     int
}

func newMockOfficeRepo() *mockOfficeRepo {
	return &mockOfficeRepo{offices: make(map[string]*model.Office)}
}

func (m *mockOfficeRepo) Create(_ context.Context, office *model.Office) error {
	if office.OfficeID == "" {
		m.seq++
		office.OfficeID = fmt.Sprintf("office-%d", m.seq)
	}
	m.offices[office.OfficeID] = office
	return nil
}

func (m *mockOfficeRepo) GetByID(_ context.Context, id string) (*model.Office, error) {
	if o, ok := m.offices[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOfficeRepo) List(_ context.Context) ([]model.Office, error) {
	var result []model.Office
	for _, o := range m.offices {
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockOfficeRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	o, ok := m.offices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, val := range fields {
		switch col {
		case "name":
			o.Name = val.(string)
		case "eircode":
			o.Eircode = val.(string)
		case "address":
			o.Address = val.(string)
		case "default_schedule":
			var schedule []model.OfficeDayConfig
			if err := json.Unmarshal([]byte(val.(string)), &schedule); err != nil {
				return err
			}
			o.DefaultSchedule = schedule
		}
	}
	return nil
}

func (m *mockOfficeRepo) Delete(_ context.Context, id string) error {
	delete(m.offices, id)
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.NotificationID == "" {
		m.seq++
		n.NotificationID = fmt.Sprintf("notif-%d", m.seq)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.notifications[n.NotificationID] = n
	return nil
}

func (m *mockNotificationRepo) ListForUser(_ context.Context, userID string) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.RecipientID == model.RecipientAll || n.RecipientID == userID {
			result = append(result, *n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if len(result) > 50 {
		result = result[:50]
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	n, ok := m.notifications[id]
	if !ok {
		return nil
	}
	if !n.ReadBy.Contains(userID) {
		n.ReadBy = append(n.ReadBy, userID)
	}
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if (n.RecipientID == model.RecipientAll || n.RecipientID == userID) && !n.ReadBy.Contains(userID) {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) Delete(_ context.Context, id string) error {
	delete(m.notifications, id)
	return nil
}

