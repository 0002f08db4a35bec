package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/model"
	"github.com/victorxmota/downeycleaning/internal/repository"
)

// ── 排班模块业务错误 ──

var (
	ErrScheduleItemNotFound = errors.New("排班项不存在")
	ErrScheduleUserMissing  = errors.New("排班目标用户不存在")
	ErrScheduleEmpty        = errors.New("该员工暂无排班")
)

// 排班 ICS 事件默认开工时刻（排班项只存工时数，不存具体起始时刻）
const defaultShiftStartHour = 9

// RRULE BYDAY 映射，下标 = day_of_week（0=周日）
var icsByDay = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// ScheduleService 排班业务接口
type ScheduleService interface {
	Create(ctx context.Context, req *dto.CreateScheduleItemRequest) (*dto.ScheduleItemResponse, error)
	Update(ctx context.Context, itemID string, req *dto.UpdateScheduleItemRequest) (*dto.ScheduleItemResponse, error)
	Delete(ctx context.Context, itemID string) error
	// ListByUser 员工本人排班
	ListByUser(ctx context.Context, userID string) ([]dto.ScheduleItemResponse, error)
	// ListAll 全员排班（管理员视图，带员工姓名）
	ListAll(ctx context.Context) ([]dto.ScheduleItemResponse, error)
	// ExportICS 员工排班导出为 iCalendar 订阅内容（周重复事件）
	// 返回值：序列化的 ICS 文本, 建议文件名, error
	ExportICS(ctx context.Context, userID string) (string, string, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) Create(ctx context.Context, req *dto.CreateScheduleItemRequest) (*dto.ScheduleItemResponse, error) {
	// 排班目标必须是已注册员工
	user, err := s.repo.User.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleUserMissing
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	item := &model.ScheduleItem{
		UserID:      req.UserID,
		SiteName:    req.SiteName,
		SiteAddress: req.SiteAddress,
		DayOfWeek:   req.DayOfWeek,
		HoursPerDay: req.HoursPerDay,
		Notes:       req.Notes,
	}
	if err := s.repo.Schedule.Create(ctx, item); err != nil {
		s.logger.Error("创建排班项失败", zap.Error(err))
		return nil, err
	}

	resp := toScheduleItemResponse(item, user.Name)
	return &resp, nil
}

func (s *scheduleService) Update(ctx context.Context, itemID string, req *dto.UpdateScheduleItemRequest) (*dto.ScheduleItemResponse, error) {
	if _, err := s.repo.Schedule.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleItemNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.SiteName != nil {
		fields["site_name"] = *req.SiteName
	}
	if req.SiteAddress != nil {
		fields["site_address"] = *req.SiteAddress
	}
	if req.DayOfWeek != nil {
		fields["day_of_week"] = *req.DayOfWeek
	}
	if req.HoursPerDay != nil {
		fields["hours_per_day"] = *req.HoursPerDay
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) > 0 {
		if err := s.repo.Schedule.Update(ctx, itemID, fields); err != nil {
			s.logger.Error("更新排班项失败", zap.Error(err))
			return nil, err
		}
	}

	updated, err := s.repo.Schedule.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp := toScheduleItemResponse(updated, "")
	return &resp, nil
}

func (s *scheduleService) Delete(ctx context.Context, itemID string) error {
	if _, err := s.repo.Schedule.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleItemNotFound
		}
		return err
	}
	return s.repo.Schedule.Delete(ctx, itemID)
}

func (s *scheduleService) ListByUser(ctx context.Context, userID string) ([]dto.ScheduleItemResponse, error) {
	items, err := s.repo.Schedule.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询排班失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ScheduleItemResponse, 0, len(items))
	for i := range items {
		result = append(result, toScheduleItemResponse(&items[i], ""))
	}
	return result, nil
}

func (s *scheduleService) ListAll(ctx context.Context) ([]dto.ScheduleItemResponse, error) {
	items, err := s.repo.Schedule.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询排班失败", zap.Error(err))
		return nil, err
	}
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}
	nameByID := make(map[string]string, len(users))
	for _, u := range users {
		nameByID[u.UserID] = u.Name
	}

	result := make([]dto.ScheduleItemResponse, 0, len(items))
	for i := range items {
		result = append(result, toScheduleItemResponse(&items[i], nameByID[items[i].UserID]))
	}
	return result, nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 排班导出为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个排班项生成一个周重复 VEVENT（RRULE FREQ=WEEKLY;BYDAY=...），
// DTSTART 取下一个对应星期几的 09:00，时长 = hours_per_day

func (s *scheduleService) ExportICS(ctx context.Context, userID string) (string, string, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrUserNotFound
		}
		return "", "", err
	}

	items, err := s.repo.Schedule.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询排班失败", zap.Error(err))
		return "", "", err
	}
	if len(items) == 0 {
		return "", "", ErrScheduleEmpty
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Downey Cleaning//Roster//EN")

	now := time.Now()
	for i := range items {
		it := &items[i]
		start := nextWeekday(now, it.DayOfWeek, defaultShiftStartHour)
		end := start.Add(time.Duration(it.HoursPerDay * float64(time.Hour)))

		evt := cal.AddEvent(fmt.Sprintf("roster-%s@downey-cleaning", it.ScheduleItemID))
		evt.SetDtStampTime(now)
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(fmt.Sprintf("Cleaning shift — %s", it.SiteName))
		if it.SiteAddress != "" {
			evt.SetLocation(it.SiteAddress)
		}
		if it.Notes != nil && *it.Notes != "" {
			evt.SetDescription(*it.Notes)
		}
		evt.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", icsByDay[it.DayOfWeek%7]))
	}

	filename := fmt.Sprintf("roster_%s.ics", user.Name)
	return cal.Serialize(), filename, nil
}

// nextWeekday 从 from 起（含当天）下一个指定星期几的 hour 点
func nextWeekday(from time.Time, dayOfWeek, hour int) time.Time {
	offset := (dayOfWeek - int(from.Weekday()) + 7) % 7
	d := from.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, from.Location())
}

// toScheduleItemResponse 转换排班项为响应
func toScheduleItemResponse(it *model.ScheduleItem, userName string) dto.ScheduleItemResponse {
	return dto.ScheduleItemResponse{
		ID:          it.ScheduleItemID,
		UserID:      it.UserID,
		UserName:    userName,
		SiteName:    it.SiteName,
		SiteAddress: it.SiteAddress,
		DayOfWeek:   it.DayOfWeek,
		HoursPerDay: it.HoursPerDay,
		Notes:       it.Notes,
	}
}
