package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/victorxmota/downeycleaning/config"
	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/model"
	"github.com/victorxmota/downeycleaning/internal/repository"
	pkgerrors "github.com/victorxmota/downeycleaning/pkg/errors"
)

// ── 打卡模块业务错误 ──

var (
	ErrActiveSessionExists = errors.New("已有进行中的打卡记录")
	ErrNoActiveSession     = errors.New("当前没有进行中的打卡记录")
	ErrShiftNotFound       = errors.New("打卡记录不存在")
	ErrNotRecordOwner      = errors.New("无权操作他人的打卡记录")
	ErrLocationRequired    = errors.New("当前策略要求提供定位后方可打卡")
	ErrLowSafetyChecklist  = errors.New("安全核对项勾选过少，请确认后重试")
	ErrPauseConflict       = errors.New("暂停状态已被其他请求变更，请刷新后重试")
	ErrPhotoUpload         = errors.New("照片上传失败")
	ErrEndPhotoUpload      = errors.New("收班照片上传失败，可重新提交补传")
	ErrInvalidTimeRange    = errors.New("结束时间不能早于开始时间")
)

// 收班照片上传失败时附在响应上的降级提示
const endPhotoDegradedWarning = "收班照片上传失败，记录已正常结束但未附照片"

// PhotoStore 照片对象存储依赖，*storage.Client 实现
type PhotoStore interface {
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
}

// ShiftService 打卡业务接口
//
// 会话状态机: Idle → Active ⇄ Paused → Ended。
// 暂停时长只在恢复（或收班折算未关闭暂停）时按挂钟差值结算一次，
// 并发的暂停/恢复通过条件更新串行化，冲突方收到 ErrPauseConflict。
type ShiftService interface {
	// StartShift 开班。photo 为可选的开工照片字节（multipart 文件域）。
	// 返回的 warning 非空时为可展示的软提醒（如安全清单勾选过少已确认）
	StartShift(ctx context.Context, userID string, req *dto.StartShiftRequest, photo []byte, photoContentType string) (*dto.ShiftRecordResponse, string, error)
	// TogglePause 暂停/恢复切换
	TogglePause(ctx context.Context, userID string) (*dto.ShiftRecordResponse, error)
	// EndShift 收班。对已结束记录幂等：数据原样返回，带照片时只补挂缺失的收班照片。
	// 收班照片上传失败不阻塞收班：记录照常结束，返回结果 + 降级 warning +
	// ErrEndPhotoUpload，调用方携带照片重新提交即可单独重试补传
	EndShift(ctx context.Context, recordID, callerID string, callerIsAdmin bool, req *dto.EndShiftRequest, photo []byte, photoContentType string) (*dto.ShiftRecordResponse, string, error)
	// GetActive 查询本人进行中的记录；无进行中记录返回 (nil, nil)
	GetActive(ctx context.Context, userID string) (*dto.ShiftRecordResponse, error)
	// SiteOptions 打卡页地点下拉项：本人排班地点去重 + 注册办公点
	SiteOptions(ctx context.Context, userID string) ([]dto.SiteOption, error)
	ListByUser(ctx context.Context, userID string) ([]dto.ShiftRecordResponse, error)
	// AdminUpdate 管理员更正历史记录（无条件部分更新）
	AdminUpdate(ctx context.Context, recordID string, req *dto.AdminUpdateShiftRequest) (*dto.ShiftRecordResponse, error)
	// AdminDelete 管理员硬删除记录
	AdminDelete(ctx context.Context, recordID string) error
}

type shiftService struct {
	cfg    *config.Config
	repo   *repository.Repository
	store  PhotoStore
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time // 测试注入
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(cfg *config.Config, repo *repository.Repository, store PhotoStore, logger *zap.Logger) ShiftService {
	loc, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		logger.Warn("时区加载失败，回退 UTC", zap.String("timezone", cfg.Database.Timezone))
		loc = time.UTC
	}
	return &shiftService{
		cfg:    cfg,
		repo:   repo,
		store:  store,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// ════════════════════════════════════════════════════════════
// StartShift — 开班
// ════════════════════════════════════════════════════════════

func (s *shiftService) StartShift(ctx context.Context, userID string, req *dto.StartShiftRequest, photo []byte, photoContentType string) (*dto.ShiftRecordResponse, string, error) {
	// 1. 定位策略
	if req.Location == nil {
		if s.cfg.Checkin.LocationPolicy == config.LocationPolicyRequired {
			return nil, "", ErrLocationRequired
		}
		// best_effort: 记录失败原因后放行，坐标留空
		s.logger.Info("无定位开班",
			zap.String("user_id", userID),
			zap.String("reason", req.LocationFailure))
	}

	// 2. 安全清单软提醒：勾选数低于阈值需二次确认，确认后放行并附警告
	var warning string
	checked := req.Checklist.CheckedCount()
	if checked < s.cfg.Checkin.MinSafetyItems {
		if !req.ConfirmLowSafety {
			return nil, "", ErrLowSafetyChecklist
		}
		warning = fmt.Sprintf("安全核对项仅勾选 %d 项（建议至少 %d 项）", checked, s.cfg.Checkin.MinSafetyItems)
	}

	now := s.now()

	// 3. 照片先行上传：上传失败则整个开班失败，不产生无照片的半成品记录
	var photoURL *string
	if len(photo) > 0 {
		key := fmt.Sprintf("shifts/%s/start_%d.jpg", userID, now.UnixMilli())
		url, err := s.store.Upload(ctx, key, photo, photoContentType)
		if err != nil {
			s.logger.Error("开工照片上传失败", zap.String("user_id", userID), zap.Error(err))
			return nil, "", ErrPhotoUpload
		}
		photoURL = &url
	}

	record := &model.ShiftRecord{
		UserID:         userID,
		ScheduleItemID: req.ScheduleItemID,
		SiteName:       req.SiteName,
		SiteAddress:    req.SiteAddress,
		WorkDate:       model.DateOnly(now.In(s.loc).Format("2006-01-02")),
		StartTime:      now,
		Checklist:      req.Checklist,
		StartPhotoURL:  photoURL,
		StartLocation:  req.Location,
		Notes:          req.Notes,
	}

	// 4. 原子创建：同一用户已有进行中记录时由部分唯一索引拒绝
	if err := s.repo.ShiftRecord.CreateActive(ctx, record); err != nil {
		if errors.Is(err, pkgerrors.ErrUniqueViolation) {
			return nil, "", ErrActiveSessionExists
		}
		s.logger.Error("创建打卡记录失败", zap.Error(err))
		return nil, "", err
	}

	s.logger.Info("开班",
		zap.String("user_id", userID),
		zap.String("record_id", record.RecordID),
		zap.String("site", record.SiteName))

	resp := s.toShiftResponse(record)
	return &resp, warning, nil
}

// ════════════════════════════════════════════════════════════
// TogglePause — 暂停/恢复切换
// ════════════════════════════════════════════════════════════

func (s *shiftService) TogglePause(ctx context.Context, userID string) (*dto.ShiftRecordResponse, error) {
	record, err := s.repo.ShiftRecord.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		s.logger.Error("查询进行中记录失败", zap.Error(err))
		return nil, err
	}

	now := s.now()
	var guard, fields map[string]interface{}

	if !record.IsPaused {
		// Active → Paused：只打暂停时间戳，不动 paused_ms
		guard = map[string]interface{}{"is_paused": false, "end_time": nil}
		fields = map[string]interface{}{"is_paused": true, "paused_at": now}
	} else {
		// Paused → Active：按挂钟差值一次性结算本段暂停
		var delta int64
		if record.PausedAt != nil {
			delta = model.ClampMs(now.Sub(*record.PausedAt).Milliseconds())
		}
		guard = map[string]interface{}{"is_paused": true, "end_time": nil}
		fields = map[string]interface{}{
			"is_paused": false,
			"paused_at": nil,
			"paused_ms": record.PausedMs + delta,
		}
	}

	// 条件更新：guard 不再成立说明并发请求已切换状态或已收班
	ok, err := s.repo.ShiftRecord.UpdateGuarded(ctx, record.RecordID, guard, fields)
	if err != nil {
		s.logger.Error("切换暂停状态失败", zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrPauseConflict
	}

	updated, err := s.repo.ShiftRecord.GetByID(ctx, record.RecordID)
	if err != nil {
		return nil, err
	}
	resp := s.toShiftResponse(updated)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// EndShift — 收班
// ════════════════════════════════════════════════════════════

func (s *shiftService) EndShift(ctx context.Context, recordID, callerID string, callerIsAdmin bool, req *dto.EndShiftRequest, photo []byte, photoContentType string) (*dto.ShiftRecordResponse, string, error) {
	record, err := s.repo.ShiftRecord.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrShiftNotFound
		}
		s.logger.Error("查询打卡记录失败", zap.Error(err))
		return nil, "", err
	}
	if record.UserID != callerID && !callerIsAdmin {
		return nil, "", ErrNotRecordOwner
	}

	// 已结束的记录幂等返回，不改数据；上次照片降级过的，这次带了照片就补挂
	if record.IsEnded() {
		return s.attachEndPhoto(ctx, record, photo, photoContentType)
	}

	if req.Location == nil && s.cfg.Checkin.LocationPolicy == config.LocationPolicyRequired {
		return nil, "", ErrLocationRequired
	}

	now := s.now()

	fields := map[string]interface{}{
		"end_time":     now,
		"is_paused":    false,
		"paused_at":    nil,
		"end_location": req.Location,
	}
	// 未关闭的暂停段折算进 paused_ms 后再关账
	if record.IsPaused && record.PausedAt != nil {
		fields["paused_ms"] = record.PausedMs + model.ClampMs(now.Sub(*record.PausedAt).Milliseconds())
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	// guard end_time IS NULL：并发收班只有一方落盘，另一方按幂等成功处理
	ok, err := s.repo.ShiftRecord.UpdateGuarded(ctx, recordID, map[string]interface{}{"end_time": nil}, fields)
	if err != nil {
		s.logger.Error("收班落盘失败", zap.Error(err))
		return nil, "", err
	}

	updated, err := s.repo.ShiftRecord.GetByID(ctx, recordID)
	if err != nil {
		return nil, "", err
	}
	if !ok && !updated.IsEnded() {
		// guard 未命中且记录仍未结束，状态异常
		return nil, "", ErrPauseConflict
	}

	s.logger.Info("收班",
		zap.String("record_id", recordID),
		zap.Int64("net_ms", model.ClampMs(updated.ElapsedNet(now))))

	// 照片在收班落盘之后再上传，输掉并发竞争的一方不会留下无主对象
	return s.attachEndPhoto(ctx, updated, photo, photoContentType)
}

// attachEndPhoto 上传并补挂收班照片，无照片或已有照片时原样返回。
// 上传失败不影响已结束状态：与开班相反，此处员工已在离场路上，
// 不能因对象存储抖动把人卡在 Active，降级为 warning + ErrEndPhotoUpload
func (s *shiftService) attachEndPhoto(ctx context.Context, record *model.ShiftRecord, photo []byte, contentType string) (*dto.ShiftRecordResponse, string, error) {
	if len(photo) == 0 || record.EndPhotoURL != nil {
		resp := s.toShiftResponse(record)
		return &resp, "", nil
	}

	key := fmt.Sprintf("shifts/%s/end_%d.jpg", record.UserID, s.now().UnixMilli())
	url, err := s.store.Upload(ctx, key, photo, contentType)
	if err != nil {
		s.logger.Warn("收班照片上传失败，记录保持已结束",
			zap.String("record_id", record.RecordID), zap.Error(err))
		resp := s.toShiftResponse(record)
		return &resp, endPhotoDegradedWarning, ErrEndPhotoUpload
	}

	// guard end_photo_url IS NULL：并发补传只有一方生效
	if _, err := s.repo.ShiftRecord.UpdateGuarded(ctx, record.RecordID,
		map[string]interface{}{"end_photo_url": nil},
		map[string]interface{}{"end_photo_url": url}); err != nil {
		s.logger.Error("补挂收班照片失败", zap.Error(err))
		return nil, "", err
	}

	updated, err := s.repo.ShiftRecord.GetByID(ctx, record.RecordID)
	if err != nil {
		return nil, "", err
	}
	resp := s.toShiftResponse(updated)
	return &resp, "", nil
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *shiftService) GetActive(ctx context.Context, userID string) (*dto.ShiftRecordResponse, error) {
	record, err := s.repo.ShiftRecord.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询进行中记录失败", zap.Error(err))
		return nil, err
	}
	resp := s.toShiftResponse(record)
	return &resp, nil
}

func (s *shiftService) SiteOptions(ctx context.Context, userID string) ([]dto.SiteOption, error) {
	items, err := s.repo.Schedule.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询排班失败", zap.Error(err))
		return nil, err
	}
	offices, err := s.repo.Office.List(ctx)
	if err != nil {
		s.logger.Error("查询办公点失败", zap.Error(err))
		return nil, err
	}

	// 排班地点优先，办公点补全，按名称去重
	seen := make(map[string]bool)
	options := make([]dto.SiteOption, 0, len(items)+len(offices))
	for _, it := range items {
		if seen[it.SiteName] {
			continue
		}
		seen[it.SiteName] = true
		options = append(options, dto.SiteOption{Name: it.SiteName, Address: it.SiteAddress})
	}
	for _, o := range offices {
		if seen[o.Name] {
			continue
		}
		seen[o.Name] = true
		options = append(options, dto.SiteOption{Name: o.Name, Address: o.Address})
	}
	return options, nil
}

func (s *shiftService) ListByUser(ctx context.Context, userID string) ([]dto.ShiftRecordResponse, error) {
	records, err := s.repo.ShiftRecord.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询打卡历史失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ShiftRecordResponse, 0, len(records))
	for i := range records {
		result = append(result, s.toShiftResponse(&records[i]))
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// 管理员更正
// ════════════════════════════════════════════════════════════

func (s *shiftService) AdminUpdate(ctx context.Context, recordID string, req *dto.AdminUpdateShiftRequest) (*dto.ShiftRecordResponse, error) {
	record, err := s.repo.ShiftRecord.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}

	start := record.StartTime
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, fmt.Errorf("start_time 格式错误: %w", err)
		}
		start = t
		fields["start_time"] = t
		fields["work_date"] = t.In(s.loc).Format("2006-01-02")
	}
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("end_time 格式错误: %w", err)
		}
		if t.Before(start) {
			return nil, ErrInvalidTimeRange
		}
		fields["end_time"] = t
	} else if record.EndTime != nil && req.StartTime != nil && record.EndTime.Before(start) {
		return nil, ErrInvalidTimeRange
	}
	if req.SiteName != nil {
		fields["site_name"] = *req.SiteName
	}
	if req.PausedMs != nil {
		fields["paused_ms"] = *req.PausedMs
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) > 0 {
		if err := s.repo.ShiftRecord.Update(ctx, recordID, fields); err != nil {
			s.logger.Error("更正打卡记录失败", zap.Error(err))
			return nil, err
		}
	}

	updated, err := s.repo.ShiftRecord.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	resp := s.toShiftResponse(updated)
	return &resp, nil
}

func (s *shiftService) AdminDelete(ctx context.Context, recordID string) error {
	if _, err := s.repo.ShiftRecord.GetByID(ctx, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}
	return s.repo.ShiftRecord.Delete(ctx, recordID)
}

// toShiftResponse 转换打卡记录为响应
func (s *shiftService) toShiftResponse(r *model.ShiftRecord) dto.ShiftRecordResponse {
	resp := dto.ShiftRecordResponse{
		ID:            r.RecordID,
		UserID:        r.UserID,
		SiteName:      r.SiteName,
		SiteAddress:   r.SiteAddress,
		WorkDate:      r.WorkDate.String(),
		StartTime:     r.StartTime.Format(time.RFC3339),
		Checklist:     r.Checklist,
		StartLocation: r.StartLocation,
		EndLocation:   r.EndLocation,
		IsPaused:      r.IsPaused,
		PausedMs:      r.PausedMs,
		ElapsedMs:     model.ClampMs(r.ElapsedNet(s.now())),
	}
	if r.EndTime != nil {
		resp.EndTime = r.EndTime.Format(time.RFC3339)
	}
	if r.PausedAt != nil {
		resp.PausedAt = r.PausedAt.Format(time.RFC3339)
	}
	if r.StartPhotoURL != nil {
		resp.StartPhotoURL = *r.StartPhotoURL
	}
	if r.EndPhotoURL != nil {
		resp.EndPhotoURL = *r.EndPhotoURL
	}
	if r.Notes != nil {
		resp.Notes = *r.Notes
	}
	return resp
}
