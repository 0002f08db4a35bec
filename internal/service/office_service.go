package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/model"
	"github.com/victorxmota/downeycleaning/internal/repository"
)

var ErrOfficeNotFound = errors.New("办公点不存在")

// OfficeService 办公点业务接口
// 打卡记录只保存地点快照，办公点的改名/删除不影响历史记录
type OfficeService interface {
	Create(ctx context.Context, req *dto.CreateOfficeRequest) (*dto.OfficeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.OfficeResponse, error)
	List(ctx context.Context) ([]dto.OfficeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateOfficeRequest) (*dto.OfficeResponse, error)
	Delete(ctx context.Context, id string) error
}

type officeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOfficeService 创建 OfficeService 实例
func NewOfficeService(repo *repository.Repository, logger *zap.Logger) OfficeService {
	return &officeService{repo: repo, logger: logger}
}

func (s *officeService) Create(ctx context.Context, req *dto.CreateOfficeRequest) (*dto.OfficeResponse, error) {
	office := &model.Office{
		Name:            req.Name,
		Eircode:         req.Eircode,
		Address:         req.Address,
		DefaultSchedule: req.DefaultSchedule,
	}
	if err := s.repo.Office.Create(ctx, office); err != nil {
		s.logger.Error("创建办公点失败", zap.Error(err))
		return nil, err
	}
	resp := toOfficeResponse(office)
	return &resp, nil
}

func (s *officeService) GetByID(ctx context.Context, id string) (*dto.OfficeResponse, error) {
	office, err := s.repo.Office.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		s.logger.Error("查询办公点失败", zap.Error(err))
		return nil, err
	}
	resp := toOfficeResponse(office)
	return &resp, nil
}

func (s *officeService) List(ctx context.Context) ([]dto.OfficeResponse, error) {
	offices, err := s.repo.Office.List(ctx)
	if err != nil {
		s.logger.Error("查询办公点列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.OfficeResponse, 0, len(offices))
	for i := range offices {
		result = append(result, toOfficeResponse(&offices[i]))
	}
	return result, nil
}

func (s *officeService) Update(ctx context.Context, id string, req *dto.UpdateOfficeRequest) (*dto.OfficeResponse, error) {
	if _, err := s.repo.Office.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Eircode != nil {
		fields["eircode"] = *req.Eircode
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.DefaultSchedule != nil {
		// jsonb 列在 map 更新路径上不走序列化器，手动编码
		data, err := json.Marshal(req.DefaultSchedule)
		if err != nil {
			return nil, err
		}
		fields["default_schedule"] = string(data)
	}

	if len(fields) > 0 {
		if err := s.repo.Office.Update(ctx, id, fields); err != nil {
			s.logger.Error("更新办公点失败", zap.Error(err))
			return nil, err
		}
	}

	updated, err := s.repo.Office.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toOfficeResponse(updated)
	return &resp, nil
}

func (s *officeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Office.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfficeNotFound
		}
		return err
	}
	return s.repo.Office.Delete(ctx, id)
}

// toOfficeResponse 转换办公点为响应
func toOfficeResponse(o *model.Office) dto.OfficeResponse {
	return dto.OfficeResponse{
		ID:              o.OfficeID,
		Name:            o.Name,
		Eircode:         o.Eircode,
		Address:         o.Address,
		DefaultSchedule: o.DefaultSchedule,
	}
}
