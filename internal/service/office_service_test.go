package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/model"
	"github.com/victorxmota/downeycleaning/internal/repository"
)

func setupTestOfficeService() OfficeService {
	repo := &repository.Repository{
		User:         newMockUserRepo(),
		ShiftRecord:  newMockShiftRecordRepo(),
		Schedule:     newMockScheduleRepo(),
		Office:       newMockOfficeRepo(),
		Notification: newMockNotificationRepo(),
	}
	return NewOfficeService(repo, zap.NewNop())
}

func TestOfficeCRUD(t *testing.T) {
	svc := setupTestOfficeService()

	created, err := svc.Create(context.Background(), &dto.CreateOfficeRequest{
		Name:    "Main Street Office",
		Eircode: "D01 F5P2",
		Address: "12 Main Street, Dublin 1",
		DefaultSchedule: []model.OfficeDayConfig{
			{DayOfWeek: 1, Hours: 4, IsActive: true},
			{DayOfWeek: 3, Hours: 4, IsActive: true},
		},
	})
	if err != nil {
		t.Fatalf("创建站点失败: %v", err)
	}
	if created.ID == "" {
		t.Error("期望生成站点 ID")
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("查询站点失败: %v", err)
	}
	if got.Name != "Main Street Office" || len(got.DefaultSchedule) != 2 {
		t.Errorf("站点数据不符: %+v", got)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("查询站点列表失败: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("期望 1 个站点，实际 %d", len(list))
	}

	newName := "Dockside Warehouse"
	updated, err := svc.Update(context.Background(), created.ID, &dto.UpdateOfficeRequest{
		Name: &newName,
		DefaultSchedule: []model.OfficeDayConfig{
			{DayOfWeek: 5, Hours: 6, IsActive: true},
		},
	})
	if err != nil {
		t.Fatalf("更新站点失败: %v", err)
	}
	if updated.Name != "Dockside Warehouse" {
		t.Errorf("期望名称已更新，实际 %q", updated.Name)
	}
	if len(updated.DefaultSchedule) != 1 || updated.DefaultSchedule[0].DayOfWeek != 5 {
		t.Errorf("期望默认排班已替换，实际 %+v", updated.DefaultSchedule)
	}
	// 未提交的字段保持原值
	if updated.Address != "12 Main Street, Dublin 1" {
		t.Errorf("期望地址不变，实际 %q", updated.Address)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("删除站点失败: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, ErrOfficeNotFound) {
		t.Errorf("期望 ErrOfficeNotFound，实际: %v", err)
	}
}

func TestOfficeUpdate_NotFound(t *testing.T) {
	svc := setupTestOfficeService()

	name := "Ghost Site"
	if _, err := svc.Update(context.Background(), "missing", &dto.UpdateOfficeRequest{Name: &name}); !errors.Is(err, ErrOfficeNotFound) {
		t.Errorf("期望 ErrOfficeNotFound，实际: %v", err)
	}
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrOfficeNotFound) {
		t.Errorf("期望 ErrOfficeNotFound，实际: %v", err)
	}
}
