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

func setupTestUserService() (UserService, *repository.Repository) {
	repo := &repository.Repository{
		User:         newMockUserRepo(),
		ShiftRecord:  newMockShiftRecordRepo(),
		Schedule:     newMockScheduleRepo(),
		Office:       newMockOfficeRepo(),
		Notification: newMockNotificationRepo(),
	}
	return NewUserService(repo, zap.NewNop()), repo
}

func TestUserUpdate_SelfProfile(t *testing.T) {
	svc, repo := setupTestUserService()
	seedUser(t, repo, "user-1", "Maria")

	name := "Maria Kowalska"
	phone := "+353 85 123 4567"
	resp, err := svc.Update(context.Background(), "user-1", &dto.UpdateUserRequest{
		Name:  &name,
		Phone: &phone,
	}, "user-1", false)
	if err != nil {
		t.Fatalf("本人更新失败: %v", err)
	}
	if resp.Name != name || resp.Phone != phone {
		t.Errorf("更新未生效: %+v", resp)
	}
}

func TestUserUpdate_RoleRequiresAdmin(t *testing.T) {
	svc, repo := setupTestUserService()
	seedUser(t, repo, "user-1", "Maria")

	role := model.RoleAdmin
	_, err := svc.Update(context.Background(), "user-1", &dto.UpdateUserRequest{Role: &role}, "user-1", false)
	if !errors.Is(err, ErrForbiddenField) {
		t.Errorf("普通员工改角色期望 ErrForbiddenField，实际: %v", err)
	}

	// 管理员可调整他人角色
	seedUser(t, repo, "admin-1", "Boss")
	resp, err := svc.Update(context.Background(), "user-1", &dto.UpdateUserRequest{Role: &role}, "admin-1", true)
	if err != nil {
		t.Fatalf("管理员改角色失败: %v", err)
	}
	if resp.Role != model.RoleAdmin {
		t.Errorf("角色应已调整为 ADMIN，实际=%s", resp.Role)
	}
}

func TestUserUpdate_NoSelfDemote(t *testing.T) {
	svc, repo := setupTestUserService()
	seedUser(t, repo, "admin-1", "Boss")

	role := model.RoleEmployee
	_, err := svc.Update(context.Background(), "admin-1", &dto.UpdateUserRequest{Role: &role}, "admin-1", true)
	if !errors.Is(err, ErrCannotSelfDemote) {
		t.Errorf("管理员自降级期望 ErrCannotSelfDemote，实际: %v", err)
	}
}

func TestUserDelete(t *testing.T) {
	svc, repo := setupTestUserService()
	seedUser(t, repo, "user-1", "Maria")

	if err := svc.Delete(context.Background(), "user-1"); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("重复删除期望 ErrUserNotFound，实际: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "user-1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("删除后查询期望 ErrUserNotFound，实际: %v", err)
	}
}

