package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/model"
	"github.com/victorxmota/downeycleaning/internal/repository"
)

var ErrRecipientNotFound = errors.New("通知接收人不存在")

// NotificationService 通知业务接口
type NotificationService interface {
	// Create 发送通知，recipient_id 为 "all" 时广播
	Create(ctx context.Context, senderID string, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	// ListForUser 当前用户可见的通知（广播 + 定向，最近 50 条）
	ListForUser(ctx context.Context, userID string) ([]dto.NotificationResponse, error)
	// MarkRead 标记已读，重复标记幂等
	MarkRead(ctx context.Context, notificationID, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, notificationID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) Create(ctx context.Context, senderID string, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	sender, err := s.repo.User.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 定向通知校验接收人存在
	if req.RecipientID != model.RecipientAll {
		if _, err := s.repo.User.GetByID(ctx, req.RecipientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRecipientNotFound
			}
			return nil, err
		}
	}

	n := &model.Notification{
		SenderID:    senderID,
		SenderName:  sender.Name, // 发送时快照，发件人改名不回写历史通知
		RecipientID: req.RecipientID,
		Title:       req.Title,
		Message:     req.Body,
		ReadBy:      model.UUIDArray{},
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Error("创建通知失败", zap.Error(err))
		return nil, err
	}

	resp := toNotificationResponse(n, senderID)
	return &resp, nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	list, err := s.repo.Notification.ListForUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询通知失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		result = append(result, toNotificationResponse(&list[i], userID))
	}
	return result, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	return s.repo.Notification.MarkRead(ctx, notificationID, userID)
}

func (s *notificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.repo.Notification.CountUnread(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, notificationID string) error {
	return s.repo.Notification.Delete(ctx, notificationID)
}

// toNotificationResponse 转换通知为响应（read 针对查看者个人）
func toNotificationResponse(n *model.Notification, viewerID string) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:          n.NotificationID,
		Title:       n.Title,
		Body:        n.Message,
		RecipientID: n.RecipientID,
		SenderName:  n.SenderName,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		Read:        n.IsReadBy(viewerID),
	}
}
