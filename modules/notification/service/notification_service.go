package service

import (
	"context"
	"time"

	"wellness-planner/core/constants"
	"wellness-planner/core/errors"
	"wellness-planner/core/logger"
	"wellness-planner/core/params"
	"wellness-planner/modules/notification/dto"
	"wellness-planner/modules/notification/entity"
	"wellness-planner/modules/notification/repository"

	"github.com/google/uuid"
)

// notificationRetention bounds how long read notifications are kept
const notificationRetention = 90 * 24 * time.Hour

type NotificationService interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) error
	GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError
	CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError)
	PruneOld(ctx context.Context) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Create is called by other services and background jobs
func (s *notificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notification := &entity.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    entity.JSONB(req.Data),
		IsRead:  false,
	}
	return s.repo.Create(ctx, notification)
}

func (s *notificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	result, err := s.repo.GetByUserID(ctx, userID, queryParams)
	if err != nil {
		logger.Error("NotificationService:GetMyNotifications:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list notifications", err)
	}
	if result.Items == nil {
		result.Items = []entity.Notification{}
	}
	return result, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		logger.Error("NotificationService:MarkAsRead:Error:", err)
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to mark notifications as read", err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		logger.Error("NotificationService:MarkAllAsRead:Error:", err)
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to mark notifications as read", err)
	}
	return nil
}

func (s *notificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		logger.Error("NotificationService:CountUnread:Error:", err)
		return 0, errors.NewAppError(errors.ErrGetFailed, "Failed to count notifications", err)
	}
	return count, nil
}

// PruneOld is called by the nightly maintenance job
func (s *notificationService) PruneOld(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()
	return s.repo.DeleteOlderThan(ctx, time.Now().UTC().Add(-notificationRetention))
}
