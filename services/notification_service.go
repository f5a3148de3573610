package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"sigmat-api/apperrors"
	"sigmat-api/models"
	"sigmat-api/repositories"
)

const (
	notificationLimit = 50
	broadcastLimit    = 10
)

// NotificationService serves per-user notifications and platform broadcasts.
type NotificationService struct {
	notifications repositories.NotificationRepository
	friends       repositories.FriendRepository
	logger        *zap.Logger
}

func NewNotificationService(notifications repositories.NotificationRepository, friends repositories.FriendRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, friends: friends, logger: logger}
}

func (s *NotificationService) Feed(ctx context.Context, userID string) (*models.NotificationFeed, error) {
	notifications, err := s.notifications.ListForUser(ctx, userID, notificationLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to load notifications", err)
	}
	broadcasts, err := s.notifications.ListBroadcasts(ctx, true, broadcastLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to load broadcasts", err)
	}
	pending, err := s.friends.CountPendingReceived(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to count friend requests", err)
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}
	if broadcasts == nil {
		broadcasts = []models.Broadcast{}
	}
	return &models.NotificationFeed{
		Notifications:      notifications,
		Broadcasts:         broadcasts,
		FriendRequestCount: pending,
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	err := s.notifications.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Notification not found")
	}
	if err != nil {
		return apperrors.Internal("failed to mark notification read", err)
	}
	return nil
}

// ExpireBroadcasts deactivates broadcasts older than ttl and returns how many were changed.
func (s *NotificationService) ExpireBroadcasts(ctx context.Context, ttl time.Duration) (int64, error) {
	n, err := s.notifications.DeactivateBroadcastsBefore(ctx, time.Now().Add(-ttl))
	if err != nil {
		return 0, apperrors.Internal("failed to expire broadcasts", err)
	}
	return n, nil
}
