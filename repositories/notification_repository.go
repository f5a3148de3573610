package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sigmat-api/models"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return translate(r.db.WithContext(ctx).Create(notification).Error)
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, translate(err)
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).Model(&notification).Update("is_read", true).Error)
}

func (r *notificationRepository) CreateBroadcast(ctx context.Context, broadcast *models.Broadcast) error {
	return translate(r.db.WithContext(ctx).Create(broadcast).Error)
}

func (r *notificationRepository) ListBroadcasts(ctx context.Context, activeOnly bool, limit int) ([]models.Broadcast, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var broadcasts []models.Broadcast
	err := query.Find(&broadcasts).Error
	return broadcasts, translate(err)
}

func (r *notificationRepository) DeleteBroadcast(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Broadcast{}, "id = ?", id))
}

func (r *notificationRepository) DeactivateBroadcastsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Broadcast{}).
		Where("active = ? AND created_at < ?", true, cutoff).
		Update("active", false)
	return result.RowsAffected, translate(result.Error)
}
