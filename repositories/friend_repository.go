package repositories

import (
	"context"

	"gorm.io/gorm"

	"sigmat-api/models"
)

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) CreateRequest(ctx context.Context, request *models.FriendRequest) error {
	return translate(r.db.WithContext(ctx).Create(request).Error)
}

func (r *friendRepository) GetRequest(ctx context.Context, id string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

func (r *friendRepository) FindPendingRequest(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, receiverID, models.FriendRequestStatusPending).
		Order("created_at ASC").
		First(&request).Error
	if err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

func (r *friendRepository) SetRequestStatus(ctx context.Context, id string, status models.FriendRequestStatus) error {
	db := r.db.WithContext(ctx)
	return updated(db, db.Model(&models.FriendRequest{}).Where("id = ?", id).Update("status", status), &models.FriendRequest{}, "id = ?", id)
}

func (r *friendRepository) DeleteRequest(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.FriendRequest{}, "id = ?", id))
}

func (r *friendRepository) ListPendingReceived(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, translate(err)
}

func (r *friendRepository) ListPendingSent(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, translate(err)
}

func (r *friendRepository) CountPendingReceived(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Count(&count).Error
	return count, translate(err)
}

func (r *friendRepository) CreateFriendship(ctx context.Context, friendship *models.Friendship) error {
	friendship.User1ID, friendship.User2ID = models.OrderedPair(friendship.User1ID, friendship.User2ID)
	return translate(r.db.WithContext(ctx).Create(friendship).Error)
}

func (r *friendRepository) GetFriendship(ctx context.Context, a, b string) (*models.Friendship, error) {
	user1, user2 := models.OrderedPair(a, b)

	var friendship models.Friendship
	if err := r.db.WithContext(ctx).First(&friendship, "user1_id = ? AND user2_id = ?", user1, user2).Error; err != nil {
		return nil, translate(err)
	}
	return &friendship, nil
}

func (r *friendRepository) DeleteFriendship(ctx context.Context, a, b string) error {
	user1, user2 := models.OrderedPair(a, b)
	return affected(r.db.WithContext(ctx).Where("user1_id = ? AND user2_id = ?", user1, user2).Delete(&models.Friendship{}))
}

func (r *friendRepository) ListFriendships(ctx context.Context, userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&friendships).Error
	return friendships, translate(err)
}

func (r *friendRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}
		return tx.Where("user1_id = ? OR user2_id = ?", userID, userID).Delete(&models.Friendship{}).Error
	})
}
