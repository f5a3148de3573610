package repositories

import (
	"context"

	"gorm.io/gorm"

	"sigmat-api/models"
)

// messageRepository keeps the per-viewer deletion set in a JSON column and filters it in Go,
// which keeps the queries portable across MySQL and PostgreSQL.
type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return translate(r.db.WithContext(ctx).Create(message).Error)
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &message, nil
}

func (r *messageRepository) MarkDeletedBy(ctx context.Context, id, userID string) error {
	message, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if message.HiddenFrom(userID) {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ?", id).
		Update("deleted_by", message.DeletedBy.With(userID)).Error)
}

func (r *messageRepository) ListForUser(ctx context.Context, userID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, translate(err)
	}
	return visibleTo(messages, userID), nil
}

func (r *messageRepository) ListThread(ctx context.Context, userID, partnerID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.between(ctx, userID, partnerID).Order("created_at ASC").Find(&messages).Error
	if err != nil {
		return nil, translate(err)
	}
	return visibleTo(messages, userID), nil
}

func (r *messageRepository) MarkThreadRead(ctx context.Context, readerID, partnerID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", partnerID, readerID, false).
		Update("is_read", true)
	return result.RowsAffected, translate(result.Error)
}

func (r *messageRepository) CountUnread(ctx context.Context, readerID, partnerID string) (int64, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Select("id", "deleted_by").
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", partnerID, readerID, false).
		Find(&messages).Error
	if err != nil {
		return 0, translate(err)
	}
	return int64(len(visibleTo(messages, readerID))), nil
}

func (r *messageRepository) DeleteBetween(ctx context.Context, a, b string) (int64, error) {
	result := r.between(ctx, a, b).Delete(&models.Message{})
	return result.RowsAffected, translate(result.Error)
}

func (r *messageRepository) DeleteForUser(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.Message{})
	return result.RowsAffected, translate(result.Error)
}

func (r *messageRepository) between(ctx context.Context, a, b string) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)
}

func visibleTo(messages []models.Message, userID string) []models.Message {
	visible := messages[:0]
	for _, m := range messages {
		if !m.HiddenFrom(userID) {
			visible = append(visible, m)
		}
	}
	return visible
}
