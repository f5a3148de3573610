package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// NewGormStore wires every repository to one gorm connection.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:         NewUserRepository(db),
		Friends:       NewFriendRepository(db),
		Messages:      NewMessageRepository(db),
		Payments:      NewPaymentRepository(db),
		Stories:       NewStoryRepository(db),
		Settings:      NewSettingsRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// affected turns a zero-row write into ErrNotFound.
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// updated is affected for UPDATE statements. MySQL reports changed rows, not matched
// ones, so a zero count is confirmed against the table before it becomes ErrNotFound.
func updated(db *gorm.DB, result *gorm.DB, model interface{}, query string, args ...interface{}) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return exists(db, model, query, args...)
}

// exists returns ErrNotFound when no row of model matches query.
func exists(db *gorm.DB, model interface{}, query string, args ...interface{}) error {
	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
