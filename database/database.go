package database

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sigmat-api/models"
)

// Initialize opens a connection with the named driver (mysql or postgres).
func Initialize(driver, databaseURL string, production bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(databaseURL)
	case "postgres":
		dialector = postgres.Open(databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	level := gormlogger.Info
	if production {
		level = gormlogger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(level),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.GalleryPhoto{},
		&models.UserBlock{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Message{},
		&models.Payment{},
		&models.Story{},
		&models.StoryComment{},
		&models.Settings{},
		&models.Notification{},
		&models.Broadcast{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	addCustomIndexes(db, logger)
	return nil
}

// addCustomIndexes creates the composite indexes behind the hot queries.
// A failure is logged and skipped; the tables still work without them.
func addCustomIndexes(db *gorm.DB, logger *zap.Logger) {
	indexes := map[string]string{
		"idx_messages_pair_created":  "CREATE INDEX IF NOT EXISTS idx_messages_pair_created ON messages(sender_id, receiver_id, created_at)",
		"idx_messages_receiver_read": "CREATE INDEX IF NOT EXISTS idx_messages_receiver_read ON messages(receiver_id, is_read)",
		"idx_stories_author_created": "CREATE INDEX IF NOT EXISTS idx_stories_author_created ON stories(author_id, created_at DESC)",
		"idx_story_comments_story":   "CREATE INDEX IF NOT EXISTS idx_story_comments_story ON story_comments(story_id, created_at)",
		"idx_notifications_user":     "CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC)",
	}
	for name, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			logger.Warn("could not create index", zap.String("index", name), zap.Error(err))
		}
	}
}

// SeedData writes the default settings record when none exists.
func SeedData(db *gorm.DB, logger *zap.Logger) error {
	var existing models.Settings
	err := db.First(&existing, "id = ?", models.SettingsID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check settings: %w", err)
	}

	defaults := models.DefaultSettings()
	if err := db.Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	logger.Info("seeded default settings", zap.String("payment_mode", string(defaults.PaymentMode)))
	return nil
}
