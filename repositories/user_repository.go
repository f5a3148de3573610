package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"sigmat-api/models"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Gallery", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at ASC") }).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", models.NormalizeEmail(email)).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Preload("Gallery").Order("created_at DESC").Find(&users).Error
	return users, translate(err)
}

func (r *userRepository) Search(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where("status = ?", models.UserStatusActive).
		Where("age BETWEEN ? AND ?", filter.MinAge, filter.MaxAge)

	if filter.City != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(filter.City)+"%")
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if len(filter.Exclude) > 0 {
		query = query.Where("id NOT IN ?", filter.Exclude)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var users []models.User
	err := query.Preload("Gallery").Order("created_at DESC").Find(&users).Error
	return users, translate(err)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) error {
	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.City != nil {
		updates["city"] = *update.City
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}
	if update.Age != nil {
		updates["age"] = *update.Age
	}
	db := r.db.WithContext(ctx)
	if len(updates) == 0 {
		return exists(db, &models.User{}, "id = ?", id)
	}
	return updated(db, db.Model(&models.User{}).Where("id = ?", id).Updates(updates), &models.User{}, "id = ?", id)
}

func (r *userRepository) SetProfilePhoto(ctx context.Context, id, url string, status models.PhotoStatus) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"profile_photo":        url,
		"profile_photo_status": status,
	})
	return updated(db, result, &models.User{}, "id = ?", id)
}

func (r *userRepository) SetStatus(ctx context.Context, id string, status models.UserStatus) error {
	db := r.db.WithContext(ctx)
	return updated(db, db.Model(&models.User{}).Where("id = ?", id).Update("status", status), &models.User{}, "id = ?", id)
}

func (r *userRepository) SetPoints(ctx context.Context, id string, points int) error {
	db := r.db.WithContext(ctx)
	return updated(db, db.Model(&models.User{}).Where("id = ?", id).Update("points", points), &models.User{}, "id = ?", id)
}

func (r *userRepository) AdjustPoints(ctx context.Context, id string, delta int) (int, error) {
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).Error; err != nil {
		return 0, translate(err)
	}

	var user models.User
	if err := db.Select("points").First(&user, "id = ?", id).Error; err != nil {
		return 0, translate(err)
	}
	return user.Points, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.GalleryPhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blocker_id = ? OR blocked_id = ?", id, id).Delete(&models.UserBlock{}).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&models.User{}, "id = ?", id))
	})
}

func (r *userRepository) AddGalleryPhoto(ctx context.Context, photo *models.GalleryPhoto) error {
	return translate(r.db.WithContext(ctx).Create(photo).Error)
}

func (r *userRepository) CountGallery(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GalleryPhoto{}).Where("user_id = ?", userID).Count(&count).Error
	return count, translate(err)
}

func (r *userRepository) SetGalleryPhotoStatus(ctx context.Context, userID, photoID string, status models.PhotoStatus) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.GalleryPhoto{}).
		Where("id = ? AND user_id = ?", photoID, userID).Update("status", status)
	return updated(db, result, &models.GalleryPhoto{}, "id = ? AND user_id = ?", photoID, userID)
}

func (r *userRepository) RemoveGalleryPhoto(ctx context.Context, userID, photoID string) error {
	return affected(r.db.WithContext(ctx).Where("id = ? AND user_id = ?", photoID, userID).Delete(&models.GalleryPhoto{}))
}

func (r *userRepository) ListWithPendingPhotos(ctx context.Context) ([]models.User, error) {
	pending := r.db.Model(&models.GalleryPhoto{}).Select("user_id").Where("status = ?", models.PhotoStatusPending)

	var users []models.User
	err := r.db.WithContext(ctx).
		Preload("Gallery", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at ASC") }).
		Where("id IN (?) OR profile_photo_status = ?", pending, models.PhotoStatusPending).
		Find(&users).Error
	return users, translate(err)
}

func (r *userRepository) Block(ctx context.Context, blockerID, blockedID string) error {
	exists, err := r.IsBlocked(ctx, blockerID, blockedID)
	if err != nil || exists {
		return err
	}
	return translate(r.db.WithContext(ctx).Create(&models.UserBlock{BlockerID: blockerID, BlockedID: blockedID}).Error)
}

func (r *userRepository) Unblock(ctx context.Context, blockerID, blockedID string) error {
	return translate(r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.UserBlock{}).Error)
}

func (r *userRepository) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserBlock{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *userRepository) BlockedIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.UserBlock{}).
		Where("blocker_id = ?", userID).Order("created_at ASC").Pluck("blocked_id", &ids).Error
	return ids, translate(err)
}

func (r *userRepository) BlockerIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.UserBlock{}).
		Where("blocked_id = ?", userID).Pluck("blocker_id", &ids).Error
	return ids, translate(err)
}
