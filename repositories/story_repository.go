package repositories

import (
	"context"

	"gorm.io/gorm"

	"sigmat-api/models"
)

type storyRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	return translate(r.db.WithContext(ctx).Create(story).Error)
}

func (r *storyRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	if err := r.db.WithContext(ctx).First(&story, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &story, nil
}

func (r *storyRepository) ListVisible(ctx context.Context, viewerID string, friendIDs, excludeAuthors []string, limit int) ([]models.Story, error) {
	visible := r.db.Where("visibility = ?", models.VisibilityPublic)
	if len(friendIDs) > 0 {
		visible = visible.Or("visibility = ? AND author_id IN ?", models.VisibilityFriends, friendIDs)
	}
	visible = visible.Or("author_id = ?", viewerID)

	query := r.db.WithContext(ctx).Where(visible)
	if len(excludeAuthors) > 0 {
		query = query.Where("author_id NOT IN ?", excludeAuthors)
	}

	var stories []models.Story
	err := query.Order("created_at DESC").Limit(limit).Find(&stories).Error
	return stories, translate(err)
}

func (r *storyRepository) ListByAuthor(ctx context.Context, authorID string, publicOnly bool) ([]models.Story, error) {
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID)
	if publicOnly {
		query = query.Where("visibility = ?", models.VisibilityPublic)
	}

	var stories []models.Story
	err := query.Order("created_at DESC").Find(&stories).Error
	return stories, translate(err)
}

func (r *storyRepository) SetLikes(ctx context.Context, id string, likes models.StringSliceType) error {
	db := r.db.WithContext(ctx)
	return updated(db, db.Model(&models.Story{}).Where("id = ?", id).Update("likes", likes), &models.Story{}, "id = ?", id)
}

func (r *storyRepository) IncrementShares(ctx context.Context, id string) (int, error) {
	db := r.db.WithContext(ctx)
	if err := affected(db.Model(&models.Story{}).Where("id = ?", id).
		UpdateColumn("shares", gorm.Expr("shares + ?", 1))); err != nil {
		return 0, err
	}

	var story models.Story
	if err := db.Select("shares").First(&story, "id = ?", id).Error; err != nil {
		return 0, translate(err)
	}
	return story.Shares, nil
}

func (r *storyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", id).Delete(&models.StoryComment{}).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&models.Story{}, "id = ?", id))
	})
}

func (r *storyRepository) DeleteByAuthor(ctx context.Context, authorID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Story{}).Select("id").Where("author_id = ?", authorID)
		if err := tx.Where("story_id IN (?) OR author_id = ?", owned, authorID).Delete(&models.StoryComment{}).Error; err != nil {
			return err
		}
		return tx.Where("author_id = ?", authorID).Delete(&models.Story{}).Error
	})
}

func (r *storyRepository) CreateComment(ctx context.Context, comment *models.StoryComment) error {
	return translate(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *storyRepository) GetComment(ctx context.Context, id string) (*models.StoryComment, error) {
	var comment models.StoryComment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *storyRepository) ListComments(ctx context.Context, storyID string) ([]models.StoryComment, error) {
	var comments []models.StoryComment
	err := r.db.WithContext(ctx).Where("story_id = ?", storyID).Order("created_at DESC").Find(&comments).Error
	return comments, translate(err)
}

func (r *storyRepository) CountComments(ctx context.Context, storyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StoryComment{}).Where("story_id = ?", storyID).Count(&count).Error
	return count, translate(err)
}

func (r *storyRepository) DeleteComment(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.StoryComment{}, "id = ?", id))
}
