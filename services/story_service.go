package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sigmat-api/apperrors"
	"sigmat-api/models"
	"sigmat-api/repositories"
)

const feedLimit = 100

// StoryService publishes stories and builds each viewer's feed.
type StoryService struct {
	stories repositories.StoryRepository
	users   repositories.UserRepository
	friends repositories.FriendRepository
	media   MediaStore
	logger  *zap.Logger
}

func NewStoryService(stories repositories.StoryRepository, users repositories.UserRepository, friends repositories.FriendRepository, media MediaStore, logger *zap.Logger) *StoryService {
	return &StoryService{stories: stories, users: users, friends: friends, media: media, logger: logger}
}

func (s *StoryService) findStory(ctx context.Context, id string) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Story not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load story", err)
	}
	return story, nil
}

func (s *StoryService) Post(ctx context.Context, authorID string, in models.NewStory) (*models.Story, error) {
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}
	if !in.Visibility.Valid() {
		return nil, apperrors.InvalidInput("visibility must be public or friends")
	}
	if in.MediaType == "" {
		in.MediaType = models.MessageTypeText
	}
	if !in.MediaType.Valid() {
		return nil, apperrors.InvalidInput("media_type must be text, image or video")
	}

	story := &models.Story{
		ID:            uuid.NewString(),
		AuthorID:      authorID,
		Content:       in.Content,
		MediaURL:      in.MediaURL,
		MediaType:     in.MediaType,
		Visibility:    in.Visibility,
		AllowComments: in.AllowComments,
		Likes:         models.StringSliceType{},
		Shares:        0,
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, apperrors.Internal("failed to create story", err)
	}
	return story, nil
}

// Upload stores story media (up to 50MB) and posts it.
func (s *StoryService) Upload(ctx context.Context, authorID string, upload Upload, in models.NewStory) (*models.Story, error) {
	if err := upload.CheckSize(MaxStoryMediaBytes, "File"); err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(upload.ContentType, "video/"):
		in.MediaType = models.MessageTypeVideo
	case strings.HasPrefix(upload.ContentType, "image/"):
		in.MediaType = models.MessageTypeImage
	default:
		return nil, apperrors.InvalidInput("Only image and video uploads are supported")
	}

	url, err := s.media.Store(ctx, upload)
	if err != nil {
		return nil, apperrors.Internal("failed to store media", err)
	}
	in.MediaURL = url
	return s.Post(ctx, authorID, in)
}

// Feed returns public stories, friends-only stories of friends, and the viewer's own,
// newest first. Authors on either side of a block and deleted authors are left out.
func (s *StoryService) Feed(ctx context.Context, viewerID string) ([]models.StoryView, error) {
	friends, err := friendIDs(ctx, s.friends, viewerID)
	if err != nil {
		return nil, err
	}
	related, err := blockRelations(ctx, s.users, viewerID)
	if err != nil {
		return nil, err
	}
	exclude := make([]string, 0, len(related))
	for id := range related {
		exclude = append(exclude, id)
	}

	stories, err := s.stories.ListVisible(ctx, viewerID, friends, exclude, feedLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to load feed", err)
	}
	return s.annotate(ctx, viewerID, stories)
}

func (s *StoryService) Mine(ctx context.Context, viewerID string) ([]models.StoryView, error) {
	stories, err := s.stories.ListByAuthor(ctx, viewerID, false)
	if err != nil {
		return nil, apperrors.Internal("failed to load stories", err)
	}
	return s.annotate(ctx, viewerID, stories)
}

// ByAuthor lists one author's stories; friends-only stories are included for friends and the author.
func (s *StoryService) ByAuthor(ctx context.Context, viewerID, authorID string) ([]models.StoryView, error) {
	if viewerID != authorID {
		blocked, err := blockedEitherWay(ctx, s.users, viewerID, authorID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, apperrors.Forbidden("User not accessible")
		}
	}

	publicOnly := viewerID != authorID
	if publicOnly {
		_, err := s.friends.GetFriendship(ctx, viewerID, authorID)
		switch {
		case err == nil:
			publicOnly = false
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.Internal("failed to check friendship", err)
		}
	}

	stories, err := s.stories.ListByAuthor(ctx, authorID, publicOnly)
	if err != nil {
		return nil, apperrors.Internal("failed to load stories", err)
	}
	return s.annotate(ctx, viewerID, stories)
}

func (s *StoryService) annotate(ctx context.Context, viewerID string, stories []models.Story) ([]models.StoryView, error) {
	authors := make([]string, 0, len(stories))
	for _, story := range stories {
		authors = append(authors, story.AuthorID)
	}
	cards, err := summaries(ctx, s.users, authors...)
	if err != nil {
		return nil, err
	}

	views := make([]models.StoryView, 0, len(stories))
	for _, story := range stories {
		author, ok := cards[story.AuthorID]
		if !ok {
			continue
		}
		comments, err := s.stories.CountComments(ctx, story.ID)
		if err != nil {
			return nil, apperrors.Internal("failed to count comments", err)
		}
		views = append(views, models.StoryView{
			Story:         story,
			Author:        author,
			LikesCount:    len(story.Likes),
			LikedByMe:     story.Likes.Contains(viewerID),
			CommentsCount: comments,
		})
	}
	return views, nil
}

// Like toggles the viewer's like and reports whether the story is now liked.
func (s *StoryService) Like(ctx context.Context, storyID, viewerID string) (bool, int, error) {
	story, err := s.findStory(ctx, storyID)
	if err != nil {
		return false, 0, err
	}

	liked := !story.Likes.Contains(viewerID)
	likes := story.Likes.Without(viewerID)
	if liked {
		likes = story.Likes.With(viewerID)
	}
	if err := s.stories.SetLikes(ctx, storyID, likes); err != nil {
		return false, 0, apperrors.Internal("failed to update likes", err)
	}
	return liked, len(likes), nil
}

func (s *StoryService) Share(ctx context.Context, storyID, viewerID string) (int, error) {
	shares, err := s.stories.IncrementShares(ctx, storyID)
	if errors.Is(err, repositories.ErrNotFound) {
		return 0, apperrors.NotFound("Story not found")
	}
	if err != nil {
		return 0, apperrors.Internal("failed to share story", err)
	}
	s.logger.Debug("story shared", zap.String("story_id", storyID), zap.String("user_id", viewerID))
	return shares, nil
}

func (s *StoryService) Comment(ctx context.Context, storyID, viewerID, text string) (*models.CommentView, error) {
	story, err := s.findStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !story.AllowComments {
		return nil, apperrors.Forbidden("Comments are disabled for this story")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.InvalidInput("Comment must not be empty")
	}
	author, err := findUser(ctx, s.users, viewerID)
	if err != nil {
		return nil, err
	}

	comment := &models.StoryComment{
		ID:       uuid.NewString(),
		StoryID:  storyID,
		AuthorID: viewerID,
		Content:  text,
	}
	if err := s.stories.CreateComment(ctx, comment); err != nil {
		return nil, apperrors.Internal("failed to add comment", err)
	}
	return &models.CommentView{StoryComment: *comment, Author: author.Summary()}, nil
}

func (s *StoryService) Comments(ctx context.Context, storyID string) ([]models.CommentView, error) {
	if _, err := s.findStory(ctx, storyID); err != nil {
		return nil, err
	}
	comments, err := s.stories.ListComments(ctx, storyID)
	if err != nil {
		return nil, apperrors.Internal("failed to load comments", err)
	}

	authors := make([]string, 0, len(comments))
	for _, c := range comments {
		authors = append(authors, c.AuthorID)
	}
	cards, err := summaries(ctx, s.users, authors...)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		author, ok := cards[c.AuthorID]
		if !ok {
			continue
		}
		views = append(views, models.CommentView{StoryComment: c, Author: author})
	}
	return views, nil
}

// DeleteStory removes a story and its comments. Only the author may do this.
func (s *StoryService) DeleteStory(ctx context.Context, storyID, actorID string) error {
	story, err := s.findStory(ctx, storyID)
	if err != nil {
		return err
	}
	if story.AuthorID != actorID {
		return apperrors.Forbidden("You can only delete your own stories")
	}
	if err := s.stories.Delete(ctx, storyID); err != nil {
		return apperrors.Internal("failed to delete story", err)
	}
	return nil
}

// DeleteComment is allowed for the comment's author and for the author of the story it is on.
func (s *StoryService) DeleteComment(ctx context.Context, commentID, actorID string) error {
	comment, err := s.stories.GetComment(ctx, commentID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Comment not found")
	}
	if err != nil {
		return apperrors.Internal("failed to load comment", err)
	}

	allowed := comment.AuthorID == actorID
	if !allowed {
		story, err := s.stories.GetByID(ctx, comment.StoryID)
		switch {
		case err == nil:
			allowed = story.AuthorID == actorID
		case !errors.Is(err, repositories.ErrNotFound):
			return apperrors.Internal("failed to load story", err)
		}
	}
	if !allowed {
		return apperrors.Forbidden("Not authorized to delete this comment")
	}

	if err := s.stories.DeleteComment(ctx, commentID); err != nil {
		return apperrors.Internal("failed to delete comment", err)
	}
	return nil
}
