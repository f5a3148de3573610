package models

import "time"

type StoryVisibility string

const (
	VisibilityPublic  StoryVisibility = "public"
	VisibilityFriends StoryVisibility = "friends"
)

func (v StoryVisibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityFriends
}

type Story struct {
	ID            string          `json:"id" gorm:"primaryKey;size:191"`
	AuthorID      string          `json:"user_id" gorm:"not null;size:191;index"`
	Content       string          `json:"content" gorm:"type:text"`
	MediaURL      string          `json:"media_url" gorm:"type:longtext"`
	MediaType     MessageType     `json:"media_type" gorm:"size:10;default:'text'"`
	Visibility    StoryVisibility `json:"visibility" gorm:"size:10;default:'public';index"`
	AllowComments bool            `json:"allow_comments" gorm:"not null"`
	Likes         StringSliceType `json:"likes"`
	Shares        int             `json:"shares" gorm:"default:0"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
}

// VisibleTo reports whether viewer may see the story given whether viewer and author are friends.
func (s *Story) VisibleTo(viewerID string, friends bool) bool {
	return s.Visibility == VisibilityPublic || s.AuthorID == viewerID || (s.Visibility == VisibilityFriends && friends)
}

type StoryComment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	StoryID   string    `json:"story_id" gorm:"not null;size:191;index"`
	AuthorID  string    `json:"user_id" gorm:"not null;size:191"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

type NewStory struct {
	Content       string          `json:"content"`
	MediaURL      string          `json:"media_url"`
	MediaType     MessageType     `json:"media_type"`
	Visibility    StoryVisibility `json:"visibility"`
	AllowComments bool            `json:"allow_comments"`
}

// StoryView is a story annotated for one viewer.
type StoryView struct {
	Story
	Author        UserSummary `json:"author"`
	LikesCount    int         `json:"likes_count"`
	LikedByMe     bool        `json:"liked_by_me"`
	CommentsCount int64       `json:"comments_count"`
}

type CommentView struct {
	StoryComment
	Author UserSummary `json:"author"`
}
