package models

import (
	"strings"
	"time"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusPaused  UserStatus = "paused"
	UserStatusBlocked UserStatus = "blocked"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusPaused, UserStatusBlocked:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type PhotoStatus string

const (
	PhotoStatusNone     PhotoStatus = "none"
	PhotoStatusPending  PhotoStatus = "pending"
	PhotoStatusApproved PhotoStatus = "approved"
	PhotoStatusRejected PhotoStatus = "rejected"
)

const (
	MinAge         = 18
	MaxAge         = 60
	MaxGallerySize = 5
)

type User struct {
	ID                 string      `json:"id" gorm:"primaryKey;size:191"`
	Name               string      `json:"name" gorm:"not null;size:255"`
	Email              string      `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password           string      `json:"-" gorm:"not null;size:255"`
	City               string      `json:"city" gorm:"size:255;index"`
	Gender             Gender      `json:"gender" gorm:"size:10;index"`
	Age                int         `json:"age" gorm:"index"`
	Bio                string      `json:"bio" gorm:"type:text"`
	ProfilePhoto       string      `json:"profile_photo" gorm:"type:text"`
	ProfilePhotoStatus PhotoStatus `json:"profile_photo_status" gorm:"size:20;default:'none'"`
	Points             int         `json:"points" gorm:"not null;default:10"`
	Status             UserStatus  `json:"status" gorm:"size:20;default:'active';index"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`

	Gallery      []GalleryPhoto `json:"gallery" gorm:"foreignKey:UserID"`
	BlockedUsers []string       `json:"blocked_users,omitempty" gorm:"-"`
}

// GalleryPhoto is one moderated slot of a user's gallery.
type GalleryPhoto struct {
	ID         string      `json:"id" gorm:"primaryKey;size:191"`
	UserID     string      `json:"user_id" gorm:"not null;size:191;index"`
	URL        string      `json:"url" gorm:"type:text;not null"`
	Status     PhotoStatus `json:"status" gorm:"size:20;default:'pending';index"`
	UploadedAt time.Time   `json:"uploaded_at"`
}

// UserBlock records that BlockerID has blocked BlockedID. The relation is one-way.
type UserBlock struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BlockerID string    `json:"blocker_id" gorm:"not null;size:191;uniqueIndex:uk_user_blocks_pair"`
	BlockedID string    `json:"blocked_id" gorm:"not null;size:191;uniqueIndex:uk_user_blocks_pair;index"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the public card attached to friends, messages, stories and comments.
type UserSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfilePhoto string `json:"profile_photo"`
	City         string `json:"city,omitempty"`
	Age          int    `json:"age,omitempty"`
	Gender       Gender `json:"gender,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		ProfilePhoto: u.ProfilePhoto,
		City:         u.City,
		Age:          u.Age,
		Gender:       u.Gender,
	}
}

// PendingGallery lists the photos still awaiting moderation.
func (u *User) PendingGallery() []GalleryPhoto {
	var pending []GalleryPhoto
	for _, p := range u.Gallery {
		if p.Status == PhotoStatusPending {
			pending = append(pending, p)
		}
	}
	return pending
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserFilter narrows a user search.
type UserFilter struct {
	City    string
	Gender  Gender
	MinAge  int
	MaxAge  int
	Exclude []string
	Limit   int
}

// ProfileUpdate carries the optional fields of a profile edit.
type ProfileUpdate struct {
	Name *string `json:"name"`
	City *string `json:"city"`
	Bio  *string `json:"bio"`
	Age  *int    `json:"age"`
}
