package models

import "time"

type NotificationType string

const (
	NotificationTypeAdminMessage NotificationType = "admin_message"
)

// Notification is a message addressed to one user.
type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;size:191"`
	UserID    string           `json:"user_id" gorm:"not null;size:191;index"`
	Title     string           `json:"title" gorm:"size:255"`
	Content   string           `json:"content" gorm:"type:text"`
	ImageURL  string           `json:"image_url" gorm:"type:longtext"`
	Type      NotificationType `json:"type" gorm:"size:50"`
	IsRead    bool             `json:"read" gorm:"default:false"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
}

const (
	DefaultBroadcastTitle = "Obavijest"
	DefaultBroadcastType  = "info"
)

// Broadcast is a platform-wide notice shown to every user while active.
type Broadcast struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Title     string    `json:"title" gorm:"size:255"`
	Content   string    `json:"content" gorm:"type:text"`
	ImageURL  string    `json:"image_url" gorm:"type:longtext"`
	VideoURL  string    `json:"video_url" gorm:"type:longtext"`
	Type      string    `json:"type" gorm:"size:50"`
	Active    bool      `json:"active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

type NotificationFeed struct {
	Notifications      []Notification `json:"notifications"`
	Broadcasts         []Broadcast    `json:"broadcasts"`
	FriendRequestCount int64          `json:"friend_requests_count"`
}
