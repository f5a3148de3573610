package models

import "time"

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVideo MessageType = "video"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVideo:
		return true
	}
	return false
}

type Message struct {
	ID         string      `json:"id" gorm:"primaryKey;size:191"`
	SenderID   string      `json:"sender_id" gorm:"not null;size:191;index:idx_messages_pair"`
	ReceiverID string      `json:"receiver_id" gorm:"not null;size:191;index:idx_messages_pair;index"`
	Content    string      `json:"content" gorm:"type:longtext"`
	Type       MessageType `json:"message_type" gorm:"size:10;default:'text'"`
	Read       bool        `json:"read" gorm:"column:is_read;default:false"`
	CreatedAt  time.Time   `json:"created_at" gorm:"index"`

	// DeletedBy holds the ids of users who hid this message from their own view.
	DeletedBy StringSliceType `json:"deleted_by"`
}

// Partner returns the other party of the message as seen by userID.
func (m *Message) Partner(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

func (m *Message) HiddenFrom(userID string) bool {
	return m.DeletedBy.Contains(userID)
}

// Preview is the conversation-list text: the content for text, a type tag otherwise.
func (m *Message) Preview() string {
	if m.Type == MessageTypeText || m.Type == "" {
		return m.Content
	}
	return "[" + string(m.Type) + "]"
}

type Conversation struct {
	Partner         UserSummary `json:"partner"`
	LastMessage     string      `json:"last_message"`
	LastMessageType MessageType `json:"last_message_type"`
	LastMessageTime time.Time   `json:"last_message_time"`
	UnreadCount     int64       `json:"unread_count"`
}

type ThreadMessage struct {
	Message
	SenderName   string `json:"sender_name"`
	ReceiverName string `json:"receiver_name"`
}

type SendResult struct {
	MessageID       string `json:"message_id"`
	RemainingPoints int    `json:"remaining_points"`
	Content         string `json:"content,omitempty"`
}
