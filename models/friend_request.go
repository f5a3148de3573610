package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "pending"
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	FriendRequestStatusRejected FriendRequestStatus = "rejected"
)

type FriendRequest struct {
	ID         string              `json:"id" gorm:"primaryKey;size:191"`
	SenderID   string              `json:"sender_id" gorm:"not null;size:191;index:idx_friend_requests_pair"`
	ReceiverID string              `json:"receiver_id" gorm:"not null;size:191;index:idx_friend_requests_pair;index"`
	Status     FriendRequestStatus `json:"status" gorm:"not null;default:'pending';size:20"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Friendship is an undirected edge. User1ID is always the smaller id of the pair.
type Friendship struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	User1ID   string    `json:"user1_id" gorm:"not null;size:191;uniqueIndex:uk_friendships_pair"`
	User2ID   string    `json:"user2_id" gorm:"not null;size:191;uniqueIndex:uk_friendships_pair;index"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderedPair returns the two ids in the order a Friendship stores them.
func OrderedPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Other returns the party of the edge that is not userID.
func (f *Friendship) Other(userID string) string {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}

func (f *Friendship) Involves(userID string) bool {
	return f.User1ID == userID || f.User2ID == userID
}

type FriendStatus string

const (
	FriendStatusFriends         FriendStatus = "friends"
	FriendStatusRequestSent     FriendStatus = "request_sent"
	FriendStatusRequestReceived FriendStatus = "request_received"
	FriendStatusNone            FriendStatus = "none"
)

// FriendshipCheck is the relation between the caller and another user.
type FriendshipCheck struct {
	Status       FriendStatus `json:"status"`
	FriendshipID string       `json:"friendship_id,omitempty"`
	RequestID    string       `json:"request_id,omitempty"`
}

// SendRequestResult tells whether a send created a pending request or resolved a crossing one.
type SendRequestResult struct {
	Status       FriendRequestStatus `json:"status"`
	RequestID    string              `json:"request_id"`
	FriendshipID string              `json:"friendship_id,omitempty"`
}

type FriendRequestView struct {
	FriendRequest
	From *UserSummary `json:"from_user,omitempty"`
	To   *UserSummary `json:"to_user,omitempty"`
}

type FriendView struct {
	UserSummary
	FriendshipID string    `json:"friendship_id"`
	Since        time.Time `json:"since"`
}
