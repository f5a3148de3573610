package repositories

import (
	"context"
	"errors"
	"time"

	"sigmat-api/models"
)

// ErrNotFound is returned by every repository when the addressed record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint would be violated.
var ErrDuplicate = errors.New("duplicate record")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Search(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) error
	SetProfilePhoto(ctx context.Context, id, url string, status models.PhotoStatus) error
	SetStatus(ctx context.Context, id string, status models.UserStatus) error
	SetPoints(ctx context.Context, id string, points int) error
	// AdjustPoints adds delta to the balance without a floor check and returns the new balance.
	AdjustPoints(ctx context.Context, id string, delta int) (int, error)
	Delete(ctx context.Context, id string) error

	AddGalleryPhoto(ctx context.Context, photo *models.GalleryPhoto) error
	CountGallery(ctx context.Context, userID string) (int64, error)
	SetGalleryPhotoStatus(ctx context.Context, userID, photoID string, status models.PhotoStatus) error
	RemoveGalleryPhoto(ctx context.Context, userID, photoID string) error
	ListWithPendingPhotos(ctx context.Context) ([]models.User, error)

	Block(ctx context.Context, blockerID, blockedID string) error
	Unblock(ctx context.Context, blockerID, blockedID string) error
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
	// BlockedIDs lists the users userID has blocked.
	BlockedIDs(ctx context.Context, userID string) ([]string, error)
	// BlockerIDs lists the users that have blocked userID.
	BlockerIDs(ctx context.Context, userID string) ([]string, error)
}

type FriendRepository interface {
	CreateRequest(ctx context.Context, request *models.FriendRequest) error
	GetRequest(ctx context.Context, id string) (*models.FriendRequest, error)
	FindPendingRequest(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error)
	SetRequestStatus(ctx context.Context, id string, status models.FriendRequestStatus) error
	DeleteRequest(ctx context.Context, id string) error
	ListPendingReceived(ctx context.Context, userID string) ([]models.FriendRequest, error)
	ListPendingSent(ctx context.Context, userID string) ([]models.FriendRequest, error)
	CountPendingReceived(ctx context.Context, userID string) (int64, error)

	// CreateFriendship stores the edge in canonical order; ErrDuplicate if the pair is already connected.
	CreateFriendship(ctx context.Context, friendship *models.Friendship) error
	GetFriendship(ctx context.Context, a, b string) (*models.Friendship, error)
	DeleteFriendship(ctx context.Context, a, b string) error
	ListFriendships(ctx context.Context, userID string) ([]models.Friendship, error)

	// DeleteAllForUser removes every request and edge touching userID.
	DeleteAllForUser(ctx context.Context, userID string) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	MarkDeletedBy(ctx context.Context, id, userID string) error
	// ListForUser returns messages userID sent or received and has not hidden, newest first.
	ListForUser(ctx context.Context, userID string) ([]models.Message, error)
	// ListThread returns messages between the two users not hidden by userID, oldest first.
	ListThread(ctx context.Context, userID, partnerID string) ([]models.Message, error)
	// MarkThreadRead marks every unread message from partnerID to readerID as read.
	MarkThreadRead(ctx context.Context, readerID, partnerID string) (int64, error)
	CountUnread(ctx context.Context, readerID, partnerID string) (int64, error)
	DeleteBetween(ctx context.Context, a, b string) (int64, error)
	DeleteForUser(ctx context.Context, userID string) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetForUser(ctx context.Context, id, userID string) (*models.Payment, error)
	// MarkCompleted moves a pending payment to completed; it reports false when the payment was not pending.
	MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error)
	List(ctx context.Context) ([]models.Payment, error)
}

type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id string) (*models.Story, error)
	// ListVisible returns stories that are public, from one of friendIDs, or authored by viewerID, newest first.
	// Stories by excludeAuthors are left out before the limit applies.
	ListVisible(ctx context.Context, viewerID string, friendIDs, excludeAuthors []string, limit int) ([]models.Story, error)
	ListByAuthor(ctx context.Context, authorID string, publicOnly bool) ([]models.Story, error)
	SetLikes(ctx context.Context, id string, likes models.StringSliceType) error
	IncrementShares(ctx context.Context, id string) (int, error)
	// Delete removes the story together with its comments.
	Delete(ctx context.Context, id string) error
	DeleteByAuthor(ctx context.Context, authorID string) error

	CreateComment(ctx context.Context, comment *models.StoryComment) error
	GetComment(ctx context.Context, id string) (*models.StoryComment, error)
	ListComments(ctx context.Context, storyID string) ([]models.StoryComment, error)
	CountComments(ctx context.Context, storyID string) (int64, error)
	DeleteComment(ctx context.Context, id string) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error

	CreateBroadcast(ctx context.Context, broadcast *models.Broadcast) error
	ListBroadcasts(ctx context.Context, activeOnly bool, limit int) ([]models.Broadcast, error)
	DeleteBroadcast(ctx context.Context, id string) error
	DeactivateBroadcastsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store bundles the repositories one storage backend provides.
type Store struct {
	Users         UserRepository
	Friends       FriendRepository
	Messages      MessageRepository
	Payments      PaymentRepository
	Stories       StoryRepository
	Settings      SettingsRepository
	Notifications NotificationRepository
}
