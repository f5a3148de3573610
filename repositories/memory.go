package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"sigmat-api/models"
)

// memoryDB is an id-keyed arena for every entity plus the secondary indexes the
// queries need. Each repository call takes the lock once, so single calls are
// atomic the way single statements are in SQL; sequences of calls are not.
type memoryDB struct {
	mu  sync.RWMutex
	seq int64

	users   map[string]*models.User
	emails  map[string]string
	gallery map[string][]models.GalleryPhoto
	blocks  map[string]map[string]time.Time

	requests    map[string]*models.FriendRequest
	friendships map[[2]string]*models.Friendship

	messages map[string]*models.Message
	order    map[string]int64

	payments map[string]*models.Payment

	stories  map[string]*models.Story
	comments map[string]*models.StoryComment

	settings *models.Settings

	notifications map[string]*models.Notification
	broadcasts    map[string]*models.Broadcast
}

// NewMemoryStore returns a Store kept entirely in process memory.
func NewMemoryStore() *Store {
	m := &memoryDB{
		users:         make(map[string]*models.User),
		emails:        make(map[string]string),
		gallery:       make(map[string][]models.GalleryPhoto),
		blocks:        make(map[string]map[string]time.Time),
		requests:      make(map[string]*models.FriendRequest),
		friendships:   make(map[[2]string]*models.Friendship),
		messages:      make(map[string]*models.Message),
		order:         make(map[string]int64),
		payments:      make(map[string]*models.Payment),
		stories:       make(map[string]*models.Story),
		comments:      make(map[string]*models.StoryComment),
		notifications: make(map[string]*models.Notification),
		broadcasts:    make(map[string]*models.Broadcast),
	}
	return &Store{
		Users:         &memoryUsers{m},
		Friends:       &memoryFriends{m},
		Messages:      &memoryMessages{m},
		Payments:      &memoryPayments{m},
		Stories:       &memoryStories{m},
		Settings:      &memorySettings{m},
		Notifications: &memoryNotifications{m},
	}
}

// stamp returns a creation time that is strictly increasing across the store,
// so newest-first ordering is stable even when the clock does not advance.
func (m *memoryDB) stamp(t time.Time) (time.Time, int64) {
	m.seq++
	if t.IsZero() {
		t = time.Now()
	}
	return t.Add(time.Duration(m.seq) * time.Nanosecond), m.seq
}

func pairKey(a, b string) [2]string {
	user1, user2 := models.OrderedPair(a, b)
	return [2]string{user1, user2}
}

// Users

type memoryUsers struct{ m *memoryDB }

func (r *memoryUsers) copyUser(u *models.User) *models.User {
	out := *u
	out.Gallery = append([]models.GalleryPhoto(nil), r.m.gallery[u.ID]...)
	return &out
}

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	email := models.NormalizeEmail(user.Email)
	if _, taken := r.m.emails[email]; taken {
		return ErrDuplicate
	}
	if _, taken := r.m.users[user.ID]; taken {
		return ErrDuplicate
	}
	user.Email = email
	user.CreatedAt, _ = r.m.stamp(user.CreatedAt)
	user.UpdatedAt = user.CreatedAt

	stored := *user
	stored.Gallery = nil
	r.m.users[user.ID] = &stored
	r.m.emails[email] = user.ID
	return nil
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.copyUser(u), nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	id, ok := r.m.emails[models.NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return r.copyUser(r.m.users[id]), nil
}

func (r *memoryUsers) List(_ context.Context) ([]models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	users := make([]models.User, 0, len(r.m.users))
	for _, u := range r.m.users {
		users = append(users, *r.copyUser(u))
	}
	sortUsersNewestFirst(users)
	return users, nil
}

func (r *memoryUsers) Search(_ context.Context, filter models.UserFilter) ([]models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	excluded := make(map[string]bool, len(filter.Exclude))
	for _, id := range filter.Exclude {
		excluded[id] = true
	}
	city := strings.ToLower(filter.City)

	var users []models.User
	for _, u := range r.m.users {
		switch {
		case excluded[u.ID], u.Status != models.UserStatusActive:
			continue
		case u.Age < filter.MinAge || u.Age > filter.MaxAge:
			continue
		case city != "" && !strings.Contains(strings.ToLower(u.City), city):
			continue
		case filter.Gender != "" && u.Gender != filter.Gender:
			continue
		}
		users = append(users, *r.copyUser(u))
	}
	sortUsersNewestFirst(users)
	if filter.Limit > 0 && len(users) > filter.Limit {
		users = users[:filter.Limit]
	}
	return users, nil
}

func sortUsersNewestFirst(users []models.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
}

func (r *memoryUsers) update(id string, fn func(u *models.User)) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUsers) UpdateProfile(_ context.Context, id string, update models.ProfileUpdate) error {
	return r.update(id, func(u *models.User) {
		if update.Name != nil {
			u.Name = *update.Name
		}
		if update.City != nil {
			u.City = *update.City
		}
		if update.Bio != nil {
			u.Bio = *update.Bio
		}
		if update.Age != nil {
			u.Age = *update.Age
		}
	})
}

func (r *memoryUsers) SetProfilePhoto(_ context.Context, id, url string, status models.PhotoStatus) error {
	return r.update(id, func(u *models.User) {
		u.ProfilePhoto = url
		u.ProfilePhotoStatus = status
	})
}

func (r *memoryUsers) SetStatus(_ context.Context, id string, status models.UserStatus) error {
	return r.update(id, func(u *models.User) { u.Status = status })
}

func (r *memoryUsers) SetPoints(_ context.Context, id string, points int) error {
	return r.update(id, func(u *models.User) { u.Points = points })
}

func (r *memoryUsers) AdjustPoints(_ context.Context, id string, delta int) (int, error) {
	var balance int
	err := r.update(id, func(u *models.User) {
		u.Points += delta
		balance = u.Points
	})
	return balance, err
}

func (r *memoryUsers) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.m.emails, u.Email)
	delete(r.m.users, id)
	delete(r.m.gallery, id)
	delete(r.m.blocks, id)
	for _, blocked := range r.m.blocks {
		delete(blocked, id)
	}
	return nil
}

func (r *memoryUsers) AddGalleryPhoto(_ context.Context, photo *models.GalleryPhoto) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[photo.UserID]; !ok {
		return ErrNotFound
	}
	photo.UploadedAt, _ = r.m.stamp(photo.UploadedAt)
	r.m.gallery[photo.UserID] = append(r.m.gallery[photo.UserID], *photo)
	return nil
}

func (r *memoryUsers) CountGallery(_ context.Context, userID string) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return int64(len(r.m.gallery[userID])), nil
}

func (r *memoryUsers) SetGalleryPhotoStatus(_ context.Context, userID, photoID string, status models.PhotoStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	photos := r.m.gallery[userID]
	for i := range photos {
		if photos[i].ID == photoID {
			photos[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryUsers) RemoveGalleryPhoto(_ context.Context, userID, photoID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	photos := r.m.gallery[userID]
	for i := range photos {
		if photos[i].ID == photoID {
			r.m.gallery[userID] = append(photos[:i:i], photos[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryUsers) ListWithPendingPhotos(_ context.Context) ([]models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var users []models.User
	for _, u := range r.m.users {
		copied := r.copyUser(u)
		if copied.ProfilePhotoStatus == models.PhotoStatusPending || len(copied.PendingGallery()) > 0 {
			users = append(users, *copied)
		}
	}
	sortUsersNewestFirst(users)
	return users, nil
}

func (r *memoryUsers) Block(_ context.Context, blockerID, blockedID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.blocks[blockerID] == nil {
		r.m.blocks[blockerID] = make(map[string]time.Time)
	}
	if _, exists := r.m.blocks[blockerID][blockedID]; !exists {
		r.m.blocks[blockerID][blockedID], _ = r.m.stamp(time.Time{})
	}
	return nil
}

func (r *memoryUsers) Unblock(_ context.Context, blockerID, blockedID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.blocks[blockerID], blockedID)
	return nil
}

func (r *memoryUsers) IsBlocked(_ context.Context, blockerID, blockedID string) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	_, ok := r.m.blocks[blockerID][blockedID]
	return ok, nil
}

func (r *memoryUsers) BlockedIDs(_ context.Context, userID string) ([]string, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	ids := make([]string, 0, len(r.m.blocks[userID]))
	for id := range r.m.blocks[userID] {
		ids = append(ids, id)
	}
	at := r.m.blocks[userID]
	sort.Slice(ids, func(i, j int) bool { return at[ids[i]].Before(at[ids[j]]) })
	return ids, nil
}

func (r *memoryUsers) BlockerIDs(_ context.Context, userID string) ([]string, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var ids []string
	for blocker, blocked := range r.m.blocks {
		if _, ok := blocked[userID]; ok {
			ids = append(ids, blocker)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Friends

type memoryFriends struct{ m *memoryDB }

func (r *memoryFriends) CreateRequest(_ context.Context, request *models.FriendRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	request.CreatedAt, _ = r.m.stamp(request.CreatedAt)
	request.UpdatedAt = request.CreatedAt
	stored := *request
	r.m.requests[request.ID] = &stored
	return nil
}

func (r *memoryFriends) GetRequest(_ context.Context, id string) (*models.FriendRequest, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	request, ok := r.m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *request
	return &out, nil
}

func (r *memoryFriends) FindPendingRequest(_ context.Context, senderID, receiverID string) (*models.FriendRequest, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var found *models.FriendRequest
	for _, request := range r.m.requests {
		if request.SenderID == senderID && request.ReceiverID == receiverID && request.Status == models.FriendRequestStatusPending {
			if found == nil || request.CreatedAt.Before(found.CreatedAt) {
				found = request
			}
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	out := *found
	return &out, nil
}

func (r *memoryFriends) SetRequestStatus(_ context.Context, id string, status models.FriendRequestStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	request, ok := r.m.requests[id]
	if !ok {
		return ErrNotFound
	}
	request.Status = status
	request.UpdatedAt = time.Now()
	return nil
}

func (r *memoryFriends) DeleteRequest(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.requests[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.requests, id)
	return nil
}

func (r *memoryFriends) pending(match func(*models.FriendRequest) bool) []models.FriendRequest {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var requests []models.FriendRequest
	for _, request := range r.m.requests {
		if request.Status == models.FriendRequestStatusPending && match(request) {
			requests = append(requests, *request)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.After(requests[j].CreatedAt) })
	return requests
}

func (r *memoryFriends) ListPendingReceived(_ context.Context, userID string) ([]models.FriendRequest, error) {
	return r.pending(func(fr *models.FriendRequest) bool { return fr.ReceiverID == userID }), nil
}

func (r *memoryFriends) ListPendingSent(_ context.Context, userID string) ([]models.FriendRequest, error) {
	return r.pending(func(fr *models.FriendRequest) bool { return fr.SenderID == userID }), nil
}

func (r *memoryFriends) CountPendingReceived(ctx context.Context, userID string) (int64, error) {
	requests, err := r.ListPendingReceived(ctx, userID)
	return int64(len(requests)), err
}

func (r *memoryFriends) CreateFriendship(_ context.Context, friendship *models.Friendship) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	key := pairKey(friendship.User1ID, friendship.User2ID)
	if _, exists := r.m.friendships[key]; exists {
		return ErrDuplicate
	}
	friendship.User1ID, friendship.User2ID = key[0], key[1]
	friendship.CreatedAt, _ = r.m.stamp(friendship.CreatedAt)
	stored := *friendship
	r.m.friendships[key] = &stored
	return nil
}

func (r *memoryFriends) GetFriendship(_ context.Context, a, b string) (*models.Friendship, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	friendship, ok := r.m.friendships[pairKey(a, b)]
	if !ok {
		return nil, ErrNotFound
	}
	out := *friendship
	return &out, nil
}

func (r *memoryFriends) DeleteFriendship(_ context.Context, a, b string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	key := pairKey(a, b)
	if _, ok := r.m.friendships[key]; !ok {
		return ErrNotFound
	}
	delete(r.m.friendships, key)
	return nil
}

func (r *memoryFriends) ListFriendships(_ context.Context, userID string) ([]models.Friendship, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var friendships []models.Friendship
	for _, f := range r.m.friendships {
		if f.Involves(userID) {
			friendships = append(friendships, *f)
		}
	}
	sort.Slice(friendships, func(i, j int) bool { return friendships[i].CreatedAt.After(friendships[j].CreatedAt) })
	return friendships, nil
}

func (r *memoryFriends) DeleteAllForUser(_ context.Context, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for id, request := range r.m.requests {
		if request.SenderID == userID || request.ReceiverID == userID {
			delete(r.m.requests, id)
		}
	}
	for key, f := range r.m.friendships {
		if f.Involves(userID) {
			delete(r.m.friendships, key)
		}
	}
	return nil
}

// Messages

type memoryMessages struct{ m *memoryDB }

func copyMessage(msg *models.Message) models.Message {
	out := *msg
	out.DeletedBy = append(models.StringSliceType(nil), msg.DeletedBy...)
	return out
}

func (r *memoryMessages) Create(_ context.Context, message *models.Message) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var seq int64
	message.CreatedAt, seq = r.m.stamp(message.CreatedAt)
	stored := copyMessage(message)
	r.m.messages[message.ID] = &stored
	r.m.order[message.ID] = seq
	return nil
}

func (r *memoryMessages) GetByID(_ context.Context, id string) (*models.Message, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	msg, ok := r.m.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyMessage(msg)
	return &out, nil
}

func (r *memoryMessages) MarkDeletedBy(_ context.Context, id, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	msg, ok := r.m.messages[id]
	if !ok {
		return ErrNotFound
	}
	msg.DeletedBy = msg.DeletedBy.With(userID)
	return nil
}

// collect returns matching messages sorted by insertion order.
func (r *memoryMessages) collect(match func(*models.Message) bool, newestFirst bool) []models.Message {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []models.Message
	for _, msg := range r.m.messages {
		if match(msg) {
			out = append(out, copyMessage(msg))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return r.m.order[out[i].ID] > r.m.order[out[j].ID]
		}
		return r.m.order[out[i].ID] < r.m.order[out[j].ID]
	})
	return out
}

func between(msg *models.Message, a, b string) bool {
	return (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a)
}

func (r *memoryMessages) ListForUser(_ context.Context, userID string) ([]models.Message, error) {
	return r.collect(func(msg *models.Message) bool {
		return (msg.SenderID == userID || msg.ReceiverID == userID) && !msg.HiddenFrom(userID)
	}, true), nil
}

func (r *memoryMessages) ListThread(_ context.Context, userID, partnerID string) ([]models.Message, error) {
	return r.collect(func(msg *models.Message) bool {
		return between(msg, userID, partnerID) && !msg.HiddenFrom(userID)
	}, false), nil
}

func (r *memoryMessages) MarkThreadRead(_ context.Context, readerID, partnerID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var n int64
	for _, msg := range r.m.messages {
		if msg.SenderID == partnerID && msg.ReceiverID == readerID && !msg.Read {
			msg.Read = true
			n++
		}
	}
	return n, nil
}

func (r *memoryMessages) CountUnread(_ context.Context, readerID, partnerID string) (int64, error) {
	unread := r.collect(func(msg *models.Message) bool {
		return msg.SenderID == partnerID && msg.ReceiverID == readerID && !msg.Read && !msg.HiddenFrom(readerID)
	}, false)
	return int64(len(unread)), nil
}

func (r *memoryMessages) deleteWhere(match func(*models.Message) bool) int64 {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var n int64
	for id, msg := range r.m.messages {
		if match(msg) {
			delete(r.m.messages, id)
			delete(r.m.order, id)
			n++
		}
	}
	return n
}

func (r *memoryMessages) DeleteBetween(_ context.Context, a, b string) (int64, error) {
	return r.deleteWhere(func(msg *models.Message) bool { return between(msg, a, b) }), nil
}

func (r *memoryMessages) DeleteForUser(_ context.Context, userID string) (int64, error) {
	return r.deleteWhere(func(msg *models.Message) bool {
		return msg.SenderID == userID || msg.ReceiverID == userID
	}), nil
}

// Payments

type memoryPayments struct{ m *memoryDB }

func (r *memoryPayments) Create(_ context.Context, payment *models.Payment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	payment.CreatedAt, _ = r.m.stamp(payment.CreatedAt)
	stored := *payment
	r.m.payments[payment.ID] = &stored
	return nil
}

func (r *memoryPayments) GetForUser(_ context.Context, id, userID string) (*models.Payment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	payment, ok := r.m.payments[id]
	if !ok || payment.UserID != userID {
		return nil, ErrNotFound
	}
	out := *payment
	return &out, nil
}

func (r *memoryPayments) MarkCompleted(_ context.Context, id string, at time.Time) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	payment, ok := r.m.payments[id]
	if !ok {
		return false, ErrNotFound
	}
	if payment.Status != models.PaymentStatusPending {
		return false, nil
	}
	payment.Status = models.PaymentStatusCompleted
	payment.CompletedAt = &at
	return true, nil
}

func (r *memoryPayments) List(_ context.Context) ([]models.Payment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	payments := make([]models.Payment, 0, len(r.m.payments))
	for _, p := range r.m.payments {
		payments = append(payments, *p)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.After(payments[j].CreatedAt) })
	return payments, nil
}

// Stories

type memoryStories struct{ m *memoryDB }

func copyStory(s *models.Story) models.Story {
	out := *s
	out.Likes = append(models.StringSliceType(nil), s.Likes...)
	return out
}

func (r *memoryStories) Create(_ context.Context, story *models.Story) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	story.CreatedAt, _ = r.m.stamp(story.CreatedAt)
	stored := copyStory(story)
	r.m.stories[story.ID] = &stored
	return nil
}

func (r *memoryStories) GetByID(_ context.Context, id string) (*models.Story, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	story, ok := r.m.stories[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyStory(story)
	return &out, nil
}

func (r *memoryStories) list(match func(*models.Story) bool, limit int) []models.Story {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var stories []models.Story
	for _, s := range r.m.stories {
		if match(s) {
			stories = append(stories, copyStory(s))
		}
	}
	sort.Slice(stories, func(i, j int) bool { return stories[i].CreatedAt.After(stories[j].CreatedAt) })
	if limit > 0 && len(stories) > limit {
		stories = stories[:limit]
	}
	return stories
}

func (r *memoryStories) ListVisible(_ context.Context, viewerID string, friendIDs, excludeAuthors []string, limit int) ([]models.Story, error) {
	friends := make(map[string]bool, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = true
	}
	excluded := make(map[string]bool, len(excludeAuthors))
	for _, id := range excludeAuthors {
		excluded[id] = true
	}
	return r.list(func(s *models.Story) bool {
		return !excluded[s.AuthorID] && s.VisibleTo(viewerID, friends[s.AuthorID])
	}, limit), nil
}

func (r *memoryStories) ListByAuthor(_ context.Context, authorID string, publicOnly bool) ([]models.Story, error) {
	return r.list(func(s *models.Story) bool {
		return s.AuthorID == authorID && (!publicOnly || s.Visibility == models.VisibilityPublic)
	}, 0), nil
}

func (r *memoryStories) SetLikes(_ context.Context, id string, likes models.StringSliceType) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	story, ok := r.m.stories[id]
	if !ok {
		return ErrNotFound
	}
	story.Likes = append(models.StringSliceType(nil), likes...)
	return nil
}

func (r *memoryStories) IncrementShares(_ context.Context, id string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	story, ok := r.m.stories[id]
	if !ok {
		return 0, ErrNotFound
	}
	story.Shares++
	return story.Shares, nil
}

func (r *memoryStories) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.stories[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.stories, id)
	for cid, c := range r.m.comments {
		if c.StoryID == id {
			delete(r.m.comments, cid)
		}
	}
	return nil
}

func (r *memoryStories) DeleteByAuthor(_ context.Context, authorID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for id, s := range r.m.stories {
		if s.AuthorID == authorID {
			delete(r.m.stories, id)
		}
	}
	for cid, c := range r.m.comments {
		if _, storyLeft := r.m.stories[c.StoryID]; !storyLeft || c.AuthorID == authorID {
			delete(r.m.comments, cid)
		}
	}
	return nil
}

func (r *memoryStories) CreateComment(_ context.Context, comment *models.StoryComment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	comment.CreatedAt, _ = r.m.stamp(comment.CreatedAt)
	stored := *comment
	r.m.comments[comment.ID] = &stored
	return nil
}

func (r *memoryStories) GetComment(_ context.Context, id string) (*models.StoryComment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	comment, ok := r.m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *comment
	return &out, nil
}

func (r *memoryStories) ListComments(_ context.Context, storyID string) ([]models.StoryComment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var comments []models.StoryComment
	for _, c := range r.m.comments {
		if c.StoryID == storyID {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.After(comments[j].CreatedAt) })
	return comments, nil
}

func (r *memoryStories) CountComments(ctx context.Context, storyID string) (int64, error) {
	comments, err := r.ListComments(ctx, storyID)
	return int64(len(comments)), err
}

func (r *memoryStories) DeleteComment(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.comments, id)
	return nil
}

// Settings

type memorySettings struct{ m *memoryDB }

func (r *memorySettings) Get(_ context.Context) (*models.Settings, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	if r.m.settings == nil {
		return nil, ErrNotFound
	}
	out := *r.m.settings
	return &out, nil
}

func (r *memorySettings) Save(_ context.Context, settings *models.Settings) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	settings.ID = models.SettingsID
	settings.UpdatedAt = time.Now()
	stored := *settings
	r.m.settings = &stored
	return nil
}

// Notifications

type memoryNotifications struct{ m *memoryDB }

func (r *memoryNotifications) Create(_ context.Context, notification *models.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	notification.CreatedAt, _ = r.m.stamp(notification.CreatedAt)
	stored := *notification
	r.m.notifications[notification.ID] = &stored
	return nil
}

func (r *memoryNotifications) ListForUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var notifications []models.Notification
	for _, n := range r.m.notifications {
		if n.UserID == userID {
			notifications = append(notifications, *n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].CreatedAt.After(notifications[j].CreatedAt) })
	if limit > 0 && len(notifications) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (r *memoryNotifications) MarkRead(_ context.Context, id, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	n, ok := r.m.notifications[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (r *memoryNotifications) CreateBroadcast(_ context.Context, broadcast *models.Broadcast) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	broadcast.CreatedAt, _ = r.m.stamp(broadcast.CreatedAt)
	stored := *broadcast
	r.m.broadcasts[broadcast.ID] = &stored
	return nil
}

func (r *memoryNotifications) ListBroadcasts(_ context.Context, activeOnly bool, limit int) ([]models.Broadcast, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var broadcasts []models.Broadcast
	for _, b := range r.m.broadcasts {
		if !activeOnly || b.Active {
			broadcasts = append(broadcasts, *b)
		}
	}
	sort.Slice(broadcasts, func(i, j int) bool { return broadcasts[i].CreatedAt.After(broadcasts[j].CreatedAt) })
	if limit > 0 && len(broadcasts) > limit {
		broadcasts = broadcasts[:limit]
	}
	return broadcasts, nil
}

func (r *memoryNotifications) DeleteBroadcast(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.broadcasts[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.broadcasts, id)
	return nil
}

func (r *memoryNotifications) DeactivateBroadcastsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var n int64
	for _, b := range r.m.broadcasts {
		if b.Active && b.CreatedAt.Before(cutoff) {
			b.Active = false
			n++
		}
	}
	return n, nil
}
