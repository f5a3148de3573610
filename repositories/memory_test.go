package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmat-api/models"
)

func TestMemoryUsersUniqueEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Users.Create(ctx, &models.User{ID: "u1", Email: "Ana@Example.com"}))
	err := store.Users.Create(ctx, &models.User{ID: "u2", Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	user, err := store.Users.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	require.NoError(t, store.Users.Delete(ctx, "u1"))
	_, err = store.Users.GetByEmail(ctx, "ana@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsersReturnCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Users.Create(ctx, &models.User{ID: "u1", Email: "a@example.com", Points: 10}))

	user, err := store.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	user.Points = 99

	balance, err := store.Users.AdjustPoints(ctx, "u1", -11)
	require.NoError(t, err)
	assert.Equal(t, -1, balance)

	_, err = store.Users.AdjustPoints(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryFriendshipIsCanonical(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	f := &models.Friendship{ID: "f1", User1ID: "zed", User2ID: "amy"}
	require.NoError(t, store.Friends.CreateFriendship(ctx, f))
	assert.Equal(t, "amy", f.User1ID)

	err := store.Friends.CreateFriendship(ctx, &models.Friendship{ID: "f2", User1ID: "amy", User2ID: "zed"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := store.Friends.GetFriendship(ctx, "zed", "amy")
	require.NoError(t, err)
	assert.Equal(t, "f1", got.ID)

	require.NoError(t, store.Friends.DeleteFriendship(ctx, "zed", "amy"))
	assert.ErrorIs(t, store.Friends.DeleteFriendship(ctx, "zed", "amy"), ErrNotFound)
}

func TestMemoryMessagesPerViewerDeletion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, id := range []string{"m1", "m2"} {
		require.NoError(t, store.Messages.Create(ctx, &models.Message{ID: id, SenderID: "a", ReceiverID: "b", Content: id}))
	}
	require.NoError(t, store.Messages.MarkDeletedBy(ctx, "m1", "a"))

	forA, err := store.Messages.ListThread(ctx, "a", "b")
	require.NoError(t, err)
	require.Len(t, forA, 1)
	assert.Equal(t, "m2", forA[0].ID)

	forB, err := store.Messages.ListForUser(ctx, "b")
	require.NoError(t, err)
	require.Len(t, forB, 2)
	assert.Equal(t, "m2", forB[0].ID)

	unread, err := store.Messages.CountUnread(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	n, err := store.Messages.MarkThreadRead(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = store.Messages.DeleteBetween(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemoryPaymentsCompleteOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Payments.Create(ctx, &models.Payment{ID: "p1", UserID: "u1", Points: 100, Status: models.PaymentStatusPending}))

	_, err := store.Payments.GetForUser(ctx, "p1", "u2")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := store.Payments.MarkCompleted(ctx, "p1", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Payments.MarkCompleted(ctx, "p1", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoryDeleteRemovesComments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Stories.Create(ctx, &models.Story{ID: "s1", AuthorID: "a", Visibility: models.VisibilityPublic}))
	require.NoError(t, store.Stories.CreateComment(ctx, &models.StoryComment{ID: "c1", StoryID: "s1", AuthorID: "b", Content: "hi"}))

	count, err := store.Stories.CountComments(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, store.Stories.Delete(ctx, "s1"))
	_, err = store.Stories.GetComment(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryMissingRowsMatchGorm(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Users.Create(ctx, &models.User{ID: "u1", Email: "a@example.com"}))

	assert.ErrorIs(t, store.Users.SetGalleryPhotoStatus(ctx, "u1", "missing", models.PhotoStatusApproved), ErrNotFound)
	assert.ErrorIs(t, store.Users.RemoveGalleryPhoto(ctx, "u1", "missing"), ErrNotFound)
	assert.ErrorIs(t, store.Users.SetStatus(ctx, "ghost", models.UserStatusPaused), ErrNotFound)
	assert.ErrorIs(t, store.Users.SetPoints(ctx, "ghost", 5), ErrNotFound)
	assert.ErrorIs(t, store.Users.UpdateProfile(ctx, "ghost", models.ProfileUpdate{}), ErrNotFound)
	assert.ErrorIs(t, store.Friends.SetRequestStatus(ctx, "r1", models.FriendRequestStatusAccepted), ErrNotFound)
}

func TestMemoryListVisibleExcludesBeforeLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, story := range []models.Story{
		{ID: "s1", AuthorID: "kept", Visibility: models.VisibilityPublic},
		{ID: "s2", AuthorID: "kept", Visibility: models.VisibilityPublic},
		{ID: "s3", AuthorID: "blocked", Visibility: models.VisibilityPublic},
		{ID: "s4", AuthorID: "blocked", Visibility: models.VisibilityPublic},
	} {
		story := story
		require.NoError(t, store.Stories.Create(ctx, &story))
	}

	stories, err := store.Stories.ListVisible(ctx, "viewer", nil, []string{"blocked"}, 2)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "s2", stories[0].ID)
	assert.Equal(t, "s1", stories[1].ID)
}
