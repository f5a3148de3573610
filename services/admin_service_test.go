package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmat-api/apperrors"
	"sigmat-api/models"
)

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)

	_, err := f.admin.Login("admin", "wrong")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	token, err := f.admin.Login("admin", "admin2025")
	require.NoError(t, err)
	identity, err := f.tokens.Parse(token)
	require.NoError(t, err)
	assert.True(t, identity.IsPrivileged())
}

func TestAdminUpdateUser(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")

	bogus := models.UserStatus("deleted")
	_, err := f.admin.UpdateUser(f.ctx, a.ID, UserAdminUpdate{Status: &bogus})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	paused, points := models.UserStatusPaused, 3
	user, err := f.admin.UpdateUser(f.ctx, a.ID, UserAdminUpdate{Status: &paused, Points: &points})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusPaused, user.Status)
	assert.Equal(t, 3, user.Points)

	balance, err := f.admin.AddPoints(f.ctx, a.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 53, balance)

	_, err = f.admin.AddPoints(f.ctx, "missing", 50)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestAdminDeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	c := f.register(t, "cvita")
	f.befriend(t, a.ID, b.ID)
	_, err := f.friends.SendRequest(f.ctx, a.ID, c.ID)
	require.NoError(t, err)
	_, err = f.chat.Send(f.ctx, a.ID, b.ID, "hi", models.MessageTypeText)
	require.NoError(t, err)
	story := postStory(t, f, a.ID, "hello", models.VisibilityPublic)
	require.NoError(t, f.accounts.Block(f.ctx, a.ID, c.ID))

	require.NoError(t, f.admin.DeleteUser(f.ctx, a.ID))

	_, err = f.store.Users.GetByID(f.ctx, a.ID)
	assert.Error(t, err)

	friends, err := f.friends.ListFriends(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	received, err := f.friends.ListReceived(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, received)

	conversations, err := f.chat.ListConversations(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, conversations)

	_, err = f.store.Stories.GetByID(f.ctx, story.ID)
	assert.Error(t, err)

	blockers, err := f.store.Users.BlockerIDs(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, blockers)

	err = f.admin.DeleteUser(f.ctx, a.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestAdminSettings(t *testing.T) {
	f := newFixture(t)

	settings, err := f.admin.Settings(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentModePaid, settings.PaymentMode)
	assert.Equal(t, models.DefaultPaypalEmail, settings.PaypalEmail)

	bogus := models.PaymentMode("maybe")
	_, err = f.admin.UpdateSettings(f.ctx, models.SettingsUpdate{PaymentMode: &bogus})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	free, logo := models.PaymentModeFree, "https://cdn.example.com/logo.png"
	settings, err = f.admin.UpdateSettings(f.ctx, models.SettingsUpdate{PaymentMode: &free, LogoURL: &logo})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentModeFree, settings.PaymentMode)
	assert.Equal(t, logo, settings.LogoURL)
	assert.Equal(t, models.DefaultPaypalEmail, settings.PaypalEmail)

	loaded, err := f.settings.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentModeFree, loaded.PaymentMode)
}

func TestAdminImageModeration(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	f.register(t, "boris")

	_, err := f.accounts.UploadProfilePhoto(f.ctx, a.ID, imageUpload(8))
	require.NoError(t, err)
	keep, err := f.accounts.AddGalleryPhoto(f.ctx, a.ID, imageUpload(8))
	require.NoError(t, err)
	drop, err := f.accounts.AddGalleryPhoto(f.ctx, a.ID, imageUpload(8))
	require.NoError(t, err)

	pending, err := f.admin.PendingImages(f.ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	require.NoError(t, f.admin.ApproveImage(f.ctx, a.ID, keep.ID))
	require.NoError(t, f.admin.RejectImage(f.ctx, a.ID, drop.ID))
	require.NoError(t, f.admin.ApproveProfilePhoto(f.ctx, a.ID))

	pending, err = f.admin.PendingImages(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	user, err := f.admin.UserProfile(f.ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, user.Gallery, 1)
	assert.Equal(t, models.PhotoStatusApproved, user.Gallery[0].Status)
	assert.Equal(t, models.PhotoStatusApproved, user.ProfilePhotoStatus)

	require.NoError(t, f.admin.RejectProfilePhoto(f.ctx, a.ID))
	user, err = f.admin.UserProfile(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, user.ProfilePhoto)
	assert.Equal(t, models.PhotoStatusNone, user.ProfilePhotoStatus)

	err = f.admin.ApproveProfilePhoto(f.ctx, a.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	err = f.admin.ApproveImage(f.ctx, a.ID, drop.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestAdminDirectMessage(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")

	_, err := f.admin.SendUserMessage(f.ctx, DirectMessageInput{UserID: a.ID})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	note, err := f.admin.SendUserMessage(f.ctx, DirectMessageInput{UserID: a.ID, Content: "Welcome"})
	require.NoError(t, err)
	assert.Equal(t, "Poruka od Admina", note.Title)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, a.Email+": Welcome", f.mailer.sent[0])

	feed, err := f.notes.Feed(f.ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 1)
	assert.False(t, feed.Notifications[0].IsRead)

	require.NoError(t, f.notes.MarkRead(f.ctx, note.ID, a.ID))
	feed, err = f.notes.Feed(f.ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, feed.Notifications[0].IsRead)

	err = f.notes.MarkRead(f.ctx, note.ID, "someone-else")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestBroadcasts(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	_, err := f.friends.SendRequest(f.ctx, b.ID, a.ID)
	require.NoError(t, err)

	_, err = f.admin.CreateBroadcast(f.ctx, BroadcastInput{})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	broadcast, err := f.admin.CreateBroadcast(f.ctx, BroadcastInput{Content: "Maintenance tonight"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBroadcastTitle, broadcast.Title)
	assert.Equal(t, models.DefaultBroadcastType, broadcast.Type)
	assert.True(t, broadcast.Active)

	feed, err := f.notes.Feed(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, feed.Broadcasts, 1)
	assert.Equal(t, int64(1), feed.FriendRequestCount)

	n, err := f.notes.ExpireBroadcasts(f.ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = f.notes.ExpireBroadcasts(f.ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	feed, err = f.notes.Feed(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, feed.Broadcasts)

	all, err := f.admin.ListBroadcasts(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	require.NoError(t, f.admin.DeleteBroadcast(f.ctx, broadcast.ID))
	err = f.admin.DeleteBroadcast(f.ctx, broadcast.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestAdminListsPayments(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	_, err := f.points.Purchase(f.ctx, a.ID, 300)
	require.NoError(t, err)

	payments, err := f.admin.ListPayments(f.ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusPending, payments[0].Status)
	assert.Equal(t, 75.0, payments[0].Price)
}
