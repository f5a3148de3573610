package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmat-api/apperrors"
	"sigmat-api/models"
)

func TestCrossingRequestsBecomeOneFriendship(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")

	first, err := f.friends.SendRequest(f.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestStatusPending, first.Status)

	second, err := f.friends.SendRequest(f.ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestStatusAccepted, second.Status)
	assert.Equal(t, first.RequestID, second.RequestID)
	assert.NotEmpty(t, second.FriendshipID)

	friendships, err := f.store.Friends.ListFriendships(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, friendships, 1)

	for _, id := range []string{a.ID, b.ID} {
		received, err := f.store.Friends.ListPendingReceived(f.ctx, id)
		require.NoError(t, err)
		assert.Empty(t, received)
		sent, err := f.store.Friends.ListPendingSent(f.ctx, id)
		require.NoError(t, err)
		assert.Empty(t, sent)
	}
}

func TestSendRequestGuards(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	c := f.register(t, "cvita")

	_, err := f.friends.SendRequest(f.ctx, a.ID, a.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	_, err = f.friends.SendRequest(f.ctx, a.ID, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	_, err = f.friends.SendRequest(f.ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = f.friends.SendRequest(f.ctx, a.ID, b.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	f.befriend(t, a.ID, c.ID)
	_, err = f.friends.SendRequest(f.ctx, c.ID, a.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	require.NoError(t, f.accounts.Block(f.ctx, c.ID, b.ID))
	_, err = f.friends.SendRequest(f.ctx, b.ID, c.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	_, err = f.friends.SendRequest(f.ctx, c.ID, b.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestAcceptOnlyByReceiverAndOnlyOnce(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")

	sent, err := f.friends.SendRequest(f.ctx, a.ID, b.ID)
	require.NoError(t, err)

	_, err = f.friends.Accept(f.ctx, sent.RequestID, a.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	friendship, err := f.friends.Accept(f.ctx, sent.RequestID, b.ID)
	require.NoError(t, err)
	assert.True(t, friendship.Involves(a.ID))
	assert.True(t, friendship.Involves(b.ID))

	_, err = f.friends.Accept(f.ctx, sent.RequestID, b.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	check, err := f.friends.Status(f.ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusFriends, check.Status)
	assert.Equal(t, friendship.ID, check.FriendshipID)
}

func TestRejectAllowsANewRequest(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")

	sent, err := f.friends.SendRequest(f.ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, f.friends.Reject(f.ctx, sent.RequestID, b.ID))

	request, err := f.store.Friends.GetRequest(f.ctx, sent.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestStatusRejected, request.Status)

	err = f.friends.Reject(f.ctx, sent.RequestID, b.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	again, err := f.friends.SendRequest(f.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestStatusPending, again.Status)
}

func TestCancelRemovesTheRequest(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")

	sent, err := f.friends.SendRequest(f.ctx, a.ID, b.ID)
	require.NoError(t, err)

	err = f.friends.Cancel(f.ctx, sent.RequestID, b.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	require.NoError(t, f.friends.Cancel(f.ctx, sent.RequestID, a.ID))
	_, err = f.store.Friends.GetRequest(f.ctx, sent.RequestID)
	assert.Error(t, err)

	_, err = f.friends.SendRequest(f.ctx, a.ID, b.ID)
	assert.NoError(t, err)
}

func TestStatusPriority(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")

	check, err := f.friends.Status(f.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusNone, check.Status)

	sent, err := f.friends.SendRequest(f.ctx, a.ID, b.ID)
	require.NoError(t, err)

	check, err = f.friends.Status(f.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusRequestSent, check.Status)
	assert.Equal(t, sent.RequestID, check.RequestID)

	check, err = f.friends.Status(f.ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendStatusRequestReceived, check.Status)
}

func TestRemoveFriend(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")

	err := f.friends.Remove(f.ctx, a.ID, b.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	f.befriend(t, a.ID, b.ID)
	require.NoError(t, f.friends.Remove(f.ctx, b.ID, a.ID))

	friends, err := f.friends.ListFriends(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

// Two crossing requests written without seeing each other leave two pending
// records; accepting either one settles both.
func TestAcceptSettlesACrossedDuplicate(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")

	forward := &models.FriendRequest{ID: uuid.NewString(), SenderID: a.ID, ReceiverID: b.ID, Status: models.FriendRequestStatusPending}
	backward := &models.FriendRequest{ID: uuid.NewString(), SenderID: b.ID, ReceiverID: a.ID, Status: models.FriendRequestStatusPending}
	require.NoError(t, f.store.Friends.CreateRequest(f.ctx, forward))
	require.NoError(t, f.store.Friends.CreateRequest(f.ctx, backward))

	_, err := f.friends.Accept(f.ctx, forward.ID, b.ID)
	require.NoError(t, err)

	_, err = f.friends.Accept(f.ctx, backward.ID, a.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	friendships, err := f.store.Friends.ListFriendships(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, friendships, 1)

	pending, err := f.store.Friends.CountPendingReceived(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestRequestListsCarryCounterpart(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")

	_, err := f.friends.SendRequest(f.ctx, a.ID, b.ID)
	require.NoError(t, err)

	received, err := f.friends.ListReceived(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.NotNil(t, received[0].From)
	assert.Equal(t, "ana", received[0].From.Name)

	sent, err := f.friends.ListSent(f.ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.NotNil(t, sent[0].To)
	assert.Equal(t, "boris", sent[0].To.Name)
}
