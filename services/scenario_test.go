package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmat-api/apperrors"
	"sigmat-api/models"
)

// A new user spends the starting balance on messages, runs dry, buys a package and continues.
func TestStartingBalanceBuysTenMessages(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	f.befriend(t, a.ID, b.ID)

	for i := 0; i < 10; i++ {
		res, err := f.chat.Send(f.ctx, a.ID, b.ID, "hello", models.MessageTypeText)
		require.NoError(t, err)
		assert.Equal(t, 9-i, res.RemainingPoints)
	}

	_, err := f.chat.Send(f.ctx, a.ID, b.ID, "hello", models.MessageTypeText)
	assert.True(t, apperrors.Is(err, apperrors.CodeInsufficientResource))
	assert.Equal(t, 0, f.balance(t, a.ID))

	purchase, err := f.points.Purchase(f.ctx, a.ID, 100)
	require.NoError(t, err)
	_, err = f.points.Confirm(f.ctx, purchase.PaymentID, a.ID)
	require.NoError(t, err)

	res, err := f.chat.Send(f.ctx, a.ID, b.ID, "back", models.MessageTypeText)
	require.NoError(t, err)
	assert.Equal(t, 99, res.RemainingPoints)

	conversations, err := f.chat.ListConversations(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, int64(11), conversations[0].UnreadCount)
	assert.Equal(t, "back", conversations[0].LastMessage)
}
