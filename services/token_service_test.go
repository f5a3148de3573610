package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmat-api/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)

	token, err := tokens.Issue(models.Human("user-1"))
	require.NoError(t, err)
	identity, err := tokens.Parse(token)
	require.NoError(t, err)
	id, ok := identity.UserID()
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)

	token, err = tokens.Issue(models.Privileged())
	require.NoError(t, err)
	identity, err = tokens.Parse(token)
	require.NoError(t, err)
	assert.True(t, identity.IsPrivileged())
	_, ok = identity.UserID()
	assert.False(t, ok)
}

func TestTokenRejections(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)

	_, err := tokens.Issue(models.Identity{})
	assert.Error(t, err)

	token, err := tokens.Issue(models.Human("user-1"))
	require.NoError(t, err)

	_, err = NewTokenService("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue(models.Human("user-1"))
	require.NoError(t, err)
	_, err = tokens.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
