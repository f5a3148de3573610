package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("user not found")))
	assert.Equal(t, CodeInsufficientResource, CodeOf(InsufficientResource("insufficient points")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))

	wrapped := fmt.Errorf("send: %w", Forbidden("not friends"))
	assert.Equal(t, CodeForbidden, CodeOf(wrapped))
	assert.True(t, Is(wrapped, CodeForbidden))
	assert.False(t, Is(nil, CodeForbidden))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load user", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load user: connection refused", err.Error())
	assert.Equal(t, "failed to load user", MessageOf(err))
	assert.Equal(t, "Internal server error", MessageOf(cause))
}
