package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmat-api/apperrors"
	"sigmat-api/models"
)

func postStory(t *testing.T, f *fixture, authorID, content string, visibility models.StoryVisibility) *models.Story {
	t.Helper()
	story, err := f.stories.Post(f.ctx, authorID, models.NewStory{Content: content, Visibility: visibility, AllowComments: true})
	require.NoError(t, err)
	return story
}

func storyIDs(views []models.StoryView) []string {
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestPostValidation(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")

	blank, err := f.stories.Post(f.ctx, a.ID, models.NewStory{Visibility: models.VisibilityPublic})
	require.NoError(t, err)
	assert.Empty(t, blank.Content)
	assert.Equal(t, a.ID, blank.AuthorID)

	_, err = f.stories.Post(f.ctx, a.ID, models.NewStory{Content: "x", Visibility: "secret"})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	story, err := f.stories.Post(f.ctx, a.ID, models.NewStory{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, story.Visibility)
	assert.Equal(t, models.MessageTypeText, story.MediaType)
	assert.Empty(t, story.Likes)
}

func TestUploadSetsMediaType(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")

	story, err := f.stories.Upload(f.ctx, a.ID, Upload{Data: []byte("vid"), ContentType: "video/mp4"}, models.NewStory{})
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeVideo, story.MediaType)
	assert.Equal(t, "data:video/mp4;base64,dmlk", story.MediaURL)

	_, err = f.stories.Upload(f.ctx, a.ID, Upload{Data: []byte("%PDF"), ContentType: "application/pdf"}, models.NewStory{})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestFeedVisibility(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	c := f.register(t, "cvita")
	f.befriend(t, a.ID, b.ID)

	public := postStory(t, f, c.ID, "public", models.VisibilityPublic)
	friendsOnly := postStory(t, f, b.ID, "friends", models.VisibilityFriends)
	strangerOnly := postStory(t, f, c.ID, "hidden", models.VisibilityFriends)
	own := postStory(t, f, a.ID, "mine", models.VisibilityFriends)

	feed, err := f.stories.Feed(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{own.ID, friendsOnly.ID, public.ID}, storyIDs(feed))
	assert.NotContains(t, storyIDs(feed), strangerOnly.ID)
	assert.Equal(t, "boris", feed[1].Author.Name)

	require.NoError(t, f.accounts.Block(f.ctx, c.ID, a.ID))
	feed, err = f.stories.Feed(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{own.ID, friendsOnly.ID}, storyIDs(feed))
}

func TestFeedLimitSkipsBlockedAuthors(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	c := f.register(t, "cvita")
	f.befriend(t, a.ID, b.ID)

	older := postStory(t, f, b.ID, "older", models.VisibilityPublic)
	for i := 0; i < feedLimit; i++ {
		postStory(t, f, c.ID, "flood", models.VisibilityPublic)
	}
	require.NoError(t, f.accounts.Block(f.ctx, a.ID, c.ID))

	feed, err := f.stories.Feed(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{older.ID}, storyIDs(feed))
}

func TestByAuthorHidesFriendsOnlyFromStrangers(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	c := f.register(t, "cvita")
	f.befriend(t, a.ID, b.ID)

	postStory(t, f, a.ID, "public", models.VisibilityPublic)
	postStory(t, f, a.ID, "friends", models.VisibilityFriends)

	forFriend, err := f.stories.ByAuthor(f.ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, forFriend, 2)

	forStranger, err := f.stories.ByAuthor(f.ctx, c.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, forStranger, 1)

	mine, err := f.stories.Mine(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, f.accounts.Block(f.ctx, a.ID, c.ID))
	_, err = f.stories.ByAuthor(f.ctx, c.ID, a.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestLikeToggles(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	story := postStory(t, f, a.ID, "hello", models.VisibilityPublic)

	liked, count, err := f.stories.Like(f.ctx, story.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	feed, err := f.stories.Feed(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.True(t, feed[0].LikedByMe)
	assert.Equal(t, 1, feed[0].LikesCount)

	liked, count, err = f.stories.Like(f.ctx, story.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)

	_, _, err = f.stories.Like(f.ctx, "missing", b.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestShareCounts(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	story := postStory(t, f, a.ID, "hello", models.VisibilityPublic)

	shares, err := f.stories.Share(f.ctx, story.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, shares)
	shares, err = f.stories.Share(f.ctx, story.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, shares)

	_, err = f.stories.Share(f.ctx, "missing", a.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	c := f.register(t, "cvita")

	open := postStory(t, f, a.ID, "open", models.VisibilityPublic)
	closed, err := f.stories.Post(f.ctx, a.ID, models.NewStory{Content: "closed", AllowComments: false})
	require.NoError(t, err)

	_, err = f.stories.Comment(f.ctx, closed.ID, b.ID, "nice")
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	_, err = f.stories.Comment(f.ctx, open.ID, b.ID, "  ")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	byB, err := f.stories.Comment(f.ctx, open.ID, b.ID, "nice")
	require.NoError(t, err)
	assert.Equal(t, "boris", byB.Author.Name)
	byC, err := f.stories.Comment(f.ctx, open.ID, c.ID, "great")
	require.NoError(t, err)

	comments, err := f.stories.Comments(f.ctx, open.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	err = f.stories.DeleteComment(f.ctx, byB.ID, c.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	require.NoError(t, f.stories.DeleteComment(f.ctx, byB.ID, b.ID))
	require.NoError(t, f.stories.DeleteComment(f.ctx, byC.ID, a.ID))

	err = f.stories.DeleteComment(f.ctx, byC.ID, a.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestDeleteStoryCascades(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	story := postStory(t, f, a.ID, "hello", models.VisibilityPublic)
	comment, err := f.stories.Comment(f.ctx, story.ID, b.ID, "hi")
	require.NoError(t, err)

	err = f.stories.DeleteStory(f.ctx, story.ID, b.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	require.NoError(t, f.stories.DeleteStory(f.ctx, story.ID, a.ID))

	_, err = f.stories.Comments(f.ctx, story.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	_, err = f.store.Stories.GetComment(f.ctx, comment.ID)
	assert.Error(t, err)
}
