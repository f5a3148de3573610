package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigmat-api/apperrors"
	"sigmat-api/models"
)

func validRegistration(email string) RegisterInput {
	return RegisterInput{
		Name:     "Ana",
		Email:    email,
		Password: "secret123",
		City:     "Split",
		Gender:   models.GenderFemale,
		Age:      30,
	}
}

func TestRegisterGrantsStartingPoints(t *testing.T) {
	f := newFixture(t)

	res, err := f.accounts.Register(f.ctx, validRegistration("Ana@Example.com "))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.Equal(t, 10, res.User.Points)
	assert.Equal(t, models.UserStatusActive, res.User.Status)
	assert.Equal(t, models.PhotoStatusNone, res.User.ProfilePhotoStatus)
	assert.NotEqual(t, "secret123", res.User.Password)

	identity, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)
	id, _ := identity.UserID()
	assert.Equal(t, res.User.ID, id)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	young := validRegistration("young@example.com")
	young.Age = 17
	_, err := f.accounts.Register(f.ctx, young)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	old := validRegistration("old@example.com")
	old.Age = 61
	_, err = f.accounts.Register(f.ctx, old)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	other := validRegistration("other@example.com")
	other.Gender = "other"
	_, err = f.accounts.Register(f.ctx, other)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	_, err = f.accounts.Register(f.ctx, validRegistration("dup@example.com"))
	require.NoError(t, err)
	_, err = f.accounts.Register(f.ctx, validRegistration("DUP@example.com"))
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	res, err := f.accounts.Register(f.ctx, validRegistration("login@example.com"))
	require.NoError(t, err)

	_, err = f.accounts.Login(f.ctx, "login@example.com", "wrong")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
	_, err = f.accounts.Login(f.ctx, "nobody@example.com", "secret123")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	auth, err := f.accounts.Login(f.ctx, "login@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, auth.User.ID)
	assert.NotNil(t, auth.User.BlockedUsers)

	require.NoError(t, f.store.Users.SetStatus(f.ctx, res.User.ID, models.UserStatusBlocked))
	_, err = f.accounts.Login(f.ctx, "login@example.com", "secret123")
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")

	city, age := "Rijeka", 33
	user, err := f.accounts.UpdateProfile(f.ctx, a.ID, models.ProfileUpdate{City: &city, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "Rijeka", user.City)
	assert.Equal(t, 33, user.Age)
	assert.Equal(t, "ana", user.Name)

	bad := 70
	_, err = f.accounts.UpdateProfile(f.ctx, a.ID, models.ProfileUpdate{Age: &bad})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestSearchHidesSelfBlockedAndInactive(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	c := f.register(t, "cvita")
	d := f.register(t, "dario")

	require.NoError(t, f.accounts.Block(f.ctx, c.ID, a.ID))
	require.NoError(t, f.store.Users.SetStatus(f.ctx, d.ID, models.UserStatusPaused))

	users, err := f.accounts.Search(f.ctx, a.ID, SearchQuery{City: "zag"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, b.ID, users[0].ID)

	users, err = f.accounts.Search(f.ctx, a.ID, SearchQuery{MinAge: 30})
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = f.accounts.Search(f.ctx, a.ID, SearchQuery{Gender: "x"})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestGetUserRespectsBlocksExceptForAdmin(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")
	require.NoError(t, f.accounts.Block(f.ctx, b.ID, a.ID))

	_, err := f.accounts.GetUser(f.ctx, models.Human(a.ID), b.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	user, err := f.accounts.GetUser(f.ctx, models.Privileged(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, user.ID)

	_, err = f.accounts.GetUser(f.ctx, models.Human(a.ID), "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestBlockList(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")
	b := f.register(t, "boris")

	assert.True(t, apperrors.Is(f.accounts.Block(f.ctx, a.ID, a.ID), apperrors.CodeInvalidInput))
	require.NoError(t, f.accounts.Block(f.ctx, a.ID, b.ID))
	require.NoError(t, f.accounts.Block(f.ctx, a.ID, b.ID))

	blocked, err := f.accounts.BlockedList(f.ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, b.ID, blocked[0].ID)

	me, err := f.accounts.Me(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, me.BlockedUsers)

	require.NoError(t, f.accounts.Unblock(f.ctx, a.ID, b.ID))
	blocked, err = f.accounts.BlockedList(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, blocked)
}

func TestPhotos(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "ana")

	_, err := f.accounts.UploadProfilePhoto(f.ctx, a.ID, imageUpload(MaxPhotoBytes+1))
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	url, err := f.accounts.UploadProfilePhoto(f.ctx, a.ID, imageUpload(8))
	require.NoError(t, err)
	me, err := f.accounts.Me(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, url, me.ProfilePhoto)
	assert.Equal(t, models.PhotoStatusPending, me.ProfilePhotoStatus)

	var first *models.GalleryPhoto
	for i := 0; i < models.MaxGallerySize; i++ {
		photo, err := f.accounts.AddGalleryPhoto(f.ctx, a.ID, imageUpload(8))
		require.NoError(t, err)
		assert.Equal(t, models.PhotoStatusPending, photo.Status)
		if first == nil {
			first = photo
		}
	}
	_, err = f.accounts.AddGalleryPhoto(f.ctx, a.ID, imageUpload(8))
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	require.NoError(t, f.accounts.DeleteGalleryPhoto(f.ctx, a.ID, first.ID))
	_, err = f.accounts.AddGalleryPhoto(f.ctx, a.ID, imageUpload(8))
	require.NoError(t, err)

	err = f.accounts.DeleteGalleryPhoto(f.ctx, a.ID, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
