package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedPair(t *testing.T) {
	a, b := OrderedPair("b", "a")
	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)

	f := Friendship{User1ID: "a", User2ID: "b"}
	assert.Equal(t, "b", f.Other("a"))
	assert.Equal(t, "a", f.Other("b"))
	assert.False(t, f.Involves("c"))
}

func TestIdentity(t *testing.T) {
	human := Human("u1")
	id, ok := human.UserID()
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
	assert.False(t, human.IsPrivileged())

	admin := Privileged()
	_, ok = admin.UserID()
	assert.False(t, ok)
	assert.True(t, admin.IsPrivileged())

	assert.Equal(t, "anonymous", Identity{}.String())
}

func TestPointsPackages(t *testing.T) {
	pkg, ok := LookupPackage(250)
	require.True(t, ok)
	assert.Equal(t, 62.5, pkg.Price)

	_, ok = LookupPackage(75)
	assert.False(t, ok)
	_, ok = LookupPackage(550)
	assert.False(t, ok)
}

func TestStringSliceType(t *testing.T) {
	var likes StringSliceType
	v, err := likes.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	likes = likes.With("a").With("b").With("a")
	assert.Equal(t, StringSliceType{"a", "b"}, likes)
	assert.Equal(t, StringSliceType{"b"}, likes.Without("a"))

	var scanned StringSliceType
	require.NoError(t, scanned.Scan([]byte(`["x","y"]`)))
	assert.True(t, scanned.Contains("y"))

	out, err := json.Marshal(struct {
		Likes StringSliceType `json:"likes"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"likes":[]}`, string(out))
}

func TestMessagePreviewAndVisibility(t *testing.T) {
	text := Message{Type: MessageTypeText, Content: "hi"}
	image := Message{Type: MessageTypeImage, Content: "data:image/png;base64,AA=="}
	assert.Equal(t, "hi", text.Preview())
	assert.Equal(t, "[image]", image.Preview())

	story := Story{AuthorID: "a", Visibility: VisibilityFriends}
	assert.True(t, story.VisibleTo("a", false))
	assert.True(t, story.VisibleTo("b", true))
	assert.False(t, story.VisibleTo("b", false))
}

func TestDefaultSettingsCarryBranding(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, DefaultLogoURL, s.LogoURL)
	assert.Equal(t, DefaultLandingHeroURL, s.LandingHeroURL)
	assert.Equal(t, DefaultLoginBgURL, s.LoginBackgroundURL)
	assert.Equal(t, DefaultRegisterBgURL, s.RegisterBgURL)
	assert.Empty(t, s.BackgroundURL)
	assert.Equal(t, PaymentModePaid, s.PaymentMode)
}

func TestSettingsUpdateApply(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.ChargesForMessages())

	free := PaymentModeFree
	SettingsUpdate{PaymentMode: &free}.Apply(&s)
	assert.False(t, s.ChargesForMessages())
	assert.Equal(t, DefaultPaypalEmail, s.PaypalEmail)
}
