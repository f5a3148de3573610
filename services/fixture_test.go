package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sigmat-api/models"
	"sigmat-api/repositories"
)

type fixture struct {
	ctx      context.Context
	store    *repositories.Store
	tokens   *TokenService
	settings *SettingsService
	accounts *AccountService
	friends  *FriendService
	points   *PointsService
	chat     *ChatService
	stories  *StoryService
	notes    *NotificationService
	admin    *AdminService
	mailer   *recordingMailer
}

var emailSeq int64

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, repositories.NewMemoryStore())
}

func newFixtureWithStore(t *testing.T, store *repositories.Store) *fixture {
	t.Helper()

	logger := zap.NewNop()
	tokens := NewTokenService("test-secret", 7*24*time.Hour)
	settings := NewSettingsService(store.Settings, nil, logger)
	media := DataURLStore{}
	points := NewPointsService(store.Payments, store.Users, settings, logger)
	mailer := &recordingMailer{}

	return &fixture{
		ctx:      context.Background(),
		store:    store,
		tokens:   tokens,
		settings: settings,
		accounts: NewAccountService(store.Users, NewBcryptHasher(bcrypt.MinCost), tokens, media, 10, logger),
		friends:  NewFriendService(store.Friends, store.Users, logger),
		points:   points,
		chat:     NewChatService(store.Messages, store.Users, store.Friends, points, settings, media, logger),
		stories:  NewStoryService(store.Stories, store.Users, store.Friends, media, logger),
		notes:    NewNotificationService(store.Notifications, store.Friends, logger),
		admin: NewAdminService(store, settings, tokens, media, mailer,
			AdminCredentials{Username: "admin", Password: "admin2025"}, logger),
		mailer: mailer,
	}
}

func (f *fixture) register(t *testing.T, name string) *models.User {
	t.Helper()
	n := atomic.AddInt64(&emailSeq, 1)
	res, err := f.accounts.Register(f.ctx, RegisterInput{
		Name:     name,
		Email:    fmt.Sprintf("%s.%d@example.com", name, n),
		Password: "secret123",
		City:     "Zagreb",
		Gender:   models.GenderMale,
		Age:      25,
	})
	require.NoError(t, err)
	return res.User
}

func (f *fixture) befriend(t *testing.T, a, b string) {
	t.Helper()
	sent, err := f.friends.SendRequest(f.ctx, a, b)
	require.NoError(t, err)
	_, err = f.friends.Accept(f.ctx, sent.RequestID, b)
	require.NoError(t, err)
}

func (f *fixture) setPaymentMode(t *testing.T, mode models.PaymentMode) {
	t.Helper()
	_, err := f.settings.Update(f.ctx, models.SettingsUpdate{PaymentMode: &mode})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, userID string) int {
	t.Helper()
	user, err := f.store.Users.GetByID(f.ctx, userID)
	require.NoError(t, err)
	return user.Points
}

func imageUpload(size int) Upload {
	return Upload{Data: make([]byte, size), ContentType: "image/png", Filename: "photo.png"}
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Enabled() bool { return true }

func (m *recordingMailer) SendAdminMessage(email, _, _, content string) error {
	m.sent = append(m.sent, email+": "+content)
	return nil
}

func settingsUpdatePaypal(email string) models.SettingsUpdate {
	return models.SettingsUpdate{PaypalEmail: &email}
}
