package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sigmat-api/apperrors"
	"sigmat-api/models"
	"sigmat-api/repositories"
)

const adminMessageTitle = "Poruka od Admina"

// AdminCredentials are the configured login for the privileged identity.
type AdminCredentials struct {
	Username string
	Password string
}

type UserAdminUpdate struct {
	Status *models.UserStatus `json:"status"`
	Points *int               `json:"points"`
}

type BroadcastInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	VideoURL string `json:"video_url"`
	Type     string `json:"type"`
}

type DirectMessageInput struct {
	UserID   string `json:"user_id" binding:"required"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// AdminService applies privileged operations across every store, skipping peer-level checks.
type AdminService struct {
	store    *repositories.Store
	settings *SettingsService
	tokens   *TokenService
	media    MediaStore
	mailer   Mailer
	creds    AdminCredentials
	logger   *zap.Logger
}

func NewAdminService(store *repositories.Store, settings *SettingsService, tokens *TokenService, media MediaStore, mailer Mailer, creds AdminCredentials, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:    store,
		settings: settings,
		tokens:   tokens,
		media:    media,
		mailer:   mailer,
		creds:    creds,
		logger:   logger,
	}
}

func (s *AdminService) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	if !userOK || !passOK {
		return "", apperrors.Unauthorized("Invalid admin credentials")
	}

	token, err := s.tokens.Issue(models.Privileged())
	if err != nil {
		return "", apperrors.Internal("failed to issue token", err)
	}
	return token, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load users", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *AdminService) UserProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := findUser(ctx, s.store.Users, userID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.store.Users.BlockedIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load block list", err)
	}
	user.BlockedUsers = blocked
	return user, nil
}

// UpdateUser force-sets status and/or points. Points bypass the ledger.
func (s *AdminService) UpdateUser(ctx context.Context, userID string, update UserAdminUpdate) (*models.User, error) {
	if update.Status != nil && !update.Status.Valid() {
		return nil, apperrors.InvalidInput("status must be active, paused or blocked")
	}
	if _, err := findUser(ctx, s.store.Users, userID); err != nil {
		return nil, err
	}

	if update.Status != nil {
		if err := s.store.Users.SetStatus(ctx, userID, *update.Status); err != nil {
			return nil, apperrors.Internal("failed to update status", err)
		}
	}
	if update.Points != nil {
		if err := s.store.Users.SetPoints(ctx, userID, *update.Points); err != nil {
			return nil, apperrors.Internal("failed to update points", err)
		}
	}

	s.logger.Info("admin updated user", zap.String("user_id", userID))
	return findUser(ctx, s.store.Users, userID)
}

func (s *AdminService) AddPoints(ctx context.Context, userID string, points int) (int, error) {
	if points == 0 {
		return 0, apperrors.InvalidInput("points must not be zero")
	}
	balance, err := s.store.Users.AdjustPoints(ctx, userID, points)
	if errors.Is(err, repositories.ErrNotFound) {
		return 0, apperrors.NotFound("User not found")
	}
	if err != nil {
		return 0, apperrors.Internal("failed to add points", err)
	}
	return balance, nil
}

// DeleteUser removes the user with their messages, friendships, requests and stories.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := findUser(ctx, s.store.Users, userID); err != nil {
		return err
	}

	deleted, err := s.store.Messages.DeleteForUser(ctx, userID)
	if err != nil {
		return apperrors.Internal("failed to delete messages", err)
	}
	if err := s.store.Friends.DeleteAllForUser(ctx, userID); err != nil {
		return apperrors.Internal("failed to delete friendships", err)
	}
	if err := s.store.Stories.DeleteByAuthor(ctx, userID); err != nil {
		return apperrors.Internal("failed to delete stories", err)
	}
	if err := s.store.Users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("User not found")
		}
		return apperrors.Internal("failed to delete user", err)
	}

	s.logger.Info("admin deleted user", zap.String("user_id", userID), zap.Int64("messages", deleted))
	return nil
}

func (s *AdminService) Settings(ctx context.Context) (models.Settings, error) {
	return s.settings.Load(ctx)
}

func (s *AdminService) UpdateSettings(ctx context.Context, update models.SettingsUpdate) (models.Settings, error) {
	settings, err := s.settings.Update(ctx, update)
	if err != nil {
		return models.Settings{}, err
	}
	s.logger.Info("admin updated settings", zap.String("payment_mode", string(settings.PaymentMode)))
	return settings, nil
}

func (s *AdminService) CreateBroadcast(ctx context.Context, in BroadcastInput) (*models.Broadcast, error) {
	if strings.TrimSpace(in.Content) == "" && in.ImageURL == "" && in.VideoURL == "" {
		return nil, apperrors.InvalidInput("Broadcast needs content, an image or a video")
	}
	if in.Title == "" {
		in.Title = models.DefaultBroadcastTitle
	}
	if in.Type == "" {
		in.Type = models.DefaultBroadcastType
	}

	broadcast := &models.Broadcast{
		ID:       uuid.NewString(),
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		VideoURL: in.VideoURL,
		Type:     in.Type,
		Active:   true,
	}
	if err := s.store.Notifications.CreateBroadcast(ctx, broadcast); err != nil {
		return nil, apperrors.Internal("failed to create broadcast", err)
	}
	return broadcast, nil
}

func (s *AdminService) ListBroadcasts(ctx context.Context) ([]models.Broadcast, error) {
	broadcasts, err := s.store.Notifications.ListBroadcasts(ctx, false, 0)
	if err != nil {
		return nil, apperrors.Internal("failed to load broadcasts", err)
	}
	if broadcasts == nil {
		broadcasts = []models.Broadcast{}
	}
	return broadcasts, nil
}

func (s *AdminService) DeleteBroadcast(ctx context.Context, id string) error {
	err := s.store.Notifications.DeleteBroadcast(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Broadcast not found")
	}
	if err != nil {
		return apperrors.Internal("failed to delete broadcast", err)
	}
	return nil
}

// Upload stores an arbitrary admin asset (logos, backgrounds, broadcast media).
func (s *AdminService) Upload(ctx context.Context, upload Upload) (string, error) {
	if err := upload.CheckSize(MaxStoryMediaBytes, "File"); err != nil {
		return "", err
	}
	url, err := s.media.Store(ctx, upload)
	if err != nil {
		return "", apperrors.Internal("failed to store file", err)
	}
	return url, nil
}

func (s *AdminService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.store.Payments.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load payments", err)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

// SendUserMessage leaves a notification for one user and, when mail is configured, e-mails it.
func (s *AdminService) SendUserMessage(ctx context.Context, in DirectMessageInput) (*models.Notification, error) {
	if strings.TrimSpace(in.Content) == "" && in.ImageURL == "" {
		return nil, apperrors.InvalidInput("Message needs content or an image")
	}
	user, err := findUser(ctx, s.store.Users, in.UserID)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Title:    adminMessageTitle,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		Type:     models.NotificationTypeAdminMessage,
		IsRead:   false,
	}
	if err := s.store.Notifications.Create(ctx, notification); err != nil {
		return nil, apperrors.Internal("failed to send notification", err)
	}

	if s.mailer != nil && s.mailer.Enabled() && in.Content != "" {
		if err := s.mailer.SendAdminMessage(user.Email, user.Name, adminMessageTitle, in.Content); err != nil {
			s.logger.Warn("admin message e-mail failed", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return notification, nil
}

// PendingImages lists users with a gallery photo or profile photo awaiting moderation.
func (s *AdminService) PendingImages(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users.ListWithPendingPhotos(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load pending images", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *AdminService) ApproveImage(ctx context.Context, userID, photoID string) error {
	if _, err := findUser(ctx, s.store.Users, userID); err != nil {
		return err
	}
	err := s.store.Users.SetGalleryPhotoStatus(ctx, userID, photoID, models.PhotoStatusApproved)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Photo not found")
	}
	if err != nil {
		return apperrors.Internal("failed to approve photo", err)
	}
	return nil
}

// RejectImage removes the photo from the gallery.
func (s *AdminService) RejectImage(ctx context.Context, userID, photoID string) error {
	err := s.store.Users.RemoveGalleryPhoto(ctx, userID, photoID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Photo not found")
	}
	if err != nil {
		return apperrors.Internal("failed to reject photo", err)
	}
	return nil
}

func (s *AdminService) ApproveProfilePhoto(ctx context.Context, userID string) error {
	user, err := findUser(ctx, s.store.Users, userID)
	if err != nil {
		return err
	}
	if user.ProfilePhoto == "" {
		return apperrors.NotFound("No profile photo")
	}
	if err := s.store.Users.SetProfilePhoto(ctx, userID, user.ProfilePhoto, models.PhotoStatusApproved); err != nil {
		return apperrors.Internal("failed to approve profile photo", err)
	}
	return nil
}

// RejectProfilePhoto clears the profile photo slot.
func (s *AdminService) RejectProfilePhoto(ctx context.Context, userID string) error {
	if _, err := findUser(ctx, s.store.Users, userID); err != nil {
		return err
	}
	if err := s.store.Users.SetProfilePhoto(ctx, userID, "", models.PhotoStatusNone); err != nil {
		return apperrors.Internal("failed to reject profile photo", err)
	}
	return nil
}
