package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sigmat-api/apperrors"
	"sigmat-api/models"
	"sigmat-api/repositories"
)

const searchLimit = 100

type RegisterInput struct {
	Name     string        `json:"name" binding:"required"`
	Email    string        `json:"email" binding:"required,email"`
	Password string        `json:"password" binding:"required,min=6"`
	City     string        `json:"city" binding:"required"`
	Gender   models.Gender `json:"gender" binding:"required,gender"`
	Age      int           `json:"age" binding:"required"`
	Bio      string        `json:"bio"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type SearchQuery struct {
	City   string        `json:"city" form:"city"`
	Gender models.Gender `json:"gender" form:"gender"`
	MinAge int           `json:"min_age" form:"min_age"`
	MaxAge int           `json:"max_age" form:"max_age"`
}

// AccountService owns user records, credentials, galleries and block lists.
type AccountService struct {
	users          repositories.UserRepository
	hasher         PasswordHasher
	tokens         *TokenService
	media          MediaStore
	startingPoints int
	logger         *zap.Logger
}

func NewAccountService(users repositories.UserRepository, hasher PasswordHasher, tokens *TokenService, media MediaStore, startingPoints int, logger *zap.Logger) *AccountService {
	return &AccountService{
		users:          users,
		hasher:         hasher,
		tokens:         tokens,
		media:          media,
		startingPoints: startingPoints,
		logger:         logger,
	}
}

func validateAge(age int) error {
	if age < models.MinAge || age > models.MaxAge {
		return apperrors.InvalidInput("Age must be between 18 and 60")
	}
	return nil
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validateAge(in.Age); err != nil {
		return nil, err
	}
	if !in.Gender.Valid() {
		return nil, apperrors.InvalidInput("Gender must be male or female")
	}

	email := models.NormalizeEmail(in.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("Email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Internal("failed to check email", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(in.Name),
		Email:              email,
		Password:           hashed,
		City:               strings.TrimSpace(in.City),
		Gender:             in.Gender,
		Age:                in.Age,
		Bio:                in.Bio,
		ProfilePhotoStatus: models.PhotoStatusNone,
		Points:             s.startingPoints,
		Status:             models.UserStatusActive,
		BlockedUsers:       []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, apperrors.Internal("failed to create user", err)
	}

	token, err := s.tokens.Issue(models.Human(user.ID))
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if !s.hasher.Verify(password, user.Password) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if user.Status == models.UserStatusBlocked {
		return nil, apperrors.Forbidden("Account blocked")
	}

	token, err := s.tokens.Issue(models.Human(user.ID))
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}
	if err := s.attachBlockList(ctx, user); err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AccountService) attachBlockList(ctx context.Context, user *models.User) error {
	blocked, err := s.users.BlockedIDs(ctx, user.ID)
	if err != nil {
		return apperrors.Internal("failed to load block list", err)
	}
	if blocked == nil {
		blocked = []string{}
	}
	user.BlockedUsers = blocked
	return nil
}

func (s *AccountService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachBlockList(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error) {
	if update.Age != nil {
		if err := validateAge(*update.Age); err != nil {
			return nil, err
		}
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, apperrors.InvalidInput("Name must not be empty")
	}
	if _, err := findUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, userID, update); err != nil {
		return nil, apperrors.Internal("failed to update profile", err)
	}
	return s.Me(ctx, userID)
}

// UploadProfilePhoto replaces the single profile photo slot; the new photo awaits moderation.
func (s *AccountService) UploadProfilePhoto(ctx context.Context, userID string, upload Upload) (string, error) {
	if err := upload.CheckSize(MaxPhotoBytes, "Photo"); err != nil {
		return "", err
	}
	if _, err := findUser(ctx, s.users, userID); err != nil {
		return "", err
	}

	url, err := s.media.Store(ctx, upload)
	if err != nil {
		return "", apperrors.Internal("failed to store photo", err)
	}
	if err := s.users.SetProfilePhoto(ctx, userID, url, models.PhotoStatusPending); err != nil {
		return "", apperrors.Internal("failed to save photo", err)
	}
	return url, nil
}

func (s *AccountService) AddGalleryPhoto(ctx context.Context, userID string, upload Upload) (*models.GalleryPhoto, error) {
	if err := upload.CheckSize(MaxPhotoBytes, "Photo"); err != nil {
		return nil, err
	}
	if _, err := findUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	count, err := s.users.CountGallery(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to count gallery", err)
	}
	if count >= models.MaxGallerySize {
		return nil, apperrors.InvalidInput("Gallery full (max 5 photos)")
	}

	url, err := s.media.Store(ctx, upload)
	if err != nil {
		return nil, apperrors.Internal("failed to store photo", err)
	}

	photo := &models.GalleryPhoto{
		ID:     uuid.NewString(),
		UserID: userID,
		URL:    url,
		Status: models.PhotoStatusPending,
	}
	if err := s.users.AddGalleryPhoto(ctx, photo); err != nil {
		return nil, apperrors.Internal("failed to save photo", err)
	}
	return photo, nil
}

func (s *AccountService) DeleteGalleryPhoto(ctx context.Context, userID, photoID string) error {
	err := s.users.RemoveGalleryPhoto(ctx, userID, photoID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Photo not found")
	}
	if err != nil {
		return apperrors.Internal("failed to delete photo", err)
	}
	return nil
}

// Search lists active users matching q, hiding the viewer and anyone on either side of a block.
func (s *AccountService) Search(ctx context.Context, viewerID string, q SearchQuery) ([]models.User, error) {
	if q.MinAge == 0 {
		q.MinAge = models.MinAge
	}
	if q.MaxAge == 0 {
		q.MaxAge = models.MaxAge
	}
	if q.Gender != "" && !q.Gender.Valid() {
		return nil, apperrors.InvalidInput("Gender must be male or female")
	}

	related, err := blockRelations(ctx, s.users, viewerID)
	if err != nil {
		return nil, err
	}
	exclude := []string{viewerID}
	for id := range related {
		exclude = append(exclude, id)
	}

	users, err := s.users.Search(ctx, models.UserFilter{
		City:    strings.TrimSpace(q.City),
		Gender:  q.Gender,
		MinAge:  q.MinAge,
		MaxAge:  q.MaxAge,
		Exclude: exclude,
		Limit:   searchLimit,
	})
	if err != nil {
		return nil, apperrors.Internal("failed to search users", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// GetUser returns a profile. Humans cannot see users on either side of a block; the admin can.
func (s *AccountService) GetUser(ctx context.Context, viewer models.Identity, id string) (*models.User, error) {
	user, err := findUser(ctx, s.users, id)
	if err != nil {
		return nil, err
	}

	if viewerID, ok := viewer.UserID(); ok && viewerID != id {
		blocked, err := blockedEitherWay(ctx, s.users, viewerID, id)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, apperrors.Forbidden("User not accessible")
		}
	}
	return user, nil
}

func (s *AccountService) Block(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.InvalidInput("Cannot block yourself")
	}
	if _, err := findUser(ctx, s.users, targetID); err != nil {
		return err
	}
	if err := s.users.Block(ctx, actorID, targetID); err != nil {
		return apperrors.Internal("failed to block user", err)
	}
	return nil
}

func (s *AccountService) Unblock(ctx context.Context, actorID, targetID string) error {
	if err := s.users.Unblock(ctx, actorID, targetID); err != nil {
		return apperrors.Internal("failed to unblock user", err)
	}
	return nil
}

func (s *AccountService) BlockedList(ctx context.Context, userID string) ([]models.UserSummary, error) {
	ids, err := s.users.BlockedIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load block list", err)
	}
	cards, err := summaries(ctx, s.users, ids...)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if card, ok := cards[id]; ok {
			out = append(out, card)
		}
	}
	return out, nil
}
