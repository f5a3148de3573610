package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sigmat-api/apperrors"
	"sigmat-api/metrics"
	"sigmat-api/models"
	"sigmat-api/repositories"
)

// ChatService delivers direct messages between friends and charges one point per
// message when the payment mode is paid.
//
// The balance check and the debit are separate store calls with no lock around
// them, so concurrent sends from a user holding one point can both pass the check
// and drive the balance below zero.
type ChatService struct {
	messages repositories.MessageRepository
	users    repositories.UserRepository
	friends  repositories.FriendRepository
	points   *PointsService
	settings SettingsSource
	media    MediaStore
	logger   *zap.Logger
}

func NewChatService(
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	friends repositories.FriendRepository,
	points *PointsService,
	settings SettingsSource,
	media MediaStore,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		messages: messages,
		users:    users,
		friends:  friends,
		points:   points,
		settings: settings,
		media:    media,
		logger:   logger,
	}
}

type outgoing struct {
	sender   *models.User
	settings models.Settings
}

// authorize runs the send checks in order: friendship, balance, receiver state, blocks.
func (s *ChatService) authorize(ctx context.Context, senderID, receiverID string) (*outgoing, error) {
	if _, err := s.friends.GetFriendship(ctx, senderID, receiverID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Forbidden("You can only message friends")
		}
		return nil, apperrors.Internal("failed to check friendship", err)
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	sender, err := findUser(ctx, s.users, senderID)
	if err != nil {
		return nil, err
	}
	if settings.ChargesForMessages() && sender.Points < 1 {
		return nil, apperrors.InsufficientResource("Insufficient points")
	}

	receiver, err := findUser(ctx, s.users, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver.Status == models.UserStatusBlocked {
		return nil, apperrors.Forbidden("Cannot send message to this user")
	}
	blocked, err := blockedEitherWay(ctx, s.users, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperrors.Forbidden("Cannot send message to this user")
	}

	return &outgoing{sender: sender, settings: settings}, nil
}

func (s *ChatService) deliver(ctx context.Context, out *outgoing, receiverID, content string, messageType models.MessageType) (*models.SendResult, error) {
	remaining := out.sender.Points
	if out.settings.ChargesForMessages() {
		balance, err := s.points.Debit(ctx, out.sender.ID, 1)
		if err != nil {
			return nil, err
		}
		remaining = balance
	}

	message := &models.Message{
		ID:         uuid.NewString(),
		SenderID:   out.sender.ID,
		ReceiverID: receiverID,
		Content:    content,
		Type:       messageType,
		Read:       false,
		DeletedBy:  models.StringSliceType{},
	}
	if err := s.messages.Create(ctx, message); err != nil {
		s.logger.Error("message not stored after debit",
			zap.String("sender_id", out.sender.ID), zap.Bool("charged", out.settings.ChargesForMessages()), zap.Error(err))
		return nil, apperrors.Internal("failed to send message", err)
	}
	metrics.MessageSent(string(messageType))

	return &models.SendResult{MessageID: message.ID, RemainingPoints: remaining, Content: content}, nil
}

// Send delivers a text (or media URL) message. Nobody is their own friend, so a
// send to oneself fails the friendship check like any other non-friend.
func (s *ChatService) Send(ctx context.Context, senderID, receiverID, content string, messageType models.MessageType) (*models.SendResult, error) {
	out, err := s.authorize(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	if messageType == "" {
		messageType = models.MessageTypeText
	}
	if !messageType.Valid() {
		return nil, apperrors.InvalidInput("message_type must be text, image or video")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.InvalidInput("Message content must not be empty")
	}
	return s.deliver(ctx, out, receiverID, content, messageType)
}

// SendMedia stores an image (up to 5MB) or video (up to 10MB) and sends its URL as the message.
func (s *ChatService) SendMedia(ctx context.Context, senderID, receiverID string, messageType models.MessageType, upload Upload) (*models.SendResult, error) {
	out, err := s.authorize(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	switch messageType {
	case models.MessageTypeImage:
		if err := upload.CheckSize(MaxChatImageBytes, "Image"); err != nil {
			return nil, err
		}
	case models.MessageTypeVideo:
		if err := upload.CheckSize(MaxChatVideoBytes, "Video"); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.InvalidInput("message_type must be image or video")
	}

	url, err := s.media.Store(ctx, upload)
	if err != nil {
		return nil, apperrors.Internal("failed to store media", err)
	}
	return s.deliver(ctx, out, receiverID, url, messageType)
}

// Delete hides a message from its sender. The receiver keeps seeing it.
func (s *ChatService) Delete(ctx context.Context, messageID, actorID string) error {
	message, err := s.messages.GetByID(ctx, messageID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Message not found")
	}
	if err != nil {
		return apperrors.Internal("failed to load message", err)
	}
	if message.SenderID != actorID {
		return apperrors.Forbidden("You can only delete your own messages")
	}
	if err := s.messages.MarkDeletedBy(ctx, messageID, actorID); err != nil {
		return apperrors.Internal("failed to delete message", err)
	}
	return nil
}

// DeleteConversation erases every message between the two users for both of them.
func (s *ChatService) DeleteConversation(ctx context.Context, userID, partnerID string) (int64, error) {
	n, err := s.messages.DeleteBetween(ctx, userID, partnerID)
	if err != nil {
		return 0, apperrors.Internal("failed to delete conversation", err)
	}
	return n, nil
}

func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	messages, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load messages", err)
	}
	related, err := blockRelations(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	// messages arrive newest first, so the first one seen per partner is the latest
	latest := make(map[string]models.Message)
	var partners []string
	for _, m := range messages {
		partner := m.Partner(userID)
		if related[partner] {
			continue
		}
		if _, seen := latest[partner]; !seen {
			latest[partner] = m
			partners = append(partners, partner)
		}
	}

	cards, err := summaries(ctx, s.users, partners...)
	if err != nil {
		return nil, err
	}

	conversations := make([]models.Conversation, 0, len(partners))
	for _, partner := range partners {
		card, ok := cards[partner]
		if !ok {
			continue
		}
		unread, err := s.messages.CountUnread(ctx, userID, partner)
		if err != nil {
			return nil, apperrors.Internal("failed to count unread messages", err)
		}
		last := latest[partner]
		conversations = append(conversations, models.Conversation{
			Partner:         card,
			LastMessage:     last.Preview(),
			LastMessageType: last.Type,
			LastMessageTime: last.CreatedAt,
			UnreadCount:     unread,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessageTime.After(conversations[j].LastMessageTime)
	})
	return conversations, nil
}

// FetchThread marks the partner's messages as read, then returns the visible history oldest first.
func (s *ChatService) FetchThread(ctx context.Context, userID, partnerID string) ([]models.ThreadMessage, error) {
	if _, err := s.messages.MarkThreadRead(ctx, userID, partnerID); err != nil {
		return nil, apperrors.Internal("failed to mark messages read", err)
	}

	messages, err := s.messages.ListThread(ctx, userID, partnerID)
	if err != nil {
		return nil, apperrors.Internal("failed to load messages", err)
	}
	cards, err := summaries(ctx, s.users, userID, partnerID)
	if err != nil {
		return nil, err
	}

	thread := make([]models.ThreadMessage, 0, len(messages))
	for _, m := range messages {
		thread = append(thread, models.ThreadMessage{
			Message:      m,
			SenderName:   cards[m.SenderID].Name,
			ReceiverName: cards[m.ReceiverID].Name,
		})
	}
	return thread, nil
}

// DeleteAllForUser removes every message the user sent or received.
func (s *ChatService) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	n, err := s.messages.DeleteForUser(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal("failed to delete messages", err)
	}
	return n, nil
}
