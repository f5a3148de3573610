package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sigmat-api/apperrors"
	"sigmat-api/metrics"
	"sigmat-api/models"
	"sigmat-api/repositories"
)

// FriendService runs the friend-request state machine and owns friendship edges.
// Reads and writes are separate store calls: two users sending each other a
// request at the same moment can both miss the reverse request and leave two
// pending requests. The next send, or an accept of either one, resolves the pair.
type FriendService struct {
	friends repositories.FriendRepository
	users   repositories.UserRepository
	logger  *zap.Logger
}

func NewFriendService(friends repositories.FriendRepository, users repositories.UserRepository, logger *zap.Logger) *FriendService {
	return &FriendService{friends: friends, users: users, logger: logger}
}

func (s *FriendService) areFriends(ctx context.Context, a, b string) (*models.Friendship, error) {
	friendship, err := s.friends.GetFriendship(ctx, a, b)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to check friendship", err)
	}
	return friendship, nil
}

func (s *FriendService) pendingRequest(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error) {
	request, err := s.friends.FindPendingRequest(ctx, senderID, receiverID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to check friend requests", err)
	}
	return request, nil
}

// connect creates the edge for a pair, reusing an existing one.
func (s *FriendService) connect(ctx context.Context, a, b string) (*models.Friendship, error) {
	friendship := &models.Friendship{ID: uuid.NewString(), User1ID: a, User2ID: b}
	err := s.friends.CreateFriendship(ctx, friendship)
	if errors.Is(err, repositories.ErrDuplicate) {
		existing, getErr := s.friends.GetFriendship(ctx, a, b)
		if getErr != nil {
			return nil, apperrors.Internal("failed to load friendship", getErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to create friendship", err)
	}
	return friendship, nil
}

// SendRequest asks receiverID for friendship. A pending request in the other
// direction is taken as mutual consent: it is accepted and the edge created.
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID string) (*models.SendRequestResult, error) {
	if senderID == receiverID {
		return nil, apperrors.InvalidInput("Cannot send friend request to yourself")
	}
	if _, err := findUser(ctx, s.users, receiverID); err != nil {
		return nil, err
	}

	blocked, err := blockedEitherWay(ctx, s.users, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperrors.Forbidden("Cannot send friend request to this user")
	}

	friendship, err := s.areFriends(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if friendship != nil {
		return nil, apperrors.Conflict("Already friends")
	}

	existing, err := s.pendingRequest(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("Friend request already sent")
	}

	reverse, err := s.pendingRequest(ctx, receiverID, senderID)
	if err != nil {
		return nil, err
	}
	if reverse != nil {
		if err := s.friends.SetRequestStatus(ctx, reverse.ID, models.FriendRequestStatusAccepted); err != nil {
			return nil, apperrors.Internal("failed to accept friend request", err)
		}
		friendship, err := s.connect(ctx, senderID, receiverID)
		if err != nil {
			return nil, err
		}
		metrics.FriendRequest("auto_accepted")
		s.logger.Info("crossing friend requests resolved",
			zap.String("sender_id", senderID), zap.String("receiver_id", receiverID))
		return &models.SendRequestResult{
			Status:       models.FriendRequestStatusAccepted,
			RequestID:    reverse.ID,
			FriendshipID: friendship.ID,
		}, nil
	}

	request := &models.FriendRequest{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendRequestStatusPending,
	}
	if err := s.friends.CreateRequest(ctx, request); err != nil {
		return nil, apperrors.Internal("failed to send friend request", err)
	}
	metrics.FriendRequest("sent")

	return &models.SendRequestResult{Status: models.FriendRequestStatusPending, RequestID: request.ID}, nil
}

// receivedRequest loads a request addressed to actorID that is still pending.
func (s *FriendService) receivedRequest(ctx context.Context, requestID, actorID string) (*models.FriendRequest, error) {
	request, err := s.friends.GetRequest(ctx, requestID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Request not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load friend request", err)
	}
	if request.ReceiverID != actorID {
		return nil, apperrors.NotFound("Request not found")
	}
	if request.Status != models.FriendRequestStatusPending {
		return nil, apperrors.Conflict("Request already " + string(request.Status))
	}
	return request, nil
}

func (s *FriendService) Accept(ctx context.Context, requestID, actorID string) (*models.Friendship, error) {
	request, err := s.receivedRequest(ctx, requestID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.friends.SetRequestStatus(ctx, request.ID, models.FriendRequestStatusAccepted); err != nil {
		return nil, apperrors.Internal("failed to accept friend request", err)
	}
	friendship, err := s.connect(ctx, request.SenderID, request.ReceiverID)
	if err != nil {
		return nil, err
	}

	// a crossed request in the other direction would otherwise stay pending
	if reverse, err := s.pendingRequest(ctx, request.ReceiverID, request.SenderID); err == nil && reverse != nil {
		if err := s.friends.SetRequestStatus(ctx, reverse.ID, models.FriendRequestStatusAccepted); err != nil {
			s.logger.Warn("failed to settle crossed friend request", zap.String("request_id", reverse.ID), zap.Error(err))
		}
	}

	metrics.FriendRequest("accepted")
	return friendship, nil
}

func (s *FriendService) Reject(ctx context.Context, requestID, actorID string) error {
	request, err := s.receivedRequest(ctx, requestID, actorID)
	if err != nil {
		return err
	}
	if err := s.friends.SetRequestStatus(ctx, request.ID, models.FriendRequestStatusRejected); err != nil {
		return apperrors.Internal("failed to reject friend request", err)
	}
	metrics.FriendRequest("rejected")
	return nil
}

// Cancel withdraws a pending request the actor sent. The record is removed so a new one can be sent.
func (s *FriendService) Cancel(ctx context.Context, requestID, actorID string) error {
	request, err := s.friends.GetRequest(ctx, requestID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Request not found")
	}
	if err != nil {
		return apperrors.Internal("failed to load friend request", err)
	}
	if request.SenderID != actorID || request.Status != models.FriendRequestStatusPending {
		return apperrors.NotFound("Request not found")
	}
	if err := s.friends.DeleteRequest(ctx, request.ID); err != nil {
		return apperrors.Internal("failed to cancel friend request", err)
	}
	metrics.FriendRequest("cancelled")
	return nil
}

func (s *FriendService) Remove(ctx context.Context, actorID, friendID string) error {
	err := s.friends.DeleteFriendship(ctx, actorID, friendID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Friendship not found")
	}
	if err != nil {
		return apperrors.Internal("failed to remove friend", err)
	}
	return nil
}

// Status reports the relation from a's point of view: friends, then a sent, then a received.
func (s *FriendService) Status(ctx context.Context, a, b string) (*models.FriendshipCheck, error) {
	friendship, err := s.areFriends(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if friendship != nil {
		return &models.FriendshipCheck{Status: models.FriendStatusFriends, FriendshipID: friendship.ID}, nil
	}

	sent, err := s.pendingRequest(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if sent != nil {
		return &models.FriendshipCheck{Status: models.FriendStatusRequestSent, RequestID: sent.ID}, nil
	}

	received, err := s.pendingRequest(ctx, b, a)
	if err != nil {
		return nil, err
	}
	if received != nil {
		return &models.FriendshipCheck{Status: models.FriendStatusRequestReceived, RequestID: received.ID}, nil
	}

	return &models.FriendshipCheck{Status: models.FriendStatusNone}, nil
}

// AreFriends reports whether an edge exists between a and b.
func (s *FriendService) AreFriends(ctx context.Context, a, b string) (bool, error) {
	friendship, err := s.areFriends(ctx, a, b)
	return friendship != nil, err
}

func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]models.FriendView, error) {
	friendships, err := s.friends.ListFriendships(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load friends", err)
	}

	ids := make([]string, 0, len(friendships))
	for _, f := range friendships {
		ids = append(ids, f.Other(userID))
	}
	cards, err := summaries(ctx, s.users, ids...)
	if err != nil {
		return nil, err
	}

	friends := make([]models.FriendView, 0, len(friendships))
	for _, f := range friendships {
		card, ok := cards[f.Other(userID)]
		if !ok {
			continue
		}
		friends = append(friends, models.FriendView{UserSummary: card, FriendshipID: f.ID, Since: f.CreatedAt})
	}
	return friends, nil
}

func (s *FriendService) ListReceived(ctx context.Context, userID string) ([]models.FriendRequestView, error) {
	requests, err := s.friends.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load friend requests", err)
	}
	return s.annotate(ctx, requests, true)
}

func (s *FriendService) ListSent(ctx context.Context, userID string) ([]models.FriendRequestView, error) {
	requests, err := s.friends.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load friend requests", err)
	}
	return s.annotate(ctx, requests, false)
}

// annotate attaches the counterpart's card: the sender for received requests, the receiver for sent ones.
func (s *FriendService) annotate(ctx context.Context, requests []models.FriendRequest, received bool) ([]models.FriendRequestView, error) {
	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		if received {
			ids = append(ids, r.SenderID)
		} else {
			ids = append(ids, r.ReceiverID)
		}
	}
	cards, err := summaries(ctx, s.users, ids...)
	if err != nil {
		return nil, err
	}

	views := make([]models.FriendRequestView, 0, len(requests))
	for _, r := range requests {
		view := models.FriendRequestView{FriendRequest: r}
		if received {
			card, ok := cards[r.SenderID]
			if !ok {
				continue
			}
			view.From = &card
		} else {
			card, ok := cards[r.ReceiverID]
			if !ok {
				continue
			}
			view.To = &card
		}
		views = append(views, view)
	}
	return views, nil
}
