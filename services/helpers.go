package services

import (
	"context"
	"errors"

	"sigmat-api/apperrors"
	"sigmat-api/models"
	"sigmat-api/repositories"
)

func findUser(ctx context.Context, users repositories.UserRepository, id string) (*models.User, error) {
	user, err := users.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	return user, nil
}

// blockedEitherWay reports whether a has blocked b or b has blocked a.
func blockedEitherWay(ctx context.Context, users repositories.UserRepository, a, b string) (bool, error) {
	blocked, err := users.IsBlocked(ctx, a, b)
	if err != nil {
		return false, apperrors.Internal("failed to check block list", err)
	}
	if blocked {
		return true, nil
	}
	blocked, err = users.IsBlocked(ctx, b, a)
	if err != nil {
		return false, apperrors.Internal("failed to check block list", err)
	}
	return blocked, nil
}

// blockRelations returns every user that userID has blocked or that has blocked userID.
func blockRelations(ctx context.Context, users repositories.UserRepository, userID string) (map[string]bool, error) {
	blocked, err := users.BlockedIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load block list", err)
	}
	blockers, err := users.BlockerIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load block list", err)
	}

	related := make(map[string]bool, len(blocked)+len(blockers))
	for _, id := range blocked {
		related[id] = true
	}
	for _, id := range blockers {
		related[id] = true
	}
	return related, nil
}

func friendIDs(ctx context.Context, friends repositories.FriendRepository, userID string) ([]string, error) {
	friendships, err := friends.ListFriendships(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load friends", err)
	}
	ids := make([]string, 0, len(friendships))
	for _, f := range friendships {
		ids = append(ids, f.Other(userID))
	}
	return ids, nil
}

// summaries resolves user cards for ids, skipping users that no longer exist.
func summaries(ctx context.Context, users repositories.UserRepository, ids ...string) (map[string]models.UserSummary, error) {
	out := make(map[string]models.UserSummary, len(ids))
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		user, err := users.GetByID(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, apperrors.Internal("failed to load user", err)
		}
		out[id] = user.Summary()
	}
	return out, nil
}
