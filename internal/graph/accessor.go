// Package graph resolves and mutates the follow graph kept on user documents.
package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/baker339/DOGR/internal/models"
	"github.com/baker339/DOGR/internal/repositories"
	"go.uber.org/zap"
)

// ErrSelfFollow is returned when a user tries to follow themselves.
var ErrSelfFollow = errors.New("cannot follow yourself")

// Store is the slice of the user repository the accessor needs.
type Store interface {
	GetUserByUserID(ctx context.Context, userID string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	AddFollowing(ctx context.Context, userID, targetID string) error
	RemoveFollowing(ctx context.Context, userID, targetID string) error
	AddFollower(ctx context.Context, userID, followerID string) error
	RemoveFollower(ctx context.Context, userID, followerID string) error
	SetFollowers(ctx context.Context, userID string, followers []string) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Accessor is the social graph accessor.
type Accessor struct {
	store Store
}

// NewAccessor creates an Accessor over store.
func NewAccessor(store Store) *Accessor {
	return &Accessor{store: store}
}

// Following returns the ids userID follows; an unknown user follows nobody.
func (a *Accessor) Following(ctx context.Context, userID string) ([]string, error) {
	user, err := a.store.GetUserByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	if user.Following == nil {
		return []string{}, nil
	}
	return user.Following, nil
}

// Follow adds targetID to currentID's following set and currentID to the
// target's followers. Repeating it is a no-op.
func (a *Accessor) Follow(ctx context.Context, currentID, targetID string) error {
	if err := a.checkEdge(ctx, currentID, targetID); err != nil {
		return err
	}
	return a.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.store.AddFollowing(ctx, currentID, targetID); err != nil {
			return fmt.Errorf("add following: %w", err)
		}
		if err := a.store.AddFollower(ctx, targetID, currentID); err != nil {
			return fmt.Errorf("add follower: %w", err)
		}
		return nil
	})
}

// Unfollow is the inverse of Follow. Removing an absent edge is a no-op, as is
// either side having no user document.
func (a *Accessor) Unfollow(ctx context.Context, currentID, targetID string) error {
	return a.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.store.RemoveFollowing(ctx, currentID, targetID); err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			return fmt.Errorf("remove following: %w", err)
		}
		if err := a.store.RemoveFollower(ctx, targetID, currentID); err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			return fmt.Errorf("remove follower: %w", err)
		}
		return nil
	})
}

// ReconcileFollowers recomputes every user's followers from the following sets,
// which are the source of truth. It returns how many users were rewritten.
func (a *Accessor) ReconcileFollowers(ctx context.Context) (int, error) {
	users, err := a.store.GetUsers(ctx)
	if err != nil {
		return 0, err
	}

	want := Followers(users)
	repaired := 0
	for _, u := range users {
		expected := want[u.UserID]
		if sameSet(u.Followers, expected) {
			continue
		}
		if err := a.store.SetFollowers(ctx, u.UserID, expected); err != nil {
			return repaired, fmt.Errorf("set followers of %s: %w", u.UserID, err)
		}
		repaired++
	}
	if repaired > 0 {
		zap.L().Info("followers reconciled", zap.Int("repaired", repaired), zap.Int("users", len(users)))
	}
	return repaired, nil
}

// Followers inverts the following sets of users. Ids followed but not present
// in users are dropped; the result has an entry for every user.
func Followers(users []models.User) map[string][]string {
	out := make(map[string][]string, len(users))
	for _, u := range users {
		out[u.UserID] = []string{}
	}
	for _, u := range users {
		seen := make(map[string]bool, len(u.Following))
		for _, target := range u.Following {
			if seen[target] {
				continue
			}
			seen[target] = true
			if _, ok := out[target]; ok {
				out[target] = append(out[target], u.UserID)
			}
		}
	}
	return out
}

// checkEdge rejects self follows and follows of users that do not exist,
// before either side is written.
func (a *Accessor) checkEdge(ctx context.Context, currentID, targetID string) error {
	if currentID == targetID {
		return ErrSelfFollow
	}
	if _, err := a.store.GetUserByUserID(ctx, targetID); err != nil {
		return err
	}
	return nil
}

func sameSet(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	if len(set) != len(b) {
		return false
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}
