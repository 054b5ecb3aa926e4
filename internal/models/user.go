package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the social-graph document in MongoDB. UserID is the identity-provider UID.
type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Name      string             `json:"name" bson:"name"`
	Following []string           `json:"following" bson:"following"`
	Followers []string           `json:"followers" bson:"followers"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Follows reports whether the user has targetID in its following set.
func (u *User) Follows(targetID string) bool {
	for _, id := range u.Following {
		if id == targetID {
			return true
		}
	}
	return false
}

// CreateUserRequest is the lazy-create body sent on first login
type CreateUserRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name" validate:"max=80"`
}

// FollowRequest is shared by follow and unfollow. CurrentUserID must match the session when set.
type FollowRequest struct {
	TargetUserID  string `json:"targetUserId" validate:"required"`
	CurrentUserID string `json:"currentUserId"`
}
