package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a consumption post stored in MongoDB
type Post struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID          string             `json:"userId" bson:"userId"` // identity-provider UID of the author
	Title           string             `json:"title" bson:"title"`
	Caption         string             `json:"caption" bson:"caption"`
	ImageURL        string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Location        string             `json:"location,omitempty" bson:"location,omitempty"`
	HotDogsConsumed Count              `json:"hotDogsConsumed" bson:"hotDogsConsumed"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	Likes           []string           `json:"likes" bson:"likes"`
	Comments        []Comment          `json:"comments" bson:"comments"`
}

// Comment is embedded in Post.Comments in insertion order
type Comment struct {
	UserID    string    `json:"userId" bson:"userId"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// LikedBy reports whether userID is in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title           string `json:"title" validate:"max=120"`
	Caption         string `json:"caption" validate:"max=2000"`
	ImageURL        string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Location        string `json:"location,omitempty" validate:"max=200"`
	HotDogsConsumed Count  `json:"hotDogsConsumed" validate:"min=0"`
}

// LikeRequest is the body of a like toggle. UserID is optional and must match the session.
type LikeRequest struct {
	UserID string `json:"userId"`
}

// CommentRequest is the body of a new comment. Empty text is accepted.
type CommentRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text" validate:"max=500"`
}
