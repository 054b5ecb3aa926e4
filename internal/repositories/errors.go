package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrPostNotFound is returned when a post identifier does not resolve.
	ErrPostNotFound = errors.New("post not found")
	// ErrUserNotFound is returned when a user identifier does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden is returned when the requester does not own the document.
	ErrForbidden = errors.New("requester does not own this post")
	// ErrInvalidID is returned for identifiers that are not valid ObjectIDs.
	ErrInvalidID = errors.New("invalid id format")
)

func objectID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
