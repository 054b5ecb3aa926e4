package middleware

import (
	"context"

	"firebase.google.com/go/v4/auth"
	"github.com/baker339/DOGR/internal/session"
)

// FirebaseVerifier verifies Firebase ID tokens.
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier creates a verifier backed by the Firebase auth client.
func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify checks the ID token and returns its UID and display name.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (session.Session, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return session.Session{}, err
	}
	name, _ := token.Claims["name"].(string)
	return session.Session{UserID: token.UID, DisplayName: name}, nil
}
