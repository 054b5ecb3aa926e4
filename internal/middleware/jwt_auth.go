package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/baker339/DOGR/internal/session"
	"github.com/golang-jwt/jwt/v4"
)

// Claims is the payload of locally issued tokens. The subject is the user id.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 tokens signed with a shared secret. It stands in
// for Firebase when running locally.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a JWTVerifier.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set when AUTH_MODE=jwt")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

// Verify parses and validates tokenString.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (session.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return session.Session{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return session.Session{}, errors.New("invalid token")
	}
	return session.Session{UserID: claims.Subject, DisplayName: claims.Name}, nil
}
