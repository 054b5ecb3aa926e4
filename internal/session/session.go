// Package session carries the authenticated identity explicitly through a request.
package session

import (
	"errors"

	"github.com/labstack/echo/v4"
)

const contextKey = "session"

// ErrNoSession is returned when a handler runs without an authenticated identity.
var ErrNoSession = errors.New("no authenticated session")

// Session is the identity supplied by the authentication provider.
type Session struct {
	UserID      string
	DisplayName string
}

// Set attaches s to the echo context.
func Set(c echo.Context, s Session) {
	c.Set(contextKey, s)
}

// From returns the session attached by the auth middleware.
func From(c echo.Context) (Session, error) {
	s, ok := c.Get(contextKey).(Session)
	if !ok || s.UserID == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// IsAdmin reports whether the session's user is in ids.
func (s Session) IsAdmin(ids []string) bool {
	for _, id := range ids {
		if id == s.UserID {
			return true
		}
	}
	return false
}
