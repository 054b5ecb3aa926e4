package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/baker339/DOGR/internal/engagement"
	"github.com/baker339/DOGR/internal/feed"
	"github.com/baker339/DOGR/internal/graph"
	"github.com/baker339/DOGR/internal/leaderboard"
	"github.com/baker339/DOGR/internal/models"
	"github.com/baker339/DOGR/internal/session"
	"github.com/baker339/DOGR/internal/testutil/memstore"
	"github.com/baker339/DOGR/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const userHeader = "X-Test-User"

type recordingSink struct {
	mu      sync.Mutex
	entries []models.ErrorLog
	err     error
}

func (s *recordingSink) CreateErrorLog(ctx context.Context, entry *models.ErrorLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return s.err
}

func (s *recordingSink) all() []models.ErrorLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ErrorLog{}, s.entries...)
}

type testServer struct {
	e       *echo.Echo
	store   *memstore.Store
	tallies *memstore.Tallies
	sink    *recordingSink
}

// fakeAuth trusts the user id in userHeader.
func fakeAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := c.Request().Header.Get(userHeader); id != "" {
			session.Set(c, session.Session{UserID: id, DisplayName: "name-" + id})
		}
		return next(c)
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		e:       echo.New(),
		store:   memstore.New(),
		tallies: memstore.NewTallies(),
		sink:    &recordingSink{},
	}

	ts.e.HTTPErrorHandler = NewErrorReporter(ts.sink, zap.NewNop()).Handle
	ts.e.Validator = validators.NewValidator()

	accessor := graph.NewAccessor(ts.store)
	board := leaderboard.NewService(ts.store, ts.store, ts.tallies, time.UTC)
	engine := engagement.NewEngine(ts.store, board)
	feedHandler := NewFeedHandler(feed.NewComposer(ts.store, accessor))

	api := ts.e.Group("/api")
	NewErrorLogHandler(ts.sink).RegisterErrorLogRoutes(api)

	authed := api.Group("", fakeAuth)
	NewPostHandler(ts.store, engine, feedHandler).RegisterPostRoutes(authed)
	feedHandler.RegisterFeedRoutes(authed)
	NewLikeHandler(engine).RegisterLikeRoutes(authed)
	NewCommentHandler(engine).RegisterCommentRoutes(authed)
	NewFollowHandler(accessor).RegisterFollowRoutes(authed)
	NewUserHandler(ts.store).RegisterUserRoutes(authed)
	NewLeaderboardHandler(board).RegisterLeaderboardRoutes(authed)
	NewImageHandler(nil).RegisterImageRoutes(authed)
	NewAdminHandler(accessor, board).RegisterAdminRoutes(authed.Group("/admin"))
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if user != "" {
		req.Header.Set(userHeader, user)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
