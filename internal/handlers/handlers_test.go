package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/baker339/DOGR/internal/feed"
	"github.com/baker339/DOGR/internal/leaderboard"
	"github.com/baker339/DOGR/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createPost(t *testing.T, user string, count int) models.Post {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/posts", user, echo.Map{
		"title": "lunch", "caption": "at the stand", "hotDogsConsumed": count,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Post](t, rec)
}

func (ts *testServer) ensureUser(t *testing.T, user string) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/users/"+user, user, echo.Map{"userId": user})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t)

	post := ts.createPost(t, "u1", 4)
	assert.Equal(t, "u1", post.UserID)
	assert.Equal(t, models.Count(4), post.HotDogsConsumed)
	assert.False(t, post.CreatedAt.IsZero())

	rec := ts.do(t, http.MethodGet, "/api/posts/"+post.ID.Hex(), "u2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreatePostRejects(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/posts", "", echo.Map{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/posts", "u1", echo.Map{"hotDogsConsumed": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPosts(t *testing.T) {
	ts := newTestServer(t)
	ts.createPost(t, "a", 1)
	ts.createPost(t, "b", 2)

	all := decode[[]models.Post](t, ts.do(t, http.MethodGet, "/api/posts", "a", nil))
	assert.Len(t, all, 2)

	mine := decode[[]models.Post](t, ts.do(t, http.MethodGet, "/api/posts?authorId=b", "a", nil))
	require.Len(t, mine, 1)
	assert.Equal(t, "b", mine[0].UserID)
}

func TestFeedThroughPostsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	for _, u := range []string{"V", "F", "O"} {
		ts.ensureUser(t, u)
	}
	rec := ts.do(t, http.MethodPost, "/api/follow", "V", echo.Map{"targetUserId": "F", "currentUserId": "V"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ts.createPost(t, "F", 1)
	ts.createPost(t, "F", 2)
	ts.createPost(t, "O", 3)

	rec = ts.do(t, http.MethodGet, "/api/posts?userId=V&limit=10&skip=0", "V", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[feed.Page](t, rec)

	assert.Equal(t, 2, page.Followed)
	assert.Equal(t, 1, page.Discovery)
	assert.False(t, page.HasMore)
	assert.Equal(t, int64(10), page.NextOffset)
	assert.Equal(t, "O", page.Posts[2].UserID)

	rec = ts.do(t, http.MethodGet, "/api/posts?userId=F", "V", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/feed?limit=1", "V", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[feed.Page](t, rec)
	assert.True(t, page.HasMore)
}

func TestToggleLike(t *testing.T) {
	ts := newTestServer(t)
	post := ts.createPost(t, "author", 1)
	path := "/api/posts/" + post.ID.Hex() + "/like"

	rec := ts.do(t, http.MethodPost, path, "u1", echo.Map{"userId": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"u1"}, decode[models.Post](t, rec).Likes)

	rec = ts.do(t, http.MethodPost, path, "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.Post](t, rec).Likes)

	rec = ts.do(t, http.MethodPost, path, "u1", echo.Map{"userId": "someone-else"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/posts/64b7f0c2a1b2c3d4e5f60718/like", "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/posts/not-an-id/like", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddComment(t *testing.T) {
	ts := newTestServer(t)
	post := ts.createPost(t, "author", 1)
	path := "/api/posts/" + post.ID.Hex() + "/comment"

	rec := ts.do(t, http.MethodPost, path, "u1", echo.Map{"userId": "u1", "text": "respect"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, path, "u2", echo.Map{"text": ""})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[models.Post](t, rec)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "u1", got.Comments[0].UserID)
	assert.Equal(t, "respect", got.Comments[0].Text)
	assert.Equal(t, "u2", got.Comments[1].UserID)
}

func TestDeletePost(t *testing.T) {
	ts := newTestServer(t)
	ts.ensureUser(t, "owner")
	post := ts.createPost(t, "owner", 6)
	ts.createPost(t, "owner", 0)
	path := "/api/posts/" + post.ID.Hex()

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodDelete, path, "intruder", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, path, "owner", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, "owner", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, "owner", nil).Code)

	all := decode[[]models.Post](t, ts.do(t, http.MethodGet, "/api/posts", "owner", nil))
	assert.Len(t, all, 1)
	assert.NotEqual(t, post.ID, all[0].ID)

	board := decode[leaderboard.Board](t, ts.do(t, http.MethodGet, "/api/leaderboard?window=all-time", "owner", nil))
	require.Len(t, board.Global, 1)
	assert.Zero(t, board.Global[0].Total)
}

func TestLeaderboardCountsPostsOlderThanTallies(t *testing.T) {
	ts := newTestServer(t)
	ts.ensureUser(t, "old")
	ts.ensureUser(t, "new")
	legacy := ts.store.SeedPost(models.Post{UserID: "old", HotDogsConsumed: 6, CreatedAt: time.Now().AddDate(-2, 0, 0)})
	ts.store.SeedPost(models.Post{UserID: "old", HotDogsConsumed: 2, CreatedAt: time.Now().AddDate(-2, 0, 0)})

	board := decode[leaderboard.Board](t, ts.do(t, http.MethodGet, "/api/leaderboard?window=all-time", "new", nil))
	require.Len(t, board.Global, 2)
	assert.Equal(t, "old", board.Global[0].UserID)
	assert.Equal(t, int64(8), board.Global[0].Total)

	ts.createPost(t, "new", 3)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, "/api/posts/"+legacy.ID.Hex(), "old", nil).Code)

	board = decode[leaderboard.Board](t, ts.do(t, http.MethodGet, "/api/leaderboard?window=all-time", "new", nil))
	assert.Equal(t, "new", board.Global[0].UserID)
	assert.Equal(t, int64(3), board.Global[0].Total)
	assert.Equal(t, int64(2), board.Global[1].Total)
}

func TestFollowErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.ensureUser(t, "A")

	rec := ts.do(t, http.MethodPost, "/api/follow", "A", echo.Map{"targetUserId": "A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/follow", "A", echo.Map{"targetUserId": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/unfollow", "A", echo.Map{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/follow", "A", echo.Map{"targetUserId": "B", "currentUserId": "Z"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFollowThenUnfollow(t *testing.T) {
	ts := newTestServer(t)
	ts.ensureUser(t, "A")
	ts.ensureUser(t, "B")

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/follow", "A", echo.Map{"targetUserId": "B"}).Code)
	b := decode[models.User](t, ts.do(t, http.MethodGet, "/api/users/B", "A", nil))
	assert.Equal(t, []string{"A"}, b.Followers)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/unfollow", "A", echo.Map{"targetUserId": "B"}).Code)
	a := decode[models.User](t, ts.do(t, http.MethodGet, "/api/users/A", "A", nil))
	assert.Empty(t, a.Following)
}

func TestUnfollowDanglingEdge(t *testing.T) {
	ts := newTestServer(t)
	ts.store.SeedUser(models.User{UserID: "A", Following: []string{"ghost"}, Followers: []string{}})

	rec := ts.do(t, http.MethodPost, "/api/unfollow", "A", echo.Map{"targetUserId": "ghost"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a := decode[models.User](t, ts.do(t, http.MethodGet, "/api/users/A", "A", nil))
	assert.Empty(t, a.Following)

	rec = ts.do(t, http.MethodPost, "/api/unfollow", "A", echo.Map{"targetUserId": "A"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsers(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/users/u1", "u1", echo.Map{"userId": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "name-u1", decode[models.User](t, rec).Name)

	rec = ts.do(t, http.MethodPost, "/api/users/u1", "u1", echo.Map{"name": "Kobayashi"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Kobayashi", decode[models.User](t, rec).Name)

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, "/api/users/u2", "u1", echo.Map{}).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/users/nobody", "u1", nil).Code)

	users := decode[[]models.User](t, ts.do(t, http.MethodGet, "/api/users", "u1", nil))
	assert.Len(t, users, 1)
}

func TestLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	for _, u := range []string{"A", "B", "C", "D"} {
		ts.ensureUser(t, u)
	}
	for _, target := range []string{"B", "C"} {
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/follow", "A", echo.Map{"targetUserId": target}).Code)
	}
	ts.createPost(t, "B", 3)
	ts.createPost(t, "D", 100)

	rec := ts.do(t, http.MethodGet, "/api/leaderboard?window=month", "A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[leaderboard.Board](t, rec)

	require.Len(t, board.Global, 4)
	assert.Equal(t, "D", board.Global[0].UserID)
	assert.Equal(t, leaderboard.Gold, board.Global[0].Badge)
	assert.Equal(t, "B", board.Circle[0].UserID)
	assert.Equal(t, "A", board.Circle[1].UserID)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/leaderboard?window=decade", "A", nil).Code)
}

func TestLogErrorIsUnauthenticated(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/logError", "", echo.Map{
		"error": "TypeError: x is undefined", "location": "/dashboard", "context": "Feed", "userId": "u1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	entries := ts.sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "/dashboard", entries[0].Location)

	rec = ts.do(t, http.MethodPost, "/api/logError", "", echo.Map{"location": "/"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.sink.err = errors.New("db down")
	rec = ts.do(t, http.MethodPost, "/api/logError", "", echo.Map{"error": "again"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStoreFailureBecomesGeneric500AndIsReported(t *testing.T) {
	ts := newTestServer(t)
	ts.store.Fail("GetAllPosts", errors.New("mongo: connection refused"))

	rec := ts.do(t, http.MethodGet, "/api/posts", "u1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decode[map[string]string](t, rec)["message"])

	require.Eventually(t, func() bool { return len(ts.sink.all()) == 1 }, time.Second, 10*time.Millisecond)
	entry := ts.sink.all()[0]
	assert.Equal(t, "GET /api/posts", entry.Location)
	assert.Equal(t, "u1", entry.UserID)
	assert.Contains(t, entry.Error, "connection refused")
}

func TestImageUploadUnconfigured(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/image", "u1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminOperations(t *testing.T) {
	ts := newTestServer(t)
	ts.store.SeedUser(models.User{UserID: "A", Following: []string{"B"}})
	ts.store.SeedUser(models.User{UserID: "B"})
	ts.createPost(t, "A", 2)

	rec := ts.do(t, http.MethodPost, "/api/admin/reconcile-followers", "root", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"repaired":1}}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/admin/rebuild-tallies", "root", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"rows":3}}`, rec.Body.String())
}
