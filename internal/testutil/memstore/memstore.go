// Package memstore provides in-memory implementations of the repository
// interfaces for tests.
package memstore

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/baker339/DOGR/internal/models"
	"github.com/baker339/DOGR/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repositories.PostRepository = (*Store)(nil)
	_ repositories.UserRepository = (*Store)(nil)
)

// Store holds posts and users. Fail injects an error for a named method.
type Store struct {
	mu    sync.Mutex
	posts []models.Post
	users []models.User
	fails map[string]error
	rng   *rand.Rand

	// Now stamps new posts and comments.
	Now func() time.Time
	// Calls counts invocations per method name.
	Calls map[string]int
}

// New returns an empty store with a deterministic sampler.
func New() *Store {
	return &Store{
		fails: map[string]error{},
		rng:   rand.New(rand.NewSource(1)),
		Now:   func() time.Time { return time.Now().UTC() },
		Calls: map[string]int{},
	}
}

// Fail makes every later call of method return err.
func (s *Store) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[method] = err
}

func (s *Store) enter(method string) error {
	s.Calls[method]++
	return s.fails[method]
}

// SeedPost inserts p as-is, assigning an id when missing.
func (s *Store) SeedPost(p models.Post) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.posts = append(s.posts, p)
	return p
}

// SeedUser inserts u as-is.
func (s *Store) SeedUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreatePost"); err != nil {
		return err
	}
	post.ID = primitive.NewObjectID()
	post.CreatedAt = s.Now()
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	s.posts = append(s.posts, clonePost(*post))
	return nil
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetPostByID"); err != nil {
		return nil, err
	}
	i, err := s.postIndex(id)
	if err != nil {
		return nil, err
	}
	p := clonePost(s.posts[i])
	return &p, nil
}

func (s *Store) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetAllPosts"); err != nil {
		return nil, err
	}
	return s.filterSorted(func(models.Post) bool { return true }), nil
}

func (s *Store) GetPostsByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetPostsByUserID"); err != nil {
		return nil, err
	}
	return s.filterSorted(func(p models.Post) bool { return p.UserID == userID }), nil
}

func (s *Store) FindByAuthors(ctx context.Context, authorIDs []string, skip, limit int64) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindByAuthors"); err != nil {
		return nil, err
	}
	in := toSet(authorIDs)
	all := s.filterSorted(func(p models.Post) bool { return in[p.UserID] })
	if skip >= int64(len(all)) {
		return []models.Post{}, nil
	}
	all = all[skip:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (s *Store) SampleExcludingAuthors(ctx context.Context, authorIDs, excludePostIDs []string, size int) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SampleExcludingAuthors"); err != nil {
		return nil, err
	}
	out := toSet(authorIDs)
	skip := toSet(excludePostIDs)
	var pool []models.Post
	for _, p := range s.posts {
		if !out[p.UserID] && !skip[p.ID.Hex()] {
			pool = append(pool, clonePost(p))
		}
	}
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if size < len(pool) {
		pool = pool[:size]
	}
	if pool == nil {
		pool = []models.Post{}
	}
	return pool, nil
}

func (s *Store) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ToggleLike"); err != nil {
		return nil, err
	}
	i, err := s.postIndex(postID)
	if err != nil {
		return nil, err
	}
	p := &s.posts[i]
	if p.LikedBy(userID) {
		kept := []string{}
		for _, id := range p.Likes {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.Likes = kept
	} else {
		p.Likes = append(p.Likes, userID)
	}
	c := clonePost(*p)
	return &c, nil
}

func (s *Store) AppendComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("AppendComment"); err != nil {
		return nil, err
	}
	i, err := s.postIndex(postID)
	if err != nil {
		return nil, err
	}
	s.posts[i].Comments = append(s.posts[i].Comments, comment)
	c := clonePost(s.posts[i])
	return &c, nil
}

func (s *Store) DeleteOwnedPost(ctx context.Context, postID, ownerID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteOwnedPost"); err != nil {
		return nil, err
	}
	i, err := s.postIndex(postID)
	if err != nil {
		return nil, err
	}
	if s.posts[i].UserID != ownerID {
		return nil, repositories.ErrForbidden
	}
	p := s.posts[i]
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return &p, nil
}

func (s *Store) EnsureUser(ctx context.Context, userID, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("EnsureUser"); err != nil {
		return nil, err
	}
	if i := s.userIndex(userID); i >= 0 {
		if name != "" {
			s.users[i].Name = name
		}
		u := cloneUser(s.users[i])
		return &u, nil
	}
	u := models.User{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Name:      name,
		Following: []string{},
		Followers: []string{},
		CreatedAt: s.Now(),
	}
	s.users = append(s.users, u)
	c := cloneUser(u)
	return &c, nil
}

func (s *Store) GetUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetUserByUserID"); err != nil {
		return nil, err
	}
	i := s.userIndex(userID)
	if i < 0 {
		return nil, repositories.ErrUserNotFound
	}
	u := cloneUser(s.users[i])
	return &u, nil
}

func (s *Store) GetUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetUsers"); err != nil {
		return nil, err
	}
	out := make([]models.User, len(s.users))
	for i, u := range s.users {
		out[i] = cloneUser(u)
	}
	return out, nil
}

func (s *Store) AddFollowing(ctx context.Context, userID, targetID string) error {
	return s.mutateUser("AddFollowing", userID, func(u *models.User) { u.Following = addTo(u.Following, targetID) })
}

func (s *Store) RemoveFollowing(ctx context.Context, userID, targetID string) error {
	return s.mutateUser("RemoveFollowing", userID, func(u *models.User) { u.Following = pull(u.Following, targetID) })
}

func (s *Store) AddFollower(ctx context.Context, userID, followerID string) error {
	return s.mutateUser("AddFollower", userID, func(u *models.User) { u.Followers = addTo(u.Followers, followerID) })
}

func (s *Store) RemoveFollower(ctx context.Context, userID, followerID string) error {
	return s.mutateUser("RemoveFollower", userID, func(u *models.User) { u.Followers = pull(u.Followers, followerID) })
}

func (s *Store) SetFollowers(ctx context.Context, userID string, followers []string) error {
	return s.mutateUser("SetFollowers", userID, func(u *models.User) { u.Followers = append([]string{}, followers...) })
}

// WithTransaction runs fn directly; the store has no transactions.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) mutateUser(method, userID string, fn func(u *models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(method); err != nil {
		return err
	}
	i := s.userIndex(userID)
	if i < 0 {
		return repositories.ErrUserNotFound
	}
	fn(&s.users[i])
	return nil
}

func (s *Store) postIndex(id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1, repositories.ErrInvalidID
	}
	for i := range s.posts {
		if s.posts[i].ID == oid {
			return i, nil
		}
	}
	return -1, repositories.ErrPostNotFound
}

func (s *Store) userIndex(userID string) int {
	for i := range s.users {
		if s.users[i].UserID == userID {
			return i
		}
	}
	return -1
}

func (s *Store) filterSorted(keep func(models.Post) bool) []models.Post {
	out := []models.Post{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func clonePost(p models.Post) models.Post {
	p.Likes = append([]string{}, p.Likes...)
	p.Comments = append([]models.Comment{}, p.Comments...)
	return p
}

func cloneUser(u models.User) models.User {
	u.Following = append([]string{}, u.Following...)
	u.Followers = append([]string{}, u.Followers...)
	return u
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func addTo(set []string, id string) []string {
	for _, v := range set {
		if v == id {
			return set
		}
	}
	return append(set, id)
}

func pull(set []string, id string) []string {
	out := []string{}
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
