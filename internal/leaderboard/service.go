package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/baker339/DOGR/internal/models"
	"go.uber.org/zap"
)

// UserLister lists every user.
type UserLister interface {
	GetUsers(ctx context.Context) ([]models.User, error)
}

// PostLister lists every post.
type PostLister interface {
	GetAllPosts(ctx context.Context) ([]models.Post, error)
}

// TallyStore is the maintained per-user, per-bucket aggregate.
type TallyStore interface {
	Apply(ctx context.Context, userID string, buckets []string, delta int64) error
	Totals(ctx context.Context, bucket string) (map[string]int64, error)
	Replace(ctx context.Context, tallies []models.ConsumptionTally) error
}

// ErrNoTallyStore is returned by Rebuild when tallies are not configured.
var ErrNoTallyStore = errors.New("tally store not configured")

// Service serves leaderboards. With a tally store, totals come from the
// maintained aggregate; without one, every request scans all posts.
//
// An empty tally store is seeded from the posts collection before it is read
// or written, so deltas are never applied to an aggregate that is missing the
// posts written before it existed.
type Service struct {
	users   UserLister
	posts   PostLister
	tallies TallyStore
	loc     *time.Location
	now     func() time.Time

	mu     sync.Mutex
	seeded bool
}

// NewService creates a Service. tallies may be nil.
func NewService(users UserLister, posts PostLister, tallies TallyStore, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{users: users, posts: posts, tallies: tallies, loc: loc, now: time.Now}
}

// Board returns the leaderboard for window as seen by viewerID.
func (s *Service) Board(ctx context.Context, window Window, viewerID string) (*Board, error) {
	now := s.now().In(s.loc)

	users, err := s.users.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var totals map[string]int64
	if s.tallies != nil {
		if err := s.Warm(ctx); err != nil {
			return nil, err
		}
		totals, err = s.tallies.Totals(ctx, window.Bucket(now))
		if err != nil {
			return nil, fmt.Errorf("load tallies: %w", err)
		}
	} else {
		posts, err := s.posts.GetAllPosts(ctx)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		totals = Totals(posts, window, now)
	}

	board := Rank(users, totals, viewerID)
	board.Window = window
	return &board, nil
}

// Warm seeds the tally store from the posts collection when it holds no rows.
// It runs at most once successfully; a failure is retried on the next call.
func (s *Service) Warm(ctx context.Context) error {
	if s.tallies == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded {
		return nil
	}

	totals, err := s.tallies.Totals(ctx, AllTime.Bucket(time.Time{}))
	if err != nil {
		return fmt.Errorf("load tallies: %w", err)
	}
	if len(totals) == 0 {
		if _, err := s.rebuild(ctx); err != nil {
			return err
		}
	}
	s.seeded = true
	return nil
}

// Record adds delta to the author's tallies for a post created at createdAt.
// It is a no-op without a tally store, and before the store has been seeded:
// the post write it follows is picked up by the seeding rebuild instead.
func (s *Service) Record(ctx context.Context, userID string, createdAt time.Time, delta int64) error {
	if s.tallies == nil || delta == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seeded {
		return nil
	}
	return s.tallies.Apply(ctx, userID, Buckets(createdAt, s.loc), delta)
}

// Rebuild recomputes every tally from the posts collection and returns the
// number of rows written.
func (s *Service) Rebuild(ctx context.Context) (int, error) {
	if s.tallies == nil {
		return 0, ErrNoTallyStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.rebuild(ctx)
	if err != nil {
		return 0, err
	}
	s.seeded = true
	return n, nil
}

func (s *Service) rebuild(ctx context.Context) (int, error) {
	posts, err := s.posts.GetAllPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list posts: %w", err)
	}

	type key struct{ user, bucket string }
	sums := make(map[key]int64)
	var order []key
	for _, p := range posts {
		for _, b := range Buckets(p.CreatedAt, s.loc) {
			k := key{p.UserID, b}
			if _, ok := sums[k]; !ok {
				order = append(order, k)
			}
			sums[k] += int64(p.HotDogsConsumed)
		}
	}

	rows := make([]models.ConsumptionTally, 0, len(order))
	for _, k := range order {
		rows = append(rows, models.ConsumptionTally{UserID: k.user, Bucket: k.bucket, Total: sums[k]})
	}
	if err := s.tallies.Replace(ctx, rows); err != nil {
		return 0, fmt.Errorf("replace tallies: %w", err)
	}
	zap.L().Info("tallies rebuilt", zap.Int("posts", len(posts)), zap.Int("rows", len(rows)))
	return len(rows), nil
}
