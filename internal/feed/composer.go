// Package feed assembles timeline pages: a recency-ordered slice of posts by
// followed authors followed by a random discovery sample of everyone else.
package feed

import (
	"context"
	"fmt"

	"github.com/baker339/DOGR/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDiscoverySize is the number of discovery posts appended to each page.
const DefaultDiscoverySize = 5

// PostSource reads the two feed slices.
type PostSource interface {
	FindByAuthors(ctx context.Context, authorIDs []string, skip, limit int64) ([]models.Post, error)
	SampleExcludingAuthors(ctx context.Context, authorIDs, excludePostIDs []string, size int) ([]models.Post, error)
}

// FollowingResolver returns the ids a viewer follows; unknown viewers follow nobody.
type FollowingResolver interface {
	Following(ctx context.Context, userID string) ([]string, error)
}

// SeenStore remembers discovery posts already served within a feed session.
type SeenStore interface {
	Seen(ctx context.Context, key string) ([]string, error)
	Remember(ctx context.Context, key string, ids []string) error
}

// Page is one composed feed page.
type Page struct {
	Posts      []models.Post `json:"posts"`
	Followed   int           `json:"followed"`
	Discovery  int           `json:"discovery"`
	HasMore    bool          `json:"hasMore"`
	NextOffset int64         `json:"nextOffset"`
}

// Composer builds feed pages.
type Composer struct {
	posts         PostSource
	graph         FollowingResolver
	seen          SeenStore
	discoverySize int
}

// Option configures a Composer.
type Option func(*Composer)

// WithSeenStore enables per-session exclusion of discovery posts.
func WithSeenStore(s SeenStore) Option {
	return func(c *Composer) { c.seen = s }
}

// WithDiscoverySize overrides DefaultDiscoverySize. Non-positive sizes are ignored.
func WithDiscoverySize(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.discoverySize = n
		}
	}
}

// NewComposer creates a Composer.
func NewComposer(posts PostSource, graph FollowingResolver, opts ...Option) *Composer {
	c := &Composer{posts: posts, graph: graph, discoverySize: DefaultDiscoverySize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page returns the feed page for viewerID. The followed slice is skipped by
// offset and capped at pageSize; discovery is resampled on every call. When
// sessionKey is set and a seen store is configured, discovery posts served
// earlier in the same session are not served again.
func (c *Composer) Page(ctx context.Context, viewerID string, pageSize, offset int64, sessionKey string) (*Page, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	if offset < 0 {
		offset = 0
	}

	following, err := c.graph.Following(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("resolve following: %w", err)
	}

	var exclude []string
	if sessionKey != "" && c.seen != nil {
		exclude, err = c.seen.Seen(ctx, sessionKey)
		if err != nil {
			return nil, fmt.Errorf("load feed session: %w", err)
		}
	}

	var followed, discovery []models.Post
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		followed, err = c.posts.FindByAuthors(gctx, following, offset, pageSize)
		if err != nil {
			return fmt.Errorf("followed posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		discovery, err = c.posts.SampleExcludingAuthors(gctx, following, exclude, c.discoverySize)
		if err != nil {
			return fmt.Errorf("discovery sample: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if sessionKey != "" && c.seen != nil && len(discovery) > 0 {
		if err := c.seen.Remember(ctx, sessionKey, ids(discovery)); err != nil {
			// the page is still valid; the next one may repeat a discovery post
			zap.L().Warn("remember feed session", zap.String("session", sessionKey), zap.Error(err))
		}
	}

	posts := make([]models.Post, 0, len(followed)+len(discovery))
	posts = append(posts, followed...)
	posts = append(posts, discovery...)

	return &Page{
		Posts:      posts,
		Followed:   len(followed),
		Discovery:  len(discovery),
		HasMore:    int64(len(followed)) == pageSize,
		NextOffset: offset + pageSize,
	}, nil
}

// Merge appends the posts of page that are not already in accumulated, keeping
// the first occurrence of each id.
func Merge(accumulated, page []models.Post) []models.Post {
	seen := make(map[string]bool, len(accumulated)+len(page))
	out := make([]models.Post, 0, len(accumulated)+len(page))
	for _, list := range [][]models.Post{accumulated, page} {
		for _, p := range list {
			id := p.ID.Hex()
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, p)
		}
	}
	return out
}

func ids(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID.Hex()
	}
	return out
}
