// Package engagement implements the write side of posts: publishing, likes,
// comments and owner-only deletion.
package engagement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/baker339/DOGR/internal/models"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Store is the slice of the post repository the engine mutates.
type Store interface {
	CreatePost(ctx context.Context, post *models.Post) error
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
	AppendComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error)
	DeleteOwnedPost(ctx context.Context, postID, ownerID string) (*models.Post, error)
}

// Recorder keeps the consumption tallies in step with published posts.
type Recorder interface {
	Record(ctx context.Context, userID string, createdAt time.Time, delta int64) error
}

// NewPost is the author-supplied part of a post.
type NewPost struct {
	Title           string
	Caption         string
	ImageURL        string
	Location        string
	HotDogsConsumed int64
}

// Engine applies engagement actions.
type Engine struct {
	store    Store
	recorder Recorder
	policy   *bluemonday.Policy
	now      func() time.Time
}

// NewEngine creates an Engine. recorder may be nil.
func NewEngine(store Store, recorder Recorder) *Engine {
	return &Engine{
		store:    store,
		recorder: recorder,
		policy:   bluemonday.StrictPolicy(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Publish stores a new post authored by authorID.
func (e *Engine) Publish(ctx context.Context, authorID string, in NewPost) (*models.Post, error) {
	if in.HotDogsConsumed < 0 {
		in.HotDogsConsumed = 0
	}
	post := &models.Post{
		UserID:          authorID,
		Title:           e.clean(in.Title),
		Caption:         e.clean(in.Caption),
		ImageURL:        strings.TrimSpace(in.ImageURL),
		Location:        e.clean(in.Location),
		HotDogsConsumed: models.Count(in.HotDogsConsumed),
	}
	if err := e.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	e.record(ctx, post, int64(post.HotDogsConsumed))
	return post, nil
}

// ToggleLike adds userID to the post's likes, or removes it when present.
func (e *Engine) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return e.store.ToggleLike(ctx, postID, userID)
}

// AddComment appends a comment stamped with the server time.
func (e *Engine) AddComment(ctx context.Context, postID, userID, text string) (*models.Post, error) {
	return e.store.AppendComment(ctx, postID, models.Comment{
		UserID:    userID,
		Text:      e.clean(text),
		CreatedAt: e.now().Truncate(time.Millisecond),
	})
}

// DeletePost removes the post if requesterID authored it. The ownership check
// and the delete are one store operation.
func (e *Engine) DeletePost(ctx context.Context, postID, requesterID string) error {
	post, err := e.store.DeleteOwnedPost(ctx, postID, requesterID)
	if err != nil {
		return err
	}
	e.record(ctx, post, -int64(post.HotDogsConsumed))
	return nil
}

// record failures leave the tallies stale until the next rebuild; the post
// write itself already succeeded.
func (e *Engine) record(ctx context.Context, post *models.Post, delta int64) {
	if e.recorder == nil || delta == 0 {
		return
	}
	if err := e.recorder.Record(ctx, post.UserID, post.CreatedAt, delta); err != nil {
		zap.L().Error("record consumption tally",
			zap.String("postId", post.ID.Hex()),
			zap.String("userId", post.UserID),
			zap.Int64("delta", delta),
			zap.Error(err),
		)
	}
}

func (e *Engine) clean(s string) string {
	return strings.TrimSpace(e.policy.Sanitize(s))
}
