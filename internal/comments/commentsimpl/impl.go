package commentsimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/pulse-social/pulse/internal/comments"
	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/internal/ratelimit"
	commentRepo "github.com/pulse-social/pulse/internal/repositories/comment"
	"github.com/pulse-social/pulse/internal/thread"
	"github.com/pulse-social/pulse/pkg/config"
	"github.com/pulse-social/pulse/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Logger      logger.Logger
	Config      *config.Config
	CommentRepo commentRepo.Repository
}

type CommentsImpl struct {
	Logger      logger.Logger
	Config      *config.Config
	CommentRepo commentRepo.Repository
	Limiter     ratelimit.Limiter
}

func New(opts Opts) *CommentsImpl {
	return &CommentsImpl{
		Logger:      opts.Logger.WithComponent("Comments"),
		Config:      opts.Config,
		CommentRepo: opts.CommentRepo,
		Limiter:     ratelimit.NewInMemoryLimiter(1, 5*time.Second, 3),
	}
}

var _ comments.Client = (*CommentsImpl)(nil)

func (c *CommentsImpl) LoadThread(ctx context.Context, postID string) (*thread.Store, error) {
	flat, err := c.CommentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments for post %s: %w", postID, err)
	}

	store := thread.NewStore(thread.Opts{
		PostID:          postID,
		DisclosureLimit: c.Config.Thread.DisclosureLimit,
		MentionPrefix:   c.Config.Thread.MentionPrefix,
	})
	if err := store.Load(flat); err != nil {
		return nil, fmt.Errorf("failed to build thread for post %s: %w", postID, err)
	}

	return store, nil
}

func (c *CommentsImpl) AddComment(ctx context.Context, store *thread.Store, authorID, authorUsername, content string) (domain.Comment, error) {
	if !c.Limiter.Allow(authorID) {
		return domain.Comment{}, comments.ErrRateLimited
	}

	created := store.AddComment(authorID, authorUsername, content)
	c.persist(ctx, created)
	return created, nil
}

func (c *CommentsImpl) AddReply(ctx context.Context, store *thread.Store, parentID, authorID, authorUsername, content string) (domain.Comment, error) {
	if !c.Limiter.Allow(authorID) {
		return domain.Comment{}, comments.ErrRateLimited
	}

	created, err := store.AddReply(parentID, authorID, authorUsername, content)
	if err != nil {
		return domain.Comment{}, err
	}

	c.persist(ctx, created)
	return created, nil
}

// persist syncs a committed thread mutation upstream. The in-memory store is
// authoritative for the viewer; a persistence failure is logged, not
// propagated.
func (c *CommentsImpl) persist(ctx context.Context, comment domain.Comment) {
	if err := c.CommentRepo.Create(ctx, comment); err != nil {
		c.Logger.Error("Failed to persist comment",
			"comment_id", comment.ID,
			"post_id", comment.PostID,
			"error", err)
	}
}
