package comments

import (
	"context"
	"errors"

	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/internal/thread"
)

var ErrRateLimited = errors.New("too many comments, slow down")

type Client interface {
	// LoadThread fetches a post's flat comment list and builds its thread
	// store.
	LoadThread(ctx context.Context, postID string) (*thread.Store, error)

	// AddComment appends a top-level comment to the thread and syncs it
	// upstream.
	AddComment(ctx context.Context, store *thread.Store, authorID, authorUsername, content string) (domain.Comment, error)

	// AddReply appends a reply under parentID. An unknown parent is a
	// programming error and is rejected with errors.ErrUnknownParent.
	AddReply(ctx context.Context, store *thread.Store, parentID, authorID, authorUsername, content string) (domain.Comment, error)
}
