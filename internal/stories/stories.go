package stories

import (
	"context"

	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/internal/playback"
)

type Client interface {
	// Publish stores a new story and fans out notifications to the author's
	// subscribers.
	Publish(ctx context.Context, story domain.Story) error

	// OpenViewer loads an author's active stories and starts a playback
	// session over them. Viewed marks and deletions made during playback are
	// synced back to the store.
	OpenViewer(ctx context.Context, username string, startIndex int) (*playback.Session, error)

	// RemoveStory deletes a story record.
	RemoveStory(ctx context.Context, storyID string) error

	// ScheduleCleanup periodically removes stories older than the configured
	// TTL.
	ScheduleCleanup(ctx context.Context) error
}
