package storiesimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/internal/playback"
	"github.com/pulse-social/pulse/pkg/errors"
)

// OpenViewer loads an author's stories and starts a playback session over
// them. The session owns its own goroutine; viewed marks are synced to the
// store as items are displayed. Persistence failures during a sync are logged
// and must not disturb playback.
func (s *StoriesImpl) OpenViewer(ctx context.Context, username string, startIndex int) (*playback.Session, error) {
	records, err := s.StoryRepo.ListByAuthor(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load stories for %s: %w", username, err)
	}
	if len(records) == 0 {
		return nil, errors.ErrEmptySequence
	}

	items := make([]domain.MediaItem, 0, len(records))
	for _, record := range records {
		items = append(items, record.MediaItem())
	}

	session, err := playback.Open(playback.SessionOpts{
		Items:      items,
		StartIndex: startIndex,
		Policy: playback.DurationPolicy{
			ImageDuration:    time.Duration(s.Config.Playback.ImageDurationMs) * time.Millisecond,
			MaxVideoDuration: time.Duration(s.Config.Playback.MaxVideoDurationMs) * time.Millisecond,
		},
		TickInterval: time.Duration(s.Config.Playback.TickIntervalMs) * time.Millisecond,
		Logger:       s.Logger,
		OnViewed: func(itemID string) {
			// The callback runs on the session goroutine; a slow write here
			// would stall the progress clock, so the sync gets its own
			// goroutine.
			go func() {
				syncCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := s.StoryRepo.MarkViewed(syncCtx, itemID); err != nil {
					s.Logger.Error("Failed to sync viewed state", "story_id", itemID, "error", err)
				}
			}()
		},
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}
