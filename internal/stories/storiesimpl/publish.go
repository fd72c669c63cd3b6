package storiesimpl

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pulse-social/pulse/internal/domain"
	storyRepo "github.com/pulse-social/pulse/internal/repositories/story"
	"github.com/pulse-social/pulse/pkg/errors"
	"github.com/pulse-social/pulse/pkg/retry"
)

// Publish stores the story and notifies every subscriber of the author. The
// fan-out runs on a bounded worker pool; a failed delivery is retried with
// backoff and then dropped, it never fails the publish itself.
func (s *StoriesImpl) Publish(ctx context.Context, story domain.Story) error {
	if err := s.StoryRepo.Create(ctx, story); err != nil {
		if errors.Is(err, storyRepo.ErrCannotCreate) {
			s.Logger.Warn("Story might already exist, skipping fan-out", "story_id", story.StoryID)
			return nil
		}
		return fmt.Errorf("failed to save story %s: %w", story.StoryID, err)
	}

	subscriberIDs, err := s.SubscriptionRepo.GetSubscribersForAuthor(ctx, story.UserName)
	if err != nil {
		return fmt.Errorf("failed to get subscribers for %s: %w", story.UserName, err)
	}

	if len(subscriberIDs) == 0 {
		return nil
	}

	s.Logger.Info("Fanning out story to subscribers",
		"story_id", story.StoryID,
		"username", story.UserName,
		"count", len(subscriberIDs))

	s.fanOut(ctx, story, subscriberIDs)
	return nil
}

func (s *StoriesImpl) fanOut(ctx context.Context, story domain.Story, chatIDs []int64) {
	var wg sync.WaitGroup
	pool, _ := ants.NewPool(s.Config.Stories.FanoutWorkers, ants.WithPreAlloc(true))
	defer pool.Release()

	for _, chatID := range chatIDs {
		wg.Add(1)
		chatToNotify := chatID

		err := pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				s.Logger.Info("Skipping delivery due to context cancellation", "chat_id", chatToNotify)
				return
			default:
				s.deliver(ctx, story, chatToNotify)
			}
		})
		if err != nil {
			wg.Done()
			s.Logger.Error("Failed to submit delivery to pool", "chat_id", chatToNotify, "error", err)
		}
	}

	wg.Wait()
}

func (s *StoriesImpl) deliver(ctx context.Context, story domain.Story, chatID int64) {
	err := retry.Do(ctx, s.Logger, "send story media",
		func() error {
			return s.Notifier.SendMediaByUrl(chatID, story.MediaKind, story.MediaURL)
		},
		retry.DefaultConfig(),
	)
	if err != nil {
		s.Logger.Error("Failed to deliver story to subscriber",
			"chat_id", chatID,
			"story_id", story.StoryID,
			"error", err)
	}
}

// RemoveStory deletes a story record.
func (s *StoriesImpl) RemoveStory(ctx context.Context, storyID string) error {
	if err := s.StoryRepo.Delete(ctx, storyID); err != nil {
		return fmt.Errorf("failed to delete story %s: %w", storyID, err)
	}
	return nil
}
