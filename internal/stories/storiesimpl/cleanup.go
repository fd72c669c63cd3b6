package storiesimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleCleanup runs a periodic job deleting stories older than the
// configured TTL. The scheduler shuts down when ctx is cancelled.
func (s *StoriesImpl) ScheduleCleanup(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	interval := time.Duration(s.Config.Stories.CleanupIntervalMinutes) * time.Minute
	ttl := time.Duration(s.Config.Stories.TTLHours) * time.Hour

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				s.Logger.Info("Context cancelled, stopping story cleanup schedule")
				return
			}
			taskCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			deleted, err := s.StoryRepo.CleanupOldRecords(taskCtx, ttl)
			if err != nil {
				s.Logger.Error("Failed to clean up expired stories", "error", err)
				s.Notifier.SendAlert("Story cleanup error: " + err.Error())
				return
			}
			if deleted > 0 {
				s.Logger.Info("Expired stories removed", "count", deleted, "ttl", ttl.String())
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule story cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		s.Logger.Info("Stopping story cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			s.Logger.Error("Failed to shut down scheduler", "error", err)
		}
	}()

	return nil
}
