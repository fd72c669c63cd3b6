package storiesimpl

import (
	"github.com/pulse-social/pulse/internal/notifier"
	storyRepo "github.com/pulse-social/pulse/internal/repositories/story"
	"github.com/pulse-social/pulse/internal/repositories/subscription"
	"github.com/pulse-social/pulse/internal/stories"
	"github.com/pulse-social/pulse/pkg/config"
	"github.com/pulse-social/pulse/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Logger           logger.Logger
	Config           *config.Config
	Notifier         notifier.Client
	StoryRepo        storyRepo.Repository
	SubscriptionRepo subscription.Repository
}

type StoriesImpl struct {
	Logger           logger.Logger
	Config           *config.Config
	Notifier         notifier.Client
	StoryRepo        storyRepo.Repository
	SubscriptionRepo subscription.Repository
}

func New(opts Opts) *StoriesImpl {
	return &StoriesImpl{
		Logger:           opts.Logger.WithComponent("Stories"),
		Config:           opts.Config,
		Notifier:         opts.Notifier,
		StoryRepo:        opts.StoryRepo,
		SubscriptionRepo: opts.SubscriptionRepo,
	}
}

var _ stories.Client = (*StoriesImpl)(nil)
