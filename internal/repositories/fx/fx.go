package fx

import (
	"github.com/pulse-social/pulse/internal/repositories/comment"
	"github.com/pulse-social/pulse/internal/repositories/story"
	"github.com/pulse-social/pulse/internal/repositories/subscription"
	"go.uber.org/fx"
)

var Module = fx.Options(
	story.Module,
	comment.Module,
	subscription.Module,
)
