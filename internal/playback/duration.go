package playback

import (
	"time"

	"github.com/pulse-social/pulse/internal/domain"
)

const (
	DefaultImageDuration    = 5 * time.Second
	DefaultMaxVideoDuration = 2 * time.Minute
)

// DurationPolicy decides how long a media item stays on screen before the
// session auto-advances. Images have no intrinsic duration signal, so a fixed
// heuristic applies; videos use their own duration bounded by a ceiling so a
// single long video cannot monopolize the session.
type DurationPolicy struct {
	ImageDuration    time.Duration
	MaxVideoDuration time.Duration
}

func DefaultDurationPolicy() DurationPolicy {
	return DurationPolicy{
		ImageDuration:    DefaultImageDuration,
		MaxVideoDuration: DefaultMaxVideoDuration,
	}
}

// DisplayDuration returns the total display time for an item of the given
// kind. mediaDuration is the item's intrinsic duration where one exists; pass
// zero while it is not yet known. The second return value is false when the
// duration cannot be trusted yet, in which case progress must be held at zero.
func (p DurationPolicy) DisplayDuration(kind domain.MediaKind, mediaDuration time.Duration) (time.Duration, bool) {
	if kind == domain.MediaKindVideo {
		if mediaDuration <= 0 {
			return 0, false
		}
		if mediaDuration > p.MaxVideoDuration {
			return p.MaxVideoDuration, true
		}
		return mediaDuration, true
	}
	return p.ImageDuration, true
}
