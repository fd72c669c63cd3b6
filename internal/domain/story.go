package domain

import "time"

type Story struct {
	ID        int
	StoryID   string
	AuthorID  string
	UserName  string
	MediaKind MediaKind
	MediaURL  string
	Caption   string
	Viewed    bool
	CreatedAt time.Time
}

// MediaItem converts the persisted record into the playback representation.
func (s Story) MediaItem() MediaItem {
	return MediaItem{
		ID:        s.StoryID,
		Kind:      s.MediaKind,
		SourceURI: s.MediaURL,
		Caption:   s.Caption,
		Viewed:    s.Viewed,
	}
}
