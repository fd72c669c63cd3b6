package domain

// MediaKind distinguishes media items with an intrinsic duration (video) from
// those without (image).
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaItem is a single entry in a playback sequence.
type MediaItem struct {
	ID        string
	Kind      MediaKind
	SourceURI string
	Caption   string
	Viewed    bool
}
