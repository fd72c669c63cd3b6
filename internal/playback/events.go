package playback

// EventKind identifies a state transition emitted by the engine.
type EventKind int

const (
	// EventItemChanged fires when a different item became current.
	EventItemChanged EventKind = iota
	// EventProgress fires when the current item's progress advanced.
	EventProgress
	// EventViewed fires the first time an item is displayed.
	EventViewed
	// EventPaused and EventResumed track the pause toggle. For video items
	// the owner must suspend/resume the underlying media in lock-step.
	EventPaused
	EventResumed
	// EventUnmuted fires once, on the first user interaction with a video
	// item. Browser media policies require a genuine gesture to enable
	// audio; Interact is the single trigger point.
	EventUnmuted
	// EventStalled fires when the current item's media failed to load. The
	// session holds in place; the owner shows a fallback and may advance
	// manually.
	EventStalled
	// EventCompleted fires exactly once, when playback advances past the
	// last item.
	EventCompleted
	// EventClosed fires exactly once, when the session is torn down.
	EventClosed
)

func (k EventKind) String() string {
	switch k {
	case EventItemChanged:
		return "item_changed"
	case EventProgress:
		return "progress"
	case EventViewed:
		return "viewed"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventUnmuted:
		return "unmuted"
	case EventStalled:
		return "stalled"
	case EventCompleted:
		return "completed"
	case EventClosed:
		return "closed"
	}
	return "unknown"
}

// Event is a single engine transition. Index and ItemID refer to the current
// item at the time the event fired; Progress carries the current progress in
// [0,100] for EventProgress.
type Event struct {
	Kind     EventKind
	Index    int
	ItemID   string
	Progress float64
}
