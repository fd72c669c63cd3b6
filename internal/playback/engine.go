package playback

import (
	"time"

	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/pkg/errors"
)

// Engine is the authoritative playback state machine over one media
// sequence. It is a plain synchronous reducer: every operation mutates state
// and returns the events the transition produced, in order. Engine itself is
// not safe for concurrent use; Session serializes all access to it through a
// single goroutine.
//
// Invariants:
//   - exactly one item is current at a time, 0 <= index < len(items)
//   - progress is in [0,100] and resets to 0 whenever the current item changes
//   - EventCompleted and EventClosed each fire at most once
//   - after close, every operation is a no-op
type Engine struct {
	policy DurationPolicy

	items    []domain.MediaItem
	index    int
	progress float64
	paused   bool
	muted    bool

	completed bool
	closed    bool

	durations map[string]time.Duration
	failed    map[string]struct{}
}

// NewEngine creates an engine positioned at startIndex. startIndex is clamped
// into the sequence bounds. Video items start muted until the first Interact.
func NewEngine(items []domain.MediaItem, startIndex int, policy DurationPolicy) (*Engine, error) {
	if len(items) == 0 {
		return nil, errors.ErrEmptySequence
	}
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(items) {
		startIndex = len(items) - 1
	}

	seq := make([]domain.MediaItem, len(items))
	copy(seq, items)

	return &Engine{
		policy:    policy,
		items:     seq,
		index:     startIndex,
		muted:     true,
		durations: make(map[string]time.Duration),
		failed:    make(map[string]struct{}),
	}, nil
}

// Open marks the initial item as displayed. Call once, before any other
// operation.
func (e *Engine) Open() []Event {
	return e.display()
}

// Tick advances progress proportionally to the elapsed wall-clock delta. It
// is a no-op while paused, while the current item's duration is unknown, and
// after close. Reaching 100 triggers an automatic advance.
func (e *Engine) Tick(delta time.Duration) []Event {
	if e.closed || e.paused || delta <= 0 {
		return nil
	}

	item := e.current()
	if _, broken := e.failed[item.ID]; broken {
		// A failed item stalls in place regardless of kind; images would
		// otherwise keep their fixed duration and advance past the failure.
		return nil
	}
	total, known := e.policy.DisplayDuration(item.Kind, e.durations[item.ID])
	if !known {
		// Metadata not loaded: hold in place, never crash.
		return nil
	}

	e.progress += float64(delta) / float64(total) * 100
	if e.progress >= 100 {
		e.progress = 100
		return e.Advance()
	}
	return []Event{e.event(EventProgress)}
}

// Advance moves to the next item, or completes the session when the current
// item is the last one.
func (e *Engine) Advance() []Event {
	if e.closed {
		return nil
	}
	if e.index == len(e.items)-1 {
		return e.complete()
	}
	e.index++
	e.progress = 0
	return e.display()
}

// Retreat moves to the previous item. At the first item it is a no-op, never
// an error.
func (e *Engine) Retreat() []Event {
	if e.closed || e.index == 0 {
		return nil
	}
	e.index--
	e.progress = 0
	return e.display()
}

// TogglePause flips the pause flag. Progress is frozen exactly at its prior
// value while paused.
func (e *Engine) TogglePause() []Event {
	if e.closed {
		return nil
	}
	e.paused = !e.paused
	if e.paused {
		return []Event{e.event(EventPaused)}
	}
	return []Event{e.event(EventResumed)}
}

// Interact handles a tap on the media surface. The first interaction with a
// still-muted video unmutes it; every interaction toggles pause.
func (e *Engine) Interact() []Event {
	if e.closed {
		return nil
	}
	var events []Event
	if e.muted && e.current().Kind == domain.MediaKindVideo {
		e.muted = false
		events = append(events, e.event(EventUnmuted))
	}
	return append(events, e.TogglePause()...)
}

// SetMediaDuration records an item's intrinsic duration once media metadata
// has loaded. A duration arriving for a previously failed item clears the
// failure. Unknown item ids are ignored; they belong to removed items.
func (e *Engine) SetMediaDuration(itemID string, d time.Duration) []Event {
	if e.closed || d <= 0 {
		return nil
	}
	if _, ok := e.find(itemID); !ok {
		return nil
	}
	e.durations[itemID] = d
	delete(e.failed, itemID)
	return nil
}

// MediaLoadFailed records a load failure for an item. If the item is current
// the engine stalls in place and notifies the owner, who may advance
// manually.
func (e *Engine) MediaLoadFailed(itemID string) []Event {
	if e.closed {
		return nil
	}
	if _, ok := e.find(itemID); !ok {
		return nil
	}
	e.failed[itemID] = struct{}{}
	delete(e.durations, itemID)
	if e.current().ID == itemID {
		return []Event{e.event(EventStalled)}
	}
	return nil
}

// Remove deletes an item from the sequence. When the current item is removed
// the index re-anchors to the next item, or to the previous one when the
// removed item was last. Removing the only remaining item closes the session.
// Pause state is preserved across removal.
func (e *Engine) Remove(itemID string) []Event {
	if e.closed {
		return nil
	}
	removed, ok := e.find(itemID)
	if !ok {
		return nil
	}

	delete(e.durations, itemID)
	delete(e.failed, itemID)
	e.items = append(e.items[:removed], e.items[removed+1:]...)

	if len(e.items) == 0 {
		return e.Close()
	}

	switch {
	case removed < e.index:
		// Current item unchanged, it only shifted down one slot.
		e.index--
		return nil
	case removed == e.index:
		if e.index > len(e.items)-1 {
			e.index = len(e.items) - 1
		}
		e.progress = 0
		return e.display()
	default:
		return nil
	}
}

// Close tears the session down. Idempotent; all later operations are no-ops.
func (e *Engine) Close() []Event {
	if e.closed {
		return nil
	}
	e.closed = true
	return []Event{e.event(EventClosed)}
}

// Closed reports whether the session ended, by completion, explicit close, or
// deletion of the last item.
func (e *Engine) Closed() bool {
	return e.closed
}

// Snapshot returns a copy of the observable state.
func (e *Engine) Snapshot() Snapshot {
	items := make([]domain.MediaItem, len(e.items))
	copy(items, e.items)
	return Snapshot{
		Items:     items,
		Index:     e.index,
		Progress:  e.progress,
		Paused:    e.paused,
		Muted:     e.muted,
		Completed: e.completed,
		Closed:    e.closed,
	}
}

// Snapshot is an immutable view of session state, published to readers after
// every mutation.
type Snapshot struct {
	Items     []domain.MediaItem
	Index     int
	Progress  float64
	Paused    bool
	Muted     bool
	Completed bool
	Closed    bool
}

// Current returns the current item of the snapshot, or the zero item for a
// session closed with nothing left in the sequence.
func (s Snapshot) Current() domain.MediaItem {
	if s.Index >= len(s.Items) {
		return domain.MediaItem{}
	}
	return s.Items[s.Index]
}

func (e *Engine) complete() []Event {
	if e.completed {
		return nil
	}
	e.completed = true
	events := []Event{e.event(EventCompleted)}
	return append(events, e.Close()...)
}

// display emits the transition onto the current item, marking it viewed on
// first display.
func (e *Engine) display() []Event {
	events := []Event{e.event(EventItemChanged)}
	if !e.items[e.index].Viewed {
		e.items[e.index].Viewed = true
		events = append(events, e.event(EventViewed))
	}
	return events
}

func (e *Engine) current() domain.MediaItem {
	return e.items[e.index]
}

func (e *Engine) find(itemID string) (int, bool) {
	for i, item := range e.items {
		if item.ID == itemID {
			return i, true
		}
	}
	return 0, false
}

func (e *Engine) event(kind EventKind) Event {
	ev := Event{
		Kind:     kind,
		Index:    e.index,
		Progress: e.progress,
	}
	// The sequence is empty when closing after the last item was removed.
	if e.index < len(e.items) {
		ev.ItemID = e.items[e.index].ID
	}
	return ev
}
