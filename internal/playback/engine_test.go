package playback

import (
	"testing"
	"time"

	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/pkg/errors"
	"github.com/stretchr/testify/require"
)

func imageItems(ids ...string) []domain.MediaItem {
	items := make([]domain.MediaItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, domain.MediaItem{ID: id, Kind: domain.MediaKindImage, SourceURI: "https://cdn.example/" + id})
	}
	return items
}

func newTestEngine(t *testing.T, items []domain.MediaItem, start int) *Engine {
	t.Helper()
	e, err := NewEngine(items, start, DefaultDurationPolicy())
	require.NoError(t, err)
	e.Open()
	return e
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestNewEngineEmptySequence(t *testing.T) {
	_, err := NewEngine(nil, 0, DefaultDurationPolicy())
	require.ErrorIs(t, err, errors.ErrEmptySequence)
}

func TestNewEngineClampsStartIndex(t *testing.T) {
	e, err := NewEngine(imageItems("a", "b"), 7, DefaultDurationPolicy())
	require.NoError(t, err)
	require.Equal(t, 1, e.Snapshot().Index)

	e, err = NewEngine(imageItems("a", "b"), -1, DefaultDurationPolicy())
	require.NoError(t, err)
	require.Equal(t, 0, e.Snapshot().Index)
}

func TestOpenMarksInitialItemViewed(t *testing.T) {
	e, err := NewEngine(imageItems("a", "b"), 0, DefaultDurationPolicy())
	require.NoError(t, err)

	events := e.Open()
	require.Equal(t, []EventKind{EventItemChanged, EventViewed}, kinds(events))
	require.True(t, e.Snapshot().Items[0].Viewed)
	require.False(t, e.Snapshot().Items[1].Viewed)
}

func TestProgressMonotonicity(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b"), 0)

	prev := 0.0
	for i := 0; i < 99; i++ {
		e.Tick(50 * time.Millisecond)
		snap := e.Snapshot()
		require.Equal(t, 0, snap.Index)
		require.GreaterOrEqual(t, snap.Progress, prev)
		prev = snap.Progress
	}

	// One more tick crosses 100 (100 * 50ms = 5s) and auto-advances.
	events := e.Tick(50 * time.Millisecond)
	snap := e.Snapshot()
	require.Equal(t, 1, snap.Index)
	require.Equal(t, 0.0, snap.Progress)
	require.Contains(t, kinds(events), EventItemChanged)
}

func TestTickIgnoresNonPositiveDelta(t *testing.T) {
	e := newTestEngine(t, imageItems("a"), 0)

	e.Tick(time.Second)
	before := e.Snapshot().Progress
	e.Tick(0)
	e.Tick(-time.Second)
	require.Equal(t, before, e.Snapshot().Progress)
}

func TestPauseInvariant(t *testing.T) {
	e := newTestEngine(t, imageItems("a"), 0)

	e.Tick(time.Second)
	frozen := e.Snapshot().Progress
	require.Greater(t, frozen, 0.0)

	events := e.TogglePause()
	require.Equal(t, []EventKind{EventPaused}, kinds(events))

	for i := 0; i < 10; i++ {
		require.Empty(t, e.Tick(time.Second))
	}
	require.Equal(t, frozen, e.Snapshot().Progress)

	events = e.TogglePause()
	require.Equal(t, []EventKind{EventResumed}, kinds(events))
	require.Equal(t, frozen, e.Snapshot().Progress)

	e.Tick(time.Second)
	require.Greater(t, e.Snapshot().Progress, frozen)
}

func TestRetreatAtFirstItemIsNoop(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b"), 0)

	e.Tick(time.Second)
	before := e.Snapshot()

	require.Empty(t, e.Retreat())
	after := e.Snapshot()
	require.Equal(t, before.Index, after.Index)
	require.Equal(t, before.Progress, after.Progress)
}

func TestRetreatResetsProgress(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b"), 1)

	e.Tick(time.Second)
	events := e.Retreat()
	require.Contains(t, kinds(events), EventItemChanged)

	snap := e.Snapshot()
	require.Equal(t, 0, snap.Index)
	require.Equal(t, 0.0, snap.Progress)
}

func TestAdvanceAtLastSignalsCompletionExactlyOnce(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b"), 1)

	events := e.Advance()
	require.Equal(t, []EventKind{EventCompleted, EventClosed}, kinds(events))
	require.True(t, e.Closed())

	// No wrap to index 0, no second completion.
	require.Empty(t, e.Advance())
	require.Equal(t, 1, e.Snapshot().Index)
}

func TestVideoCap(t *testing.T) {
	items := []domain.MediaItem{{ID: "v", Kind: domain.MediaKindVideo, SourceURI: "https://cdn.example/v"}}
	e := newTestEngine(t, items, 0)
	e.SetMediaDuration("v", 300*time.Second)

	// 119s of playback is not enough under the 120s cap.
	e.Tick(119 * time.Second)
	require.Less(t, e.Snapshot().Progress, 100.0)
	require.False(t, e.Closed())

	// Crossing 120s reaches 100% long before the intrinsic 300s.
	events := e.Tick(time.Second)
	require.Contains(t, kinds(events), EventCompleted)
	require.True(t, e.Closed())
}

func TestVideoWithoutMetadataStalls(t *testing.T) {
	items := []domain.MediaItem{{ID: "v", Kind: domain.MediaKindVideo, SourceURI: "https://cdn.example/v"}}
	e := newTestEngine(t, items, 0)

	for i := 0; i < 10; i++ {
		require.Empty(t, e.Tick(time.Minute))
	}
	require.Equal(t, 0.0, e.Snapshot().Progress)
	require.False(t, e.Closed())

	// Metadata arriving unfreezes progress.
	e.SetMediaDuration("v", 10*time.Second)
	e.Tick(time.Second)
	require.Greater(t, e.Snapshot().Progress, 0.0)
}

func TestMediaLoadFailureStallsWithoutCrashing(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b"), 0)

	events := e.MediaLoadFailed("a")
	require.Equal(t, []EventKind{EventStalled}, kinds(events))

	// The failed item no longer auto-advances.
	require.Empty(t, e.Tick(time.Minute))
	require.Equal(t, 0.0, e.Snapshot().Progress)

	// Manual advance still works.
	events = e.Advance()
	require.Contains(t, kinds(events), EventItemChanged)
	require.Equal(t, 1, e.Snapshot().Index)
}

func TestFailedImageResumesAfterSuccessfulReload(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b"), 0)
	e.MediaLoadFailed("a")
	require.Empty(t, e.Tick(time.Minute))

	// A successful reload clears the failure and the fixed image duration
	// applies again.
	e.SetMediaDuration("a", time.Second)
	e.Tick(time.Second)
	require.Greater(t, e.Snapshot().Progress, 0.0)
}

func TestMediaLoadFailureForNonCurrentItemIsSilent(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b"), 0)
	require.Empty(t, e.MediaLoadFailed("b"))
}

func TestInteractUnmutesVideoOnce(t *testing.T) {
	items := []domain.MediaItem{{ID: "v", Kind: domain.MediaKindVideo, SourceURI: "https://cdn.example/v"}}
	e := newTestEngine(t, items, 0)
	require.True(t, e.Snapshot().Muted)

	events := e.Interact()
	require.Equal(t, []EventKind{EventUnmuted, EventPaused}, kinds(events))
	require.False(t, e.Snapshot().Muted)

	events = e.Interact()
	require.Equal(t, []EventKind{EventResumed}, kinds(events))
}

func TestInteractOnImageOnlyTogglesPause(t *testing.T) {
	e := newTestEngine(t, imageItems("a"), 0)

	events := e.Interact()
	require.Equal(t, []EventKind{EventPaused}, kinds(events))
	require.True(t, e.Snapshot().Muted)
}

func TestRemoveCurrentKeepsIndexPointingAtNextItem(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b", "c"), 0)
	e.Tick(time.Second)

	events := e.Remove("a")
	require.Contains(t, kinds(events), EventItemChanged)

	snap := e.Snapshot()
	require.Equal(t, 0, snap.Index)
	require.Equal(t, "b", snap.Current().ID)
	require.Equal(t, 0.0, snap.Progress)
}

func TestRemoveLastPositionedItemAnchorsToPrevious(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b", "c"), 2)

	e.Remove("c")
	snap := e.Snapshot()
	require.Equal(t, 1, snap.Index)
	require.Equal(t, "b", snap.Current().ID)
}

func TestRemoveEarlierItemShiftsIndexWithoutResettingProgress(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b", "c"), 2)
	e.Tick(time.Second)
	progress := e.Snapshot().Progress

	require.Empty(t, e.Remove("a"))
	snap := e.Snapshot()
	require.Equal(t, 1, snap.Index)
	require.Equal(t, "c", snap.Current().ID)
	require.Equal(t, progress, snap.Progress)
}

func TestRemovePreservesPauseState(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b"), 0)
	e.TogglePause()

	e.Remove("a")
	require.True(t, e.Snapshot().Paused)
}

func TestRemoveLastRemainingItemClosesSession(t *testing.T) {
	e := newTestEngine(t, imageItems("a"), 0)

	events := e.Remove("a")
	require.Equal(t, []EventKind{EventClosed}, kinds(events))
	require.True(t, e.Closed())

	// No further tick effects are observable.
	require.Empty(t, e.Tick(time.Minute))
	require.Empty(t, e.Advance())
}

func TestCloseIsIdempotent(t *testing.T) {
	e := newTestEngine(t, imageItems("a"), 0)

	events := e.Close()
	require.Equal(t, []EventKind{EventClosed}, kinds(events))
	require.Empty(t, e.Close())
}

func TestOperationsAfterCloseAreNoops(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b"), 0)
	e.Close()

	require.Empty(t, e.Tick(time.Second))
	require.Empty(t, e.Advance())
	require.Empty(t, e.Retreat())
	require.Empty(t, e.TogglePause())
	require.Empty(t, e.Interact())
	require.Empty(t, e.Remove("a"))
	require.Empty(t, e.SetMediaDuration("a", time.Second))
	require.Empty(t, e.MediaLoadFailed("a"))
}

func TestAdvanceMarksNewItemViewed(t *testing.T) {
	e := newTestEngine(t, imageItems("a", "b"), 0)

	events := e.Advance()
	require.Equal(t, []EventKind{EventItemChanged, EventViewed}, kinds(events))
	require.True(t, e.Snapshot().Items[1].Viewed)

	// Going back to an already viewed item does not re-mark it.
	events = e.Retreat()
	require.Equal(t, []EventKind{EventItemChanged}, kinds(events))
}
