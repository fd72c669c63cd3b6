package playback

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/pkg/logger"
)

const DefaultTickInterval = 50 * time.Millisecond

// SessionOpts configures a playback session over one media sequence.
type SessionOpts struct {
	Items      []domain.MediaItem
	StartIndex int
	Policy     DurationPolicy
	Logger     logger.Logger

	// TickInterval is the progress clock period. The engine never assumes a
	// fixed step: each tick carries the real elapsed time, so progress stays
	// correct under timer throttling.
	TickInterval time.Duration

	// Clock defaults to the real clock; tests inject a fake one.
	Clock clockwork.Clock

	// OnViewed is invoked the first time an item is displayed, so the owner
	// can sync viewed state upstream. Called from the session goroutine.
	OnViewed func(itemID string)
}

// Session drives an Engine from a single goroutine. Ticks, user input, and
// asynchronous media callbacks all funnel into one command channel, so no two
// mutations can interleave; tick-vs-navigation races are structurally
// impossible. Observable state is published as an immutable snapshot after
// every mutation.
//
// A Session is owned exclusively by the viewer instance that created it.
type Session struct {
	engine *Engine
	log    logger.Logger
	clock  clockwork.Clock
	tick   time.Duration

	onViewed func(string)

	cmds   chan func()
	events chan Event
	done   chan struct{}
	snap   atomic.Pointer[Snapshot]
}

// Open validates the sequence and starts the session goroutine. The initial
// item is marked viewed immediately.
func Open(opts SessionOpts) (*Session, error) {
	if opts.Policy == (DurationPolicy{}) {
		opts.Policy = DefaultDurationPolicy()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.New(logger.Opts{})
	}

	engine, err := NewEngine(opts.Items, opts.StartIndex, opts.Policy)
	if err != nil {
		return nil, err
	}

	s := &Session{
		engine:   engine,
		log:      opts.Logger.WithComponent("PlaybackSession"),
		clock:    opts.Clock,
		tick:     opts.TickInterval,
		onViewed: opts.OnViewed,
		cmds:     make(chan func()),
		events:   make(chan Event, 64),
		done:     make(chan struct{}),
	}

	snap := engine.Snapshot()
	s.snap.Store(&snap)

	go s.run()
	return s, nil
}

// Events returns the ordered stream of engine transitions. The channel is
// closed when the session ends.
//
// The stream is lossy under backpressure: when the buffer is full the
// session drops the event, with a warning, rather than block the tick loop.
// Consumers that must not miss state should read Snapshot instead; the
// latest snapshot is always available and never dropped.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Done is closed when the session goroutine has exited and the progress
// clock is released.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns the most recently published state. Safe to call from any
// goroutine, including after close.
func (s *Session) Snapshot() Snapshot {
	return *s.snap.Load()
}

func (s *Session) Advance() {
	s.do(func() []Event { return s.engine.Advance() })
}

func (s *Session) Retreat() {
	s.do(func() []Event { return s.engine.Retreat() })
}

func (s *Session) TogglePause() {
	s.do(func() []Event { return s.engine.TogglePause() })
}

func (s *Session) Interact() {
	s.do(func() []Event { return s.engine.Interact() })
}

// Remove deletes an item from the sequence, re-anchoring the current index.
// Removing the last remaining item closes the session.
func (s *Session) Remove(itemID string) {
	s.do(func() []Event { return s.engine.Remove(itemID) })
}

// SetMediaDuration reports loaded media metadata. A call arriving after the
// session closed is a no-op.
func (s *Session) SetMediaDuration(itemID string, d time.Duration) {
	s.do(func() []Event { return s.engine.SetMediaDuration(itemID, d) })
}

// MediaLoadFailed reports that an item's source could not be loaded. The
// session stalls on the item instead of crashing or auto-advancing.
func (s *Session) MediaLoadFailed(itemID string) {
	s.do(func() []Event { return s.engine.MediaLoadFailed(itemID) })
}

// Close ends the session. Idempotent; the progress clock is stopped and any
// in-flight callback becomes a no-op.
func (s *Session) Close() {
	s.do(func() []Event { return s.engine.Close() })
}

// do funnels a mutation into the session goroutine. After the session ends
// the mutation is dropped.
func (s *Session) do(fn func() []Event) {
	select {
	case s.cmds <- func() { s.apply(fn) }:
	case <-s.done:
	}
}

func (s *Session) run() {
	ticker := s.clock.NewTicker(s.tick)
	defer ticker.Stop()

	s.apply(s.engine.Open)

	last := s.clock.Now()
	for !s.engine.Closed() {
		select {
		case now := <-ticker.Chan():
			s.apply(func() []Event { return s.engine.Tick(now.Sub(last)) })
			last = now
		case fn := <-s.cmds:
			fn()
		}
	}

	close(s.done)
	close(s.events)
}

// apply runs one mutation, publishes the resulting snapshot, then dispatches
// the produced events. Mutate-then-publish: readers observe either the full
// pre- or post-mutation state, never a partial one.
func (s *Session) apply(fn func() []Event) {
	events := fn()
	snap := s.engine.Snapshot()
	s.snap.Store(&snap)

	for _, ev := range events {
		if ev.Kind == EventViewed && s.onViewed != nil {
			s.onViewed(ev.ItemID)
		}
		select {
		case s.events <- ev:
		default:
			s.log.Warn("Dropping playback event, consumer too slow", "kind", ev.Kind.String())
		}
	}
}
